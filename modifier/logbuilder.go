package modifier

import (
	"fmt"

	"github.com/mudoc/mudoc/doc"
)

const (
	setSection   = "$set"
	unsetSection = "$unset"
)

// LogBuilder accumulates log entries for one update into a document of
// shape {$set: {...}, $unset: {...}}. The sections are created lazily
// in that order, on first use.
type LogBuilder struct {
	doc    *doc.Document
	sets   doc.Element
	unsets doc.Element
}

func NewLogBuilder() *LogBuilder {
	return &LogBuilder{doc: doc.NewDocument()}
}

// Doc returns the log document. Elements passed to AddToSets must be
// constructed in it.
func (lb *LogBuilder) Doc() *doc.Document {
	return lb.doc
}

// Root returns the root of the log document.
func (lb *LogBuilder) Root() doc.Element {
	return lb.doc.Root()
}

// AddToSets appends el, whose field name is the dotted target path,
// under the $set section.
func (lb *LogBuilder) AddToSets(el doc.Element) error {
	if !lb.sets.Ok() {
		lb.sets = lb.doc.MakeElementObject(setSection)
		if err := lb.doc.Root().PushBack(lb.sets); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}
	if err := lb.sets.PushBack(el); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}

// AddToUnsets records an idempotent removal marker {<path>: 1} under
// the $unset section.
func (lb *LogBuilder) AddToUnsets(path string) error {
	if !lb.unsets.Ok() {
		lb.unsets = lb.doc.MakeElementObject(unsetSection)
		if err := lb.doc.Root().PushBack(lb.unsets); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}
	if err := lb.unsets.PushBack(lb.doc.MakeElementInt(path, 1)); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}
