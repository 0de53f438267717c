package modifier

import (
	"errors"
	"fmt"

	"github.com/mudoc/mudoc/debug"
	"github.com/mudoc/mudoc/doc"
	"github.com/mudoc/mudoc/fieldpath"
)

// Push appends the operand value to the target array, creating the
// array (and missing path segments) when the target is absent. An
// append always changes the document, so push never prepares a no-op.
type Push struct {
	fieldRef *fieldpath.Path
	posIdx   int
	hasPos   bool

	val doc.Element

	prepared *pushPrepared
}

type pushPrepared struct {
	root        doc.Element
	idxFound    int
	elemFound   doc.Element
	boundDollar string

	// arr is the array holding the result after Apply, for logging.
	arr doc.Element
}

func (m *Push) Init(spec doc.Element) error {
	p, err := fieldpath.Parse(spec.FieldName())
	if err != nil {
		return err
	}
	m.fieldRef = p
	m.posIdx, m.hasPos = p.Positional()
	m.val = spec
	return nil
}

func (m *Push) Prepare(root doc.Element, matchedField string, info *ExecInfo) error {
	m.prepared = &pushPrepared{root: root, idxFound: -1, elemFound: root.Doc().End()}

	if m.hasPos {
		if matchedField == "" {
			return ErrMissingMatchedField
		}
		m.prepared.boundDollar = matchedField
		if err := m.fieldRef.SetPart(m.posIdx, matchedField); err != nil {
			return err
		}
	}

	idx, elem, err := fieldpath.FindLongestPrefix(m.fieldRef, root)
	switch {
	case errors.Is(err, fieldpath.ErrNotFound):
		elem = root.Doc().End()
	case err != nil:
		return err
	}
	m.prepared.idxFound = idx
	m.prepared.elemFound = elem

	info.FieldRef = m.fieldRef

	if elem.Ok() && idx == m.fieldRef.NumParts()-1 && elem.Type() != doc.ArrayType {
		return fmt.Errorf("%w: cannot apply %s to a non-array value", ErrTypeMismatch, PushOp)
	}
	return nil
}

func (m *Push) Apply() error {
	if m.prepared == nil {
		panic("push: apply without prepare")
	}
	if debug.Op() {
		debug.Logf("push: appending at %s\n", m.fieldRef.Dotted())
	}
	rootDoc := m.prepared.root.Doc()
	entry, err := rootDoc.MakeElementWithNewFieldName("", m.val)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if m.prepared.elemFound.Ok() && m.prepared.idxFound == m.fieldRef.NumParts()-1 {
		if err := m.prepared.elemFound.PushBack(entry); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		m.prepared.arr = m.prepared.elemFound
		return nil
	}
	lastPart := m.fieldRef.Part(m.fieldRef.NumParts() - 1)
	arr := rootDoc.MakeElementArray(lastPart)
	if err := arr.PushBack(entry); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	base := m.prepared.root
	if m.prepared.idxFound >= 0 {
		base = m.prepared.elemFound
	}
	if err := fieldpath.CreatePathAt(m.fieldRef, m.prepared.idxFound+1, base, arr); err != nil {
		return err
	}
	m.prepared.arr = arr
	return nil
}

// Log records the whole resulting array. It relies on Apply having
// run, matching the protocol's prepare-apply-log sequencing for
// non-noOp updates.
func (m *Push) Log(lb *LogBuilder) error {
	if m.prepared == nil {
		panic("push: log without prepare")
	}
	if !m.prepared.arr.Ok() {
		return fmt.Errorf("%w: %s log before apply", ErrInternal, PushOp)
	}
	logElement, err := lb.Doc().MakeElementWithNewFieldName(m.fieldRef.Dotted(), m.prepared.arr)
	if err != nil {
		return fmt.Errorf("%w: cannot create log entry for %s mod: %v", ErrInternal, PushOp, err)
	}
	return lb.AddToSets(logElement)
}
