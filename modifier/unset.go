package modifier

import (
	"errors"
	"fmt"

	"github.com/mudoc/mudoc/debug"
	"github.com/mudoc/mudoc/doc"
	"github.com/mudoc/mudoc/fieldpath"
)

// Unset removes the element at the target path. An absent target is a
// no-op; the log entry is the same idempotent unset marker either way.
type Unset struct {
	fieldRef *fieldpath.Path
	posIdx   int
	hasPos   bool

	prepared *unsetPrepared
}

type unsetPrepared struct {
	idxFound    int
	elemFound   doc.Element
	boundDollar string
	noOp        bool
}

func (m *Unset) Init(spec doc.Element) error {
	p, err := fieldpath.Parse(spec.FieldName())
	if err != nil {
		return err
	}
	m.fieldRef = p
	m.posIdx, m.hasPos = p.Positional()
	return nil
}

func (m *Unset) Prepare(root doc.Element, matchedField string, info *ExecInfo) error {
	m.prepared = &unsetPrepared{idxFound: -1, elemFound: root.Doc().End()}

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

	if !elem.Ok() || idx < m.fieldRef.NumParts()-1 {
		m.prepared.noOp = true
		info.NoOp = true
	}
	return nil
}

func (m *Unset) Apply() error {
	if m.prepared == nil || m.prepared.noOp {
		panic("unset: apply without a matching non-noOp prepare")
	}
	if debug.Op() {
		debug.Logf("unset: removing %s\n", m.fieldRef.Dotted())
	}
	if err := m.prepared.elemFound.Remove(); err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return nil
}

func (m *Unset) Log(lb *LogBuilder) error {
	if m.prepared == nil {
		panic("unset: log without prepare")
	}
	return lb.AddToUnsets(m.fieldRef.Dotted())
}
