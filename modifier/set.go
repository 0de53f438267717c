package modifier

import (
	"errors"
	"fmt"

	"github.com/mudoc/mudoc/debug"
	"github.com/mudoc/mudoc/doc"
	"github.com/mudoc/mudoc/fieldpath"
)

// Set assigns the operand value at the target path, creating missing
// path segments on apply. Assigning a value equal to the existing one
// is a no-op.
type Set struct {
	fieldRef *fieldpath.Path
	posIdx   int
	hasPos   bool

	val doc.Element

	prepared *setPrepared
}

type setPrepared struct {
	root        doc.Element
	idxFound    int
	elemFound   doc.Element
	boundDollar string
	noOp        bool
}

func (m *Set) Init(spec doc.Element) error {
	p, err := fieldpath.Parse(spec.FieldName())
	if err != nil {
		return err
	}
	m.fieldRef = p
	m.posIdx, m.hasPos = p.Positional()
	m.val = spec
	return nil
}

func (m *Set) Prepare(root doc.Element, matchedField string, info *ExecInfo) error {
	m.prepared = &setPrepared{root: root, idxFound: -1, elemFound: root.Doc().End()}

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

	if elem.Ok() && idx == m.fieldRef.NumParts()-1 &&
		doc.Compare(elem, m.val, false) == 0 {
		m.prepared.noOp = true
		info.NoOp = true
	}
	return nil
}

func (m *Set) Apply() error {
	if m.prepared == nil || m.prepared.noOp {
		panic("set: apply without a matching non-noOp prepare")
	}
	if debug.Op() {
		debug.Logf("set: assigning at %s\n", m.fieldRef.Dotted())
	}
	if m.prepared.elemFound.Ok() && m.prepared.idxFound == m.fieldRef.NumParts()-1 {
		if err := m.prepared.elemFound.SetValue(m.val); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil
	}
	rootDoc := m.prepared.root.Doc()
	lastPart := m.fieldRef.Part(m.fieldRef.NumParts() - 1)
	newElem, err := rootDoc.MakeElementWithNewFieldName(lastPart, m.val)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	base := m.prepared.root
	if m.prepared.idxFound >= 0 {
		base = m.prepared.elemFound
	}
	if err := fieldpath.CreatePathAt(m.fieldRef, m.prepared.idxFound+1, base, newElem); err != nil {
		return err
	}
	return nil
}

func (m *Set) Log(lb *LogBuilder) error {
	if m.prepared == nil {
		panic("set: log without prepare")
	}
	logElement, err := lb.Doc().MakeElementWithNewFieldName(m.fieldRef.Dotted(), m.val)
	if err != nil {
		return fmt.Errorf("%w: cannot create log entry for %s mod: %v", ErrInternal, SetOp, err)
	}
	return lb.AddToSets(logElement)
}
