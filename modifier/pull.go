package modifier

import (
	"errors"
	"fmt"

	"github.com/mudoc/mudoc/debug"
	"github.com/mudoc/mudoc/doc"
	"github.com/mudoc/mudoc/fieldpath"
	"github.com/mudoc/mudoc/matcher"
)

// Pull removes every element of the target array that matches the
// operand: a literal for typed value equality, an operator object for
// predicate matching (wrapped so primitives match uniformly), or a
// plain object for structural equality against object entries.
type Pull struct {
	fieldRef *fieldpath.Path
	posIdx   int
	hasPos   bool

	// exprElt is the operand element of the spec; matchExpr is set
	// when the operand parsed as a predicate.
	exprElt            doc.Element
	matchExpr          *matcher.Matcher
	matcherOnPrimitive bool

	prepared *pullPrepared
}

// pullPrepared is the per-update scratch between Prepare and
// Apply/Log; each Prepare replaces it wholesale.
type pullPrepared struct {
	// idxFound is the index of the deepest path segment for which an
	// element exists; elemFound is that element.
	idxFound  int
	elemFound doc.Element

	// boundDollar is the value bound to a positional segment.
	boundDollar string

	// elementsToRemove holds matches in encounter order.
	elementsToRemove []doc.Element

	noOp bool
}

func (m *Pull) Init(spec doc.Element) error {
	p, err := fieldpath.Parse(spec.FieldName())
	if err != nil {
		return err
	}
	m.fieldRef = p
	m.posIdx, m.hasPos = p.Positional()

	m.exprElt = spec
	if spec.Type() == doc.ObjectType {
		// The first key decides between an operator predicate over
		// primitives and whole-object structural matching. A real
		// field sharing an operator name loses this toss; that
		// resolution order is part of the contract.
		first := spec.LeftChild()
		m.matcherOnPrimitive = first.Ok() && matcher.IsOperator(first.FieldName())
		if m.matcherOnPrimitive {
			m.matchExpr, err = matcher.ParseValue(spec)
		} else {
			m.matchExpr, err = matcher.Parse(spec)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Pull) Prepare(root doc.Element, matchedField string, info *ExecInfo) error {
	m.prepared = &pullPrepared{idxFound: -1, elemFound: root.Doc().End()}

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
		// The path not existing at all is fine here; the mod cannot
		// proceed only on a structural mismatch.
		elem = root.Doc().End()
	case err != nil:
		return err
	}
	m.prepared.idxFound = idx
	m.prepared.elemFound = elem

	// The driver needs the field path to sort out conflicts among
	// mods, no-op or not.
	info.FieldRef = m.fieldRef

	if !elem.Ok() || idx < m.fieldRef.NumParts()-1 {
		m.prepared.noOp = true
		info.NoOp = true
		return nil
	}

	if elem.Type() != doc.ArrayType {
		return fmt.Errorf("%w: cannot apply %s to a non-array value", ErrTypeMismatch, PullOp)
	}

	if !elem.HasChildren() {
		m.prepared.noOp = true
		info.NoOp = true
		return nil
	}

	for cursor := elem.LeftChild(); cursor.Ok(); cursor = cursor.RightSibling() {
		ok, err := m.isMatch(cursor)
		if err != nil {
			return err
		}
		if ok {
			m.prepared.elementsToRemove = append(m.prepared.elementsToRemove, cursor)
		}
	}

	if len(m.prepared.elementsToRemove) == 0 {
		m.prepared.noOp = true
		info.NoOp = true
	}
	return nil
}

func (m *Pull) Apply() error {
	if m.prepared == nil || m.prepared.noOp {
		panic("pull: apply without a matching non-noOp prepare")
	}
	if !m.prepared.elemFound.Ok() || m.prepared.idxFound != m.fieldRef.NumParts()-1 {
		panic("pull: apply with unresolved target path")
	}
	if debug.Op() {
		debug.Logf("pull: removing %d elements at %s\n",
			len(m.prepared.elementsToRemove), m.fieldRef.Dotted())
	}
	// The match scan ran before any removal, so removing earlier
	// matches cannot invalidate handles to later ones.
	for _, el := range m.prepared.elementsToRemove {
		if err := el.Remove(); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}
	return nil
}

func (m *Pull) Log(lb *LogBuilder) error {
	if m.prepared == nil {
		panic("pull: log without prepare")
	}
	if !m.prepared.elemFound.Ok() || m.prepared.idxFound < m.fieldRef.NumParts()-1 {
		// The target did not fully resolve: log an unset marker that
		// removes the field on replay regardless of prior state.
		return lb.AddToUnsets(m.fieldRef.Dotted())
	}

	// Log the whole resulting array rather than a removal delta:
	// simpler and safe against reordering, at the cost of log size.
	logElement := lb.Doc().MakeElementArray(m.fieldRef.Dotted())
	for curr := m.prepared.elemFound.LeftChild(); curr.Ok(); curr = curr.RightSibling() {
		currCopy, err := lb.Doc().MakeElementWithNewFieldName("", curr)
		if err != nil {
			return fmt.Errorf("%w: cannot copy entry for %s log: %v", ErrInternal, PullOp, err)
		}
		if err := logElement.PushBack(currCopy); err != nil {
			return fmt.Errorf("%w: cannot append entry for %s log: %v", ErrInternal, PullOp, err)
		}
	}
	return lb.AddToSets(logElement)
}

// isMatch evaluates one array entry against the operand. The element
// must carry a concrete, already-materialized value.
func (m *Pull) isMatch(el doc.Element) (bool, error) {
	if m.matchExpr == nil {
		// Literal operand: typed value equality, field names ignored.
		return doc.Compare(el, m.exprElt, false) == 0, nil
	}
	if m.matcherOnPrimitive {
		return m.matchExpr.Matches(el)
	}
	if el.Type() != doc.ObjectType {
		return false, nil
	}
	return m.matchExpr.MatchesObject(el)
}
