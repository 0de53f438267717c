// Package matcher parses query-shaped match specifications into
// immutable predicate trees and evaluates them against document
// elements. A specification is either a literal (equality), an object
// whose first key names an operator (operator predicate), or a plain
// object (structural equality). The caller distinguishes the last two
// by inspecting the first key with IsOperator.
package matcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mudoc/mudoc/debug"
	"github.com/mudoc/mudoc/doc"
)

var ErrBadPredicate = errors.New("bad predicate")

// condition is one evaluable predicate over a single element. exists
// reports whether the addressed field was present at all.
type condition interface {
	matches(el doc.Element, exists bool) (bool, error)
}

// fieldCond applies a condition to one (possibly dotted) field of the
// candidate object. An empty field addresses the candidate itself.
type fieldCond struct {
	field string
	cond  condition
}

// Matcher is a parsed predicate tree. It is immutable after Parse and
// may be evaluated any number of times.
type Matcher struct {
	conds []fieldCond
}

// Parse builds a predicate over object candidates. Each field of spec
// is either a literal (equality on that field), an operator object
// ({$gt: 5, $lt: 9} and the like), or the logical forms $and / $or /
// $not / $expr at the top level.
func Parse(spec doc.Element) (*Matcher, error) {
	if !spec.Ok() || spec.Type() != doc.ObjectType {
		return nil, fmt.Errorf("%w: specification must be an object", ErrBadPredicate)
	}
	m := &Matcher{}
	for f := spec.LeftChild(); f.Ok(); f = f.RightSibling() {
		name := f.FieldName()
		switch {
		case name == opAnd, name == opOr:
			cond, err := parseLogical(name, f)
			if err != nil {
				return nil, err
			}
			m.conds = append(m.conds, fieldCond{field: "", cond: cond})
		case name == opExpr:
			cond, err := parseExpr(f)
			if err != nil {
				return nil, err
			}
			m.conds = append(m.conds, fieldCond{field: "", cond: cond})
		case strings.HasPrefix(name, "$"):
			return nil, fmt.Errorf("%w: unknown top-level operator %q", ErrBadPredicate, name)
		default:
			cond, err := parseFieldSpec(f)
			if err != nil {
				return nil, err
			}
			m.conds = append(m.conds, fieldCond{field: name, cond: cond})
		}
	}
	return m, nil
}

// ParseValue builds a predicate over bare values from an operator
// object, e.g. {$gt: 5}. It is the parse-side counterpart of wrapping
// a primitive candidate into a singleton keyed object.
func ParseValue(spec doc.Element) (*Matcher, error) {
	if !spec.Ok() || spec.Type() != doc.ObjectType {
		return nil, fmt.Errorf("%w: value specification must be an object", ErrBadPredicate)
	}
	cond, err := parseOps(spec)
	if err != nil {
		return nil, err
	}
	return &Matcher{conds: []fieldCond{{field: "", cond: cond}}}, nil
}

// parseFieldSpec parses the value of one field of a predicate object:
// an operator object when its first key is an operator, otherwise a
// literal equality (including whole-object structural equality).
func parseFieldSpec(f doc.Element) (condition, error) {
	if f.Type() == doc.ObjectType && f.HasChildren() && IsOperator(f.LeftChild().FieldName()) {
		return parseOps(f)
	}
	return eqCond{operand: f}, nil
}

// MatchesObject evaluates the predicate against an object candidate.
func (m *Matcher) MatchesObject(obj doc.Element) (bool, error) {
	if debug.Match() {
		debug.Logf("matchesObject %s\n", obj)
	}
	if !obj.Ok() || obj.Type() != doc.ObjectType {
		return false, fmt.Errorf("%w: candidate is not an object", ErrBadPredicate)
	}
	for _, fc := range m.conds {
		target, exists := lookup(obj, fc.field)
		ok, err := fc.cond.matches(target, exists)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Matches evaluates the predicate against a bare value. Object
// candidates go through MatchesObject; for any other candidate the
// conditions apply to the value itself, exactly as if the value had
// been wrapped into a singleton object keyed by the empty name.
func (m *Matcher) Matches(el doc.Element) (bool, error) {
	if el.Ok() && el.Type() == doc.ObjectType {
		return m.MatchesObject(el)
	}
	if debug.Match() {
		debug.Logf("matches %s\n", el)
	}
	for _, fc := range m.conds {
		if fc.field != "" {
			return false, nil
		}
		ok, err := fc.cond.matches(el, el.Ok())
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// lookup resolves a dotted field within obj.
func lookup(obj doc.Element, field string) (doc.Element, bool) {
	if field == "" {
		return obj, true
	}
	cur := obj
	for _, part := range strings.Split(field, ".") {
		if !cur.Ok() || cur.Type() != doc.ObjectType {
			return obj.Doc().End(), false
		}
		cur = cur.FindFirstChildNamed(part)
	}
	if !cur.Ok() {
		return obj.Doc().End(), false
	}
	return cur, true
}
