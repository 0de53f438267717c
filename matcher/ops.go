package matcher

import (
	"fmt"

	"github.com/mudoc/mudoc/doc"
)

const (
	opEq     = "$eq"
	opNe     = "$ne"
	opGt     = "$gt"
	opGte    = "$gte"
	opLt     = "$lt"
	opLte    = "$lte"
	opIn     = "$in"
	opNin    = "$nin"
	opExists = "$exists"
	opNot    = "$not"
	opAnd    = "$and"
	opOr     = "$or"
	opExpr   = "$expr"
)

// IsOperator reports whether name is a recognized comparison-operator
// name. Callers use it on the first key of an object specification to
// distinguish operator predicates from plain objects matched
// structurally; that resolution order is part of the contract.
func IsOperator(name string) bool {
	switch name {
	case opEq, opNe, opGt, opGte, opLt, opLte, opIn, opNin, opExists, opNot, opExpr:
		return true
	}
	return false
}

// parseOps parses an operator object such as {$gt: 5, $lt: 9} into a
// single condition; multiple keys conjoin.
func parseOps(obj doc.Element) (condition, error) {
	var conds []condition
	for c := obj.LeftChild(); c.Ok(); c = c.RightSibling() {
		cond, err := parseOp(c.FieldName(), c)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	if len(conds) == 0 {
		return nil, fmt.Errorf("%w: empty operator object", ErrBadPredicate)
	}
	if len(conds) == 1 {
		return conds[0], nil
	}
	return allCond{conds: conds}, nil
}

func parseOp(name string, operand doc.Element) (condition, error) {
	switch name {
	case opEq:
		return eqCond{operand: operand}, nil
	case opNe:
		return notCond{inner: eqCond{operand: operand}}, nil
	case opGt, opGte, opLt, opLte:
		if operand.Type() == doc.ObjectType || operand.Type() == doc.ArrayType {
			return nil, fmt.Errorf("%w: %s needs a scalar operand, got %s", ErrBadPredicate, name, operand.Type())
		}
		return cmpCond{op: name, operand: operand}, nil
	case opIn, opNin:
		if operand.Type() != doc.ArrayType {
			return nil, fmt.Errorf("%w: %s needs an array operand, got %s", ErrBadPredicate, name, operand.Type())
		}
		var operands []doc.Element
		for c := operand.LeftChild(); c.Ok(); c = c.RightSibling() {
			operands = append(operands, c)
		}
		return inCond{operands: operands, neg: name == opNin}, nil
	case opExists:
		if operand.Type() != doc.BoolType {
			return nil, fmt.Errorf("%w: %s needs a bool operand, got %s", ErrBadPredicate, name, operand.Type())
		}
		return existsCond{want: operand.BoolValue()}, nil
	case opNot:
		if operand.Type() != doc.ObjectType {
			return nil, fmt.Errorf("%w: %s needs an operator object, got %s", ErrBadPredicate, name, operand.Type())
		}
		inner, err := parseOps(operand)
		if err != nil {
			return nil, err
		}
		return notCond{inner: inner}, nil
	case opExpr:
		return parseExpr(operand)
	}
	return nil, fmt.Errorf("%w: unknown operator %q", ErrBadPredicate, name)
}

// parseLogical parses $and / $or over an array of sub-specifications.
func parseLogical(name string, operand doc.Element) (condition, error) {
	if operand.Type() != doc.ArrayType || !operand.HasChildren() {
		return nil, fmt.Errorf("%w: %s needs a non-empty array operand", ErrBadPredicate, name)
	}
	var subs []*Matcher
	for c := operand.LeftChild(); c.Ok(); c = c.RightSibling() {
		sub, err := Parse(c)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return logicalCond{or: name == opOr, subs: subs}, nil
}

type eqCond struct {
	operand doc.Element
}

func (c eqCond) matches(el doc.Element, exists bool) (bool, error) {
	if !exists {
		// An absent field equals an explicit null operand.
		return c.operand.Type() == doc.NullType, nil
	}
	return doc.Compare(el, c.operand, false) == 0, nil
}

type cmpCond struct {
	op      string
	operand doc.Element
}

func (c cmpCond) matches(el doc.Element, exists bool) (bool, error) {
	if !exists {
		return false, nil
	}
	// Order comparisons only apply within one type class.
	if el.Type() != c.operand.Type() {
		return false, nil
	}
	v := doc.Compare(el, c.operand, false)
	switch c.op {
	case opGt:
		return v > 0, nil
	case opGte:
		return v >= 0, nil
	case opLt:
		return v < 0, nil
	case opLte:
		return v <= 0, nil
	}
	return false, fmt.Errorf("%w: bad comparison op %q", ErrBadPredicate, c.op)
}

type inCond struct {
	operands []doc.Element
	neg      bool
}

func (c inCond) matches(el doc.Element, exists bool) (bool, error) {
	if !exists {
		return c.neg, nil
	}
	for _, operand := range c.operands {
		if doc.Compare(el, operand, false) == 0 {
			return !c.neg, nil
		}
	}
	return c.neg, nil
}

type existsCond struct {
	want bool
}

func (c existsCond) matches(_ doc.Element, exists bool) (bool, error) {
	return exists == c.want, nil
}

type notCond struct {
	inner condition
}

func (c notCond) matches(el doc.Element, exists bool) (bool, error) {
	ok, err := c.inner.matches(el, exists)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type allCond struct {
	conds []condition
}

func (c allCond) matches(el doc.Element, exists bool) (bool, error) {
	for _, cond := range c.conds {
		ok, err := cond.matches(el, exists)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

type logicalCond struct {
	or   bool
	subs []*Matcher
}

func (c logicalCond) matches(el doc.Element, exists bool) (bool, error) {
	if !exists {
		return false, nil
	}
	for _, sub := range c.subs {
		ok, err := sub.Matches(el)
		if err != nil {
			return false, err
		}
		if ok && c.or {
			return true, nil
		}
		if !ok && !c.or {
			return false, nil
		}
	}
	return !c.or, nil
}
