package doc

import (
	"cmp"
	"strings"
)

// Compare returns an integer comparing the values of two elements.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b. Types are
// ordered canonically: Null < Bool < Number < String < Array < Object.
// Numbers compare numerically across integer and float storage. Field
// names participate only when considerFieldName is set.
func Compare(a, b Element, considerFieldName bool) int {
	if !a.Ok() && !b.Ok() {
		return 0
	}
	if !a.Ok() {
		return -1
	}
	if !b.Ok() {
		return 1
	}
	if considerFieldName {
		if c := strings.Compare(a.FieldName(), b.FieldName()); c != 0 {
			return c
		}
	}

	rankA := rank(a.Type())
	rankB := rank(b.Type())
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Type() {
	case NumberType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.StringValue(), b.StringValue())
	case BoolType:
		if a.BoolValue() == b.BoolValue() {
			return 0
		}
		if !a.BoolValue() {
			return -1
		}
		return 1
	case ArrayType:
		return compareChildren(a, b, false)
	case ObjectType:
		return compareChildren(a, b, true)
	case NullType:
		return 0
	}
	return 0
}

// rank returns the sorting rank of a type.
func rank(t Type) int {
	switch t {
	case NullType:
		return 0
	case BoolType:
		return 1
	case NumberType:
		return 2
	case StringType:
		return 3
	case ArrayType:
		return 4
	case ObjectType:
		return 5
	}
	return 100
}

func compareNumbers(a, b Element) int {
	ai, aInt := a.Int64Value()
	bi, bInt := b.Int64Value()
	if aInt && bInt {
		return cmp.Compare(ai, bi)
	}
	return cmp.Compare(a.Number(), b.Number())
}

func compareChildren(a, b Element, withFields bool) int {
	ca, cb := a.LeftChild(), b.LeftChild()
	for ca.Ok() && cb.Ok() {
		if c := Compare(ca, cb, withFields); c != 0 {
			return c
		}
		ca = ca.RightSibling()
		cb = cb.RightSibling()
	}
	if ca.Ok() {
		return 1
	}
	if cb.Ok() {
		return -1
	}
	return 0
}
