package matcher

import (
	"errors"
	"testing"

	"github.com/mudoc/mudoc/doc"
)

func mustDoc(t *testing.T, in string) doc.Element {
	t.Helper()
	d, err := doc.ParseJSON([]byte(in))
	if err != nil {
		t.Fatalf("parse %q: %v", in, err)
	}
	return d.Root()
}

type matchTest struct {
	in    string
	match string
	res   bool
}

var matchTests = []matchTest{
	{
		in:    `{"x":1}`,
		match: `{"x":1}`,
		res:   true,
	},
	{
		in:    `{"x":2}`,
		match: `{"x":1}`,
		res:   false,
	},
	{
		in:    `{"x":1,"y":2}`,
		match: `{"x":1}`,
		res:   true,
	},
	{
		in:    `{"x":1}`,
		match: `{"x":1,"y":2}`,
		res:   false,
	},
	{
		in:    `{"x":[1,2]}`,
		match: `{"x":[1,2]}`,
		res:   true,
	},
	{
		in:    `{"x":[1,2]}`,
		match: `{"x":[2,1]}`,
		res:   false,
	},
	{
		in:    `{"x":6}`,
		match: `{"x":{"$gt":5}}`,
		res:   true,
	},
	{
		in:    `{"x":5}`,
		match: `{"x":{"$gt":5}}`,
		res:   false,
	},
	{
		in:    `{"x":5}`,
		match: `{"x":{"$gte":5}}`,
		res:   true,
	},
	{
		in:    `{"x":4}`,
		match: `{"x":{"$lt":5}}`,
		res:   true,
	},
	{
		in:    `{"x":5}`,
		match: `{"x":{"$lte":5,"$gte":5}}`,
		res:   true,
	},
	{
		in:    `{"x":"6"}`,
		match: `{"x":{"$gt":5}}`,
		res:   false,
	},
	{
		in:    `{"x":3}`,
		match: `{"x":{"$ne":4}}`,
		res:   true,
	},
	{
		in:    `{"x":3}`,
		match: `{"x":{"$in":[1,2,3]}}`,
		res:   true,
	},
	{
		in:    `{"x":4}`,
		match: `{"x":{"$in":[1,2,3]}}`,
		res:   false,
	},
	{
		in:    `{"x":4}`,
		match: `{"x":{"$nin":[1,2,3]}}`,
		res:   true,
	},
	{
		in:    `{"x":1}`,
		match: `{"x":{"$exists":true}}`,
		res:   true,
	},
	{
		in:    `{"y":1}`,
		match: `{"x":{"$exists":true}}`,
		res:   false,
	},
	{
		in:    `{"y":1}`,
		match: `{"x":{"$exists":false}}`,
		res:   true,
	},
	{
		in:    `{"x":6}`,
		match: `{"x":{"$not":{"$gt":5}}}`,
		res:   false,
	},
	{
		in:    `{"x":1,"y":2}`,
		match: `{"$and":[{"x":1},{"y":2}]}`,
		res:   true,
	},
	{
		in:    `{"x":1,"y":3}`,
		match: `{"$and":[{"x":1},{"y":2}]}`,
		res:   false,
	},
	{
		in:    `{"x":1,"y":3}`,
		match: `{"$or":[{"x":1},{"y":2}]}`,
		res:   true,
	},
	{
		in:    `{"x":0,"y":3}`,
		match: `{"$or":[{"x":1},{"y":2}]}`,
		res:   false,
	},
	{
		in:    `{"a":{"b":2}}`,
		match: `{"a.b":2}`,
		res:   true,
	},
	{
		in:    `{"a":{"b":2}}`,
		match: `{"a.b":{"$gt":1}}`,
		res:   true,
	},
	{
		// first key is not an operator, so the object is a literal
		in:    `{"x":{"gt":5}}`,
		match: `{"x":{"gt":5}}`,
		res:   true,
	},
	{
		in:    `{"x":null}`,
		match: `{"x":null}`,
		res:   true,
	},
	{
		in:    `{"y":1}`,
		match: `{"x":null}`,
		res:   true,
	},
	{
		in:    `{"x":6,"y":2}`,
		match: `{"$expr":"x > y * 2"}`,
		res:   true,
	},
	{
		in:    `{"x":3,"y":2}`,
		match: `{"$expr":"x > y * 2"}`,
		res:   false,
	},
}

func TestMatchesObject(t *testing.T) {
	for _, tc := range matchTests {
		m, err := Parse(mustDoc(t, tc.match))
		if err != nil {
			t.Errorf("parse %s: %v", tc.match, err)
			continue
		}
		got, err := m.MatchesObject(mustDoc(t, tc.in))
		if err != nil {
			t.Errorf("match %s against %s: %v", tc.in, tc.match, err)
			continue
		}
		if got != tc.res {
			t.Errorf("match %s against %s = %v, want %v", tc.in, tc.match, got, tc.res)
		}
	}
}

type valueMatchTest struct {
	in    string
	match string
	res   bool
}

var valueMatchTests = []valueMatchTest{
	{in: `6`, match: `{"$gt":5}`, res: true},
	{in: `3`, match: `{"$gt":5}`, res: false},
	{in: `"b"`, match: `{"$in":["a","b"]}`, res: true},
	{in: `1`, match: `{"$nin":[2,3]}`, res: true},
	{in: `9`, match: `{"$gt":5,"$lt":10}`, res: true},
	{in: `12`, match: `{"$gt":5,"$lt":10}`, res: false},
	{in: `7`, match: `{"$expr":"value == 7"}`, res: true},
}

func TestMatchesValue(t *testing.T) {
	for _, tc := range valueMatchTests {
		m, err := ParseValue(mustDoc(t, tc.match))
		if err != nil {
			t.Errorf("parse %s: %v", tc.match, err)
			continue
		}
		got, err := m.Matches(mustDoc(t, tc.in))
		if err != nil {
			t.Errorf("match %s against %s: %v", tc.in, tc.match, err)
			continue
		}
		if got != tc.res {
			t.Errorf("match %s against %s = %v, want %v", tc.in, tc.match, got, tc.res)
		}
	}
}

type badPredicateTest struct {
	match string
}

var badPredicateTests = []badPredicateTest{
	// the $gt first key establishes an operator object, so $bogus
	// is an unknown operator rather than a literal field
	{match: `{"x":{"$gt":5,"$bogus":1}}`},
	{match: `{"$bogus":[]}`},
	{match: `{"$and":[]}`},
	{match: `{"$and":1}`},
	{match: `{"x":{"$in":1}}`},
	{match: `{"x":{"$exists":"yes"}}`},
	{match: `{"x":{"$not":5}}`},
	{match: `{"x":{"$gt":{"y":1}}}`},
	{match: `{"$expr":5}`},
	{match: `{"$expr":"x +"}`},
}

func TestParseErrors(t *testing.T) {
	for _, tc := range badPredicateTests {
		_, err := Parse(mustDoc(t, tc.match))
		if !errors.Is(err, ErrBadPredicate) {
			t.Errorf("parse %s: err = %v, want ErrBadPredicate", tc.match, err)
		}
	}
}

func TestIsOperator(t *testing.T) {
	for _, name := range []string{"$eq", "$ne", "$gt", "$gte", "$lt", "$lte", "$in", "$nin", "$exists", "$not", "$expr"} {
		if !IsOperator(name) {
			t.Errorf("IsOperator(%q) = false", name)
		}
	}
	for _, name := range []string{"x", "$", "gt", "$bogus", ""} {
		if IsOperator(name) {
			t.Errorf("IsOperator(%q) = true", name)
		}
	}
}
