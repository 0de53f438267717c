package modifier

import (
	"errors"
	"testing"

	"github.com/mudoc/mudoc/doc"
)

// mustSpec parses a one-field object such as {"a.b": 1} and returns its
// single field element: the field name is the target path, the value
// the operand.
func mustSpec(t *testing.T, in string) doc.Element {
	t.Helper()
	d, err := doc.ParseJSON([]byte(in))
	if err != nil {
		t.Fatalf("parse spec %q: %v", in, err)
	}
	return d.Root().LeftChild()
}

func mustRoot(t *testing.T, in string) doc.Element {
	t.Helper()
	d, err := doc.ParseJSON([]byte(in))
	if err != nil {
		t.Fatalf("parse doc %q: %v", in, err)
	}
	return d.Root()
}

type modTest struct {
	op      string
	doc     string
	spec    string
	matched string
	noOp    bool
	res     string
	log     string
	err     error
}

// runModTest drives the full init/prepare/apply/log cycle and checks
// the resulting document and log entry against the expected JSON.
func runModTest(t *testing.T, tc modTest) {
	t.Helper()
	m, err := New(tc.op)
	if err != nil {
		t.Errorf("New(%s): %v", tc.op, err)
		return
	}
	if err := m.Init(mustSpec(t, tc.spec)); err != nil {
		t.Errorf("%s %s: init: %v", tc.op, tc.spec, err)
		return
	}
	root := mustRoot(t, tc.doc)
	before := root.String()
	info := &ExecInfo{}
	err = m.Prepare(root, tc.matched, info)
	if tc.err != nil {
		if !errors.Is(err, tc.err) {
			t.Errorf("%s %s on %s: prepare err = %v, want %v", tc.op, tc.spec, tc.doc, err, tc.err)
		}
		if got := root.String(); got != before {
			t.Errorf("%s %s on %s: failed prepare mutated doc to %s", tc.op, tc.spec, tc.doc, got)
		}
		return
	}
	if err != nil {
		t.Errorf("%s %s on %s: prepare: %v", tc.op, tc.spec, tc.doc, err)
		return
	}
	if info.FieldRef == nil {
		t.Errorf("%s %s on %s: prepare did not report a field ref", tc.op, tc.spec, tc.doc)
		return
	}
	if info.NoOp != tc.noOp {
		t.Errorf("%s %s on %s: noOp = %v, want %v", tc.op, tc.spec, tc.doc, info.NoOp, tc.noOp)
		return
	}
	if !info.NoOp {
		if err := m.Apply(); err != nil {
			t.Errorf("%s %s on %s: apply: %v", tc.op, tc.spec, tc.doc, err)
			return
		}
	}
	if got := root.String(); got != tc.res {
		t.Errorf("%s %s on %s: doc = %s, want %s", tc.op, tc.spec, tc.doc, got, tc.res)
	}
	lb := NewLogBuilder()
	if err := m.Log(lb); err != nil {
		t.Errorf("%s %s on %s: log: %v", tc.op, tc.spec, tc.doc, err)
		return
	}
	if got := lb.Root().String(); got != tc.log {
		t.Errorf("%s %s on %s: log = %s, want %s", tc.op, tc.spec, tc.doc, got, tc.log)
	}
}

var pullTests = []modTest{
	{
		op:   PullOp,
		doc:  `{"a":[1,2,1,3]}`,
		spec: `{"a":1}`,
		res:  `{"a":[2,3]}`,
		log:  `{"$set":{"a":[2,3]}}`,
	},
	{
		// numeric equality crosses integer/float representation
		op:   PullOp,
		doc:  `{"a":[1.0,2]}`,
		spec: `{"a":1}`,
		res:  `{"a":[2]}`,
		log:  `{"$set":{"a":[2]}}`,
	},
	{
		// plain-object operand matches object entries structurally
		op:   PullOp,
		doc:  `{"a":[{"x":1},{"x":2},{"x":1}]}`,
		spec: `{"a":{"x":1}}`,
		res:  `{"a":[{"x":2}]}`,
		log:  `{"$set":{"a":[{"x":2}]}}`,
	},
	{
		// operator-object operand applies the predicate to each entry
		op:   PullOp,
		doc:  `{"a":[1,6,3,9]}`,
		spec: `{"a":{"$gt":5}}`,
		res:  `{"a":[1,3]}`,
		log:  `{"$set":{"a":[1,3]}}`,
	},
	{
		op:   PullOp,
		doc:  `{"a":{"b":[1,2,2]}}`,
		spec: `{"a.b":2}`,
		res:  `{"a":{"b":[1]}}`,
		log:  `{"$set":{"a.b":[1]}}`,
	},
	{
		op:      PullOp,
		doc:     `{"a":[{"b":[1,2]},{"b":[2]},{"b":[2,3]}]}`,
		spec:    `{"a.$.b":2}`,
		matched: "2",
		res:     `{"a":[{"b":[1,2]},{"b":[2]},{"b":[3]}]}`,
		log:     `{"$set":{"a.2.b":[3]}}`,
	},
	{
		// nothing matched: no-op, but the array is logged as-is
		op:   PullOp,
		doc:  `{"a":[2,3]}`,
		spec: `{"a":1}`,
		noOp: true,
		res:  `{"a":[2,3]}`,
		log:  `{"$set":{"a":[2,3]}}`,
	},
	{
		op:   PullOp,
		doc:  `{"a":[]}`,
		spec: `{"a":1}`,
		noOp: true,
		res:  `{"a":[]}`,
		log:  `{"$set":{"a":[]}}`,
	},
	{
		// absent target: no-op, logged as an unset marker
		op:   PullOp,
		doc:  `{"b":1}`,
		spec: `{"a":1}`,
		noOp: true,
		res:  `{"b":1}`,
		log:  `{"$unset":{"a":1}}`,
	},
	{
		op:   PullOp,
		doc:  `{"a":{}}`,
		spec: `{"a.b":1}`,
		noOp: true,
		res:  `{"a":{}}`,
		log:  `{"$unset":{"a.b":1}}`,
	},
	{
		op:   PullOp,
		doc:  `{"a":"foo"}`,
		spec: `{"a":1}`,
		err:  ErrTypeMismatch,
	},
	{
		op:   PullOp,
		doc:  `{"a":[1]}`,
		spec: `{"a.$":1}`,
		err:  ErrMissingMatchedField,
	},
}

func TestPull(t *testing.T) {
	for _, tc := range pullTests {
		runModTest(t, tc)
	}
}

var setTests = []modTest{
	{
		op:   SetOp,
		doc:  `{"a":1}`,
		spec: `{"a":2}`,
		res:  `{"a":2}`,
		log:  `{"$set":{"a":2}}`,
	},
	{
		// assigning an equal value is a no-op, still logged
		op:   SetOp,
		doc:  `{"a":1}`,
		spec: `{"a":1}`,
		noOp: true,
		res:  `{"a":1}`,
		log:  `{"$set":{"a":1}}`,
	},
	{
		op:   SetOp,
		doc:  `{}`,
		spec: `{"a.b":5}`,
		res:  `{"a":{"b":5}}`,
		log:  `{"$set":{"a.b":5}}`,
	},
	{
		op:   SetOp,
		doc:  `{"a":[1]}`,
		spec: `{"a.3":7}`,
		res:  `{"a":[1,null,null,7]}`,
		log:  `{"$set":{"a.3":7}}`,
	},
	{
		op:   SetOp,
		doc:  `{"a":{"b":1}}`,
		spec: `{"a.c":{"d":[1,2]}}`,
		res:  `{"a":{"b":1,"c":{"d":[1,2]}}}`,
		log:  `{"$set":{"a.c":{"d":[1,2]}}}`,
	},
}

func TestSet(t *testing.T) {
	for _, tc := range setTests {
		runModTest(t, tc)
	}
}

var pushTests = []modTest{
	{
		op:   PushOp,
		doc:  `{"a":[1]}`,
		spec: `{"a":2}`,
		res:  `{"a":[1,2]}`,
		log:  `{"$set":{"a":[1,2]}}`,
	},
	{
		op:   PushOp,
		doc:  `{}`,
		spec: `{"a":1}`,
		res:  `{"a":[1]}`,
		log:  `{"$set":{"a":[1]}}`,
	},
	{
		op:   PushOp,
		doc:  `{"a":{"b":[]}}`,
		spec: `{"a.b":{"x":1}}`,
		res:  `{"a":{"b":[{"x":1}]}}`,
		log:  `{"$set":{"a.b":[{"x":1}]}}`,
	},
	{
		op:   PushOp,
		doc:  `{"a":1}`,
		spec: `{"a":2}`,
		err:  ErrTypeMismatch,
	},
}

func TestPush(t *testing.T) {
	for _, tc := range pushTests {
		runModTest(t, tc)
	}
}

var unsetTests = []modTest{
	{
		op:   UnsetOp,
		doc:  `{"a":1,"b":2}`,
		spec: `{"a":1}`,
		res:  `{"b":2}`,
		log:  `{"$unset":{"a":1}}`,
	},
	{
		op:   UnsetOp,
		doc:  `{"a":{"b":1,"c":2}}`,
		spec: `{"a.b":1}`,
		res:  `{"a":{"c":2}}`,
		log:  `{"$unset":{"a.b":1}}`,
	},
	{
		// absent target: no-op, same idempotent marker
		op:   UnsetOp,
		doc:  `{"b":1}`,
		spec: `{"a":1}`,
		noOp: true,
		res:  `{"b":1}`,
		log:  `{"$unset":{"a":1}}`,
	},
}

func TestUnset(t *testing.T) {
	for _, tc := range unsetTests {
		runModTest(t, tc)
	}
}

func TestNewUnknownOp(t *testing.T) {
	if _, err := New("$rename"); err == nil {
		t.Error("New($rename): expected error")
	}
}

func TestApplyAfterNoOpPanics(t *testing.T) {
	m, err := New(PullOp)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Init(mustSpec(t, `{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	info := &ExecInfo{}
	if err := m.Prepare(mustRoot(t, `{"b":1}`), "", info); err != nil {
		t.Fatal(err)
	}
	if !info.NoOp {
		t.Fatal("expected a no-op prepare")
	}
	defer func() {
		if recover() == nil {
			t.Error("apply after no-op prepare did not panic")
		}
	}()
	_ = m.Apply()
}

func TestLogBuilderSections(t *testing.T) {
	lb := NewLogBuilder()
	el, err := lb.Doc().MakeElementWithNewFieldName("a", mustRoot(t, `{"a":1}`).LeftChild())
	if err != nil {
		t.Fatal(err)
	}
	if err := lb.AddToSets(el); err != nil {
		t.Fatal(err)
	}
	if err := lb.AddToUnsets("b.c"); err != nil {
		t.Fatal(err)
	}
	want := `{"$set":{"a":1},"$unset":{"b.c":1}}`
	if got := lb.Root().String(); got != want {
		t.Errorf("log = %s, want %s", got, want)
	}
}
