package replay

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mudoc/mudoc/doc"
	"github.com/mudoc/mudoc/modifier"
)

func mustRoot(t *testing.T, in string) doc.Element {
	t.Helper()
	d, err := doc.ParseJSON([]byte(in))
	if err != nil {
		t.Fatalf("parse %q: %v", in, err)
	}
	return d.Root()
}

type setTest struct {
	in   string
	path string
	val  any
	res  string
}

var setTests = []setTest{
	{in: `{"a":1}`, path: "a", val: 2, res: `{"a":2}`},
	{in: `{"a":1}`, path: "b", val: 2, res: `{"a":1,"b":2}`},
	{in: `{"a":{"b":1}}`, path: "a.c", val: "x", res: `{"a":{"b":1,"c":"x"}}`},
	{in: `{"a":[1,2,1,3]}`, path: "a", val: []any{2, 3}, res: `{"a":[2,3]}`},
	{in: `{"a":[{"b":[2,3]}]}`, path: "a.0.b", val: []any{3}, res: `{"a":[{"b":[3]}]}`},
}

func TestSet(t *testing.T) {
	for _, tc := range setTests {
		got, err := Set([]byte(tc.in), tc.path, tc.val)
		if err != nil {
			t.Errorf("set %s at %s: %v", tc.in, tc.path, err)
			continue
		}
		if string(got) != tc.res {
			t.Errorf("set %s at %s = %s, want %s", tc.in, tc.path, got, tc.res)
		}
	}
}

type unsetTest struct {
	in   string
	path string
	res  string
}

var unsetTests = []unsetTest{
	{in: `{"a":1,"b":2}`, path: "a", res: `{"b":2}`},
	{in: `{"a":{"b":1,"c":2}}`, path: "a.b", res: `{"a":{"c":2}}`},
	// removing an absent path changes nothing
	{in: `{"b":2}`, path: "a", res: `{"b":2}`},
}

func TestUnset(t *testing.T) {
	for _, tc := range unsetTests {
		got, err := Unset([]byte(tc.in), tc.path)
		if err != nil {
			t.Errorf("unset %s at %s: %v", tc.in, tc.path, err)
			continue
		}
		if string(got) != tc.res {
			t.Errorf("unset %s at %s = %s, want %s", tc.in, tc.path, got, tc.res)
		}
	}
}

type entryTest struct {
	in    string
	entry string
	res   string
	err   error
}

var entryTests = []entryTest{
	{
		in:    `{"a":[1,2,1,3]}`,
		entry: `{"$set":{"a":[2,3]}}`,
		res:   `{"a":[2,3]}`,
	},
	{
		in:    `{"a":1,"b":2}`,
		entry: `{"$set":{"a":9},"$unset":{"b":1}}`,
		res:   `{"a":9}`,
	},
	{
		in:    `{"a":{"b":1}}`,
		entry: `{"$unset":{"a.b":1}}`,
		res:   `{"a":{}}`,
	},
	{
		in:    `{"a":1}`,
		entry: `{"$rename":{"a":"b"}}`,
		err:   ErrBadEntry,
	},
	{
		in:    `{"a":1}`,
		entry: `[1]`,
		err:   ErrBadEntry,
	},
}

func TestEntry(t *testing.T) {
	for _, tc := range entryTests {
		got, err := Entry([]byte(tc.in), mustRoot(t, tc.entry))
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Errorf("entry %s on %s: err = %v, want %v", tc.entry, tc.in, err, tc.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("entry %s on %s: %v", tc.entry, tc.in, err)
			continue
		}
		if string(got) != tc.res {
			t.Errorf("entry %s on %s = %s, want %s", tc.entry, tc.in, got, tc.res)
		}
	}
}

// TestPullLogRoundTrip checks that replaying a pull's log entry onto
// the pre-image produces exactly the document the pull produced.
func TestPullLogRoundTrip(t *testing.T) {
	pre := `{"a":[1,2,1,3]}`
	root := mustRoot(t, pre)
	spec := mustRoot(t, `{"a":1}`).LeftChild()

	m, err := modifier.New(modifier.PullOp)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Init(spec); err != nil {
		t.Fatal(err)
	}
	info := &modifier.ExecInfo{}
	if err := m.Prepare(root, "", info); err != nil {
		t.Fatal(err)
	}
	if err := m.Apply(); err != nil {
		t.Fatal(err)
	}
	lb := modifier.NewLogBuilder()
	if err := m.Log(lb); err != nil {
		t.Fatal(err)
	}

	replayed, err := Entry([]byte(pre), lb.Root())
	if err != nil {
		t.Fatal(err)
	}
	if string(replayed) != root.String() {
		t.Errorf("replayed = %s, applied = %s", replayed, root)
	}
}

func TestMergePatch(t *testing.T) {
	entry := mustRoot(t, `{"$set":{"a.b":2},"$unset":{"c":1}}`)
	patch, err := MergePatch(entry)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"a":{"b":2},"c":null}`
	if string(patch) != want {
		t.Errorf("patch = %s, want %s", patch, want)
	}

	got, err := ApplyMergePatch([]byte(`{"a":{"b":1},"c":5,"d":4}`), patch)
	if err != nil {
		t.Fatal(err)
	}
	var gotV, wantV map[string]any
	if err := json.Unmarshal(got, &gotV); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"a":{"b":2},"d":4}`), &wantV); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(wantV, gotV); d != "" {
		t.Errorf("merge patch result (-want +got):\n%s", d)
	}
}

func TestMergePatchConflict(t *testing.T) {
	entry := mustRoot(t, `{"$set":{"a":1,"a.b":2}}`)
	if _, err := MergePatch(entry); !errors.Is(err, ErrBadEntry) {
		t.Errorf("err = %v, want ErrBadEntry", err)
	}
}
