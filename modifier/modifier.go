// Package modifier implements structured partial-update operators over
// document trees. Every operator follows the same four-phase protocol:
// Init validates the parsed spec once, Prepare resolves the target path
// against one document and computes a plan, Apply mutates the tree, and
// Log emits a minimal equivalent entry for replay elsewhere.
//
// Init runs exactly once before any Prepare; each Prepare must precede
// exactly one Apply+Log pair; Apply must never run when Prepare
// reported a no-op. Protocol misuse is a programming error and panics.
package modifier

import (
	"errors"
	"fmt"

	"github.com/mudoc/mudoc/doc"
	"github.com/mudoc/mudoc/fieldpath"
)

var (
	ErrMissingMatchedField = errors.New("matched field not provided")
	ErrTypeMismatch        = errors.New("type mismatch")

	// ErrInternal covers node construction or copy failures during
	// apply/log, which cannot occur after a successful prepare on a
	// well-formed document.
	ErrInternal = errors.New("internal error")
)

// ExecInfo is the modifier's output channel to the update driver: the
// field path the modifier claims interest in, for cross-modifier
// conflict detection, and whether the prepared update is a no-op.
type ExecInfo struct {
	FieldRef *fieldpath.Path
	NoOp     bool
}

// Modifier is one update operator instance. A Modifier holds only a
// non-owning working reference to the target document between Prepare
// and Apply/Log; the driver owns the document and sequences phases.
type Modifier interface {
	// Init parses and validates the operator spec: spec's field name
	// is the dotted target path, its value the operand.
	Init(spec doc.Element) error

	// Prepare resolves the target path against root, binding a
	// positional placeholder from matchedField when the path carries
	// one, and records the planned edit. It always reports the target
	// path through info.
	Prepare(root doc.Element, matchedField string, info *ExecInfo) error

	// Apply performs the planned mutation. It must not be called when
	// Prepare reported a no-op.
	Apply() error

	// Log appends a minimal equivalent operation to lb.
	Log(lb *LogBuilder) error
}

// Operator names accepted by New.
const (
	PullOp  = "$pull"
	SetOp   = "$set"
	PushOp  = "$push"
	UnsetOp = "$unset"
)

// New returns an uninitialized modifier for the named operator.
func New(op string) (Modifier, error) {
	switch op {
	case PullOp:
		return &Pull{}, nil
	case SetOp:
		return &Set{}, nil
	case PushOp:
		return &Push{}, nil
	case UnsetOp:
		return &Unset{}, nil
	}
	return nil, fmt.Errorf("unknown update operator %q", op)
}
