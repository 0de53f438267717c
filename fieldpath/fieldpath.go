// Package fieldpath provides dotted field paths addressing nested
// locations in a document tree, including the single positional
// placeholder segment bound at prepare time.
package fieldpath

import (
	"errors"
	"fmt"
	"strings"
)

// Positional is the placeholder segment substituted with a concrete
// array index before resolution.
const Positional = "$"

// Separator splits a raw path into segments.
const Separator = "."

// identityField names the document identity field, which updates may
// not target.
const identityField = "_id"

var (
	ErrEmptyPath         = errors.New("empty field path")
	ErrEmptySegment      = errors.New("empty field path segment")
	ErrNotUpdatable      = errors.New("field is not updatable")
	ErrTooManyPositional = errors.New("too many positional($) elements found")

	// ErrNotFound reports that no prefix of a path exists in the
	// document. It is an expected outcome, not a fault.
	ErrNotFound = errors.New("path not found")

	// ErrPathMismatch reports a structural conflict while resolving,
	// such as descending through a scalar or indexing an array with a
	// non-numeric segment.
	ErrPathMismatch = errors.New("path mismatch")
)

// Path is an ordered sequence of field-name or array-index segments.
// It is immutable after Parse except for binding the positional
// placeholder through SetPart.
type Path struct {
	parts  []string
	posIdx int
}

// Parse splits raw on the segment separator. Every segment must be
// non-empty, the path may not target the identity field, and at most
// one segment may be the positional placeholder.
func Parse(raw string) (*Path, error) {
	if raw == "" {
		return nil, ErrEmptyPath
	}
	parts := strings.Split(raw, Separator)
	p := &Path{parts: parts, posIdx: -1}
	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptySegment, raw)
		}
		if part != Positional {
			continue
		}
		if p.posIdx >= 0 {
			return nil, ErrTooManyPositional
		}
		p.posIdx = i
	}
	if parts[0] == identityField {
		return nil, fmt.Errorf("%w: %s", ErrNotUpdatable, identityField)
	}
	return p, nil
}

func (p *Path) NumParts() int {
	return len(p.parts)
}

func (p *Path) Part(i int) string {
	return p.parts[i]
}

// Positional returns the index of the placeholder segment, if any.
func (p *Path) Positional() (int, bool) {
	if p.posIdx < 0 {
		return 0, false
	}
	return p.posIdx, true
}

// SetPart binds the positional placeholder. It only accepts the
// placeholder's own index; each prepare cycle rebinds it.
func (p *Path) SetPart(i int, part string) error {
	if p.posIdx < 0 || i != p.posIdx {
		return fmt.Errorf("%w: segment %d is not positional", ErrPathMismatch, i)
	}
	p.parts[i] = part
	return nil
}

// Dotted returns the path in dotted form with any bound placeholder
// substituted.
func (p *Path) Dotted() string {
	return strings.Join(p.parts, Separator)
}

func (p *Path) String() string {
	return p.Dotted()
}
