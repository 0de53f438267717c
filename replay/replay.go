// Package replay applies logged update entries to raw JSON documents,
// reproducing on a remote copy the value the original apply produced.
// Entries have the shape {$set: {<path>: <value>}, $unset: {<path>: 1}}
// with dotted paths.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/tidwall/sjson"

	"github.com/mudoc/mudoc/doc"
)

var ErrBadEntry = errors.New("bad log entry")

// Set assigns value at a dotted path in data.
func Set(data []byte, path string, value any) ([]byte, error) {
	return sjson.SetBytes(data, path, value)
}

// Unset removes the dotted path from data. Removing an absent path is
// a no-op, keeping unset markers idempotent.
func Unset(data []byte, path string) ([]byte, error) {
	return sjson.DeleteBytes(data, path)
}

// Entry applies a whole log entry to data, sections in entry order.
func Entry(data []byte, entry doc.Element) ([]byte, error) {
	if !entry.Ok() || entry.Type() != doc.ObjectType {
		return nil, fmt.Errorf("%w: entry must be an object", ErrBadEntry)
	}
	var err error
	for section := entry.LeftChild(); section.Ok(); section = section.RightSibling() {
		switch section.FieldName() {
		case "$set":
			for c := section.LeftChild(); c.Ok(); c = c.RightSibling() {
				data, err = Set(data, c.FieldName(), c.Interface())
				if err != nil {
					return nil, fmt.Errorf("%w: set %s: %v", ErrBadEntry, c.FieldName(), err)
				}
			}
		case "$unset":
			for c := section.LeftChild(); c.Ok(); c = c.RightSibling() {
				data, err = Unset(data, c.FieldName())
				if err != nil {
					return nil, fmt.Errorf("%w: unset %s: %v", ErrBadEntry, c.FieldName(), err)
				}
			}
		default:
			return nil, fmt.Errorf("%w: unknown section %q", ErrBadEntry, section.FieldName())
		}
	}
	return data, nil
}

// MergePatch renders a log entry as an RFC 7386 merge patch document.
// Dotted paths become nested objects, so this encoding only suits
// paths that address object fields; entries targeting array indices
// must go through Entry instead.
func MergePatch(entry doc.Element) ([]byte, error) {
	if !entry.Ok() || entry.Type() != doc.ObjectType {
		return nil, fmt.Errorf("%w: entry must be an object", ErrBadEntry)
	}
	res := map[string]any{}
	for section := entry.LeftChild(); section.Ok(); section = section.RightSibling() {
		unset := false
		switch section.FieldName() {
		case "$set":
		case "$unset":
			unset = true
		default:
			return nil, fmt.Errorf("%w: unknown section %q", ErrBadEntry, section.FieldName())
		}
		for c := section.LeftChild(); c.Ok(); c = c.RightSibling() {
			var v any
			if !unset {
				v = c.Interface()
			}
			if err := nest(res, c.FieldName(), v); err != nil {
				return nil, err
			}
		}
	}
	return json.Marshal(res)
}

// ApplyMergePatch applies an RFC 7386 merge patch to data.
func ApplyMergePatch(data, patch []byte) ([]byte, error) {
	return jsonpatch.MergePatch(data, patch)
}

func nest(m map[string]any, path string, v any) error {
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part]
		if !ok {
			nm := map[string]any{}
			m[part] = nm
			m = nm
			continue
		}
		nm, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: conflicting paths at %q in %s", ErrBadEntry, part, path)
		}
		m = nm
	}
	m[parts[len(parts)-1]] = v
	return nil
}
