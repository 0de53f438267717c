package fieldpath

import (
	"fmt"
	"strconv"

	"github.com/mudoc/mudoc/debug"
	"github.com/mudoc/mudoc/doc"
)

// FindLongestPrefix descends from root matching path segments against
// children: field names under objects, numeric indices under arrays.
// It returns the index of the deepest matched segment and the element
// found there. ErrNotFound means no prefix of the path exists, which
// callers treat as a plain outcome; ErrPathMismatch means the document
// shape conflicts with the path (descending through a scalar, or a
// non-numeric segment under an array) and is fatal.
func FindLongestPrefix(p *Path, root doc.Element) (int, doc.Element, error) {
	if debug.Path() {
		debug.Logf("resolving %s\n", p.Dotted())
	}
	idxFound := -1
	elem := root.Doc().End()
	cur := root
	for i := 0; i < p.NumParts(); i++ {
		part := p.Part(i)
		var child doc.Element
		switch cur.Type() {
		case doc.ObjectType:
			child = cur.FindFirstChildNamed(part)
		case doc.ArrayType:
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 {
				return idxFound, elem, fmt.Errorf(
					"%w: %q is not a valid array index in %s", ErrPathMismatch, part, p.Dotted())
			}
			child = cur.ChildAt(n)
		default:
			return idxFound, elem, fmt.Errorf(
				"%w: cannot use the part %q of %s to traverse a %s value",
				ErrPathMismatch, part, p.Dotted(), cur.Type())
		}
		if !child.Ok() {
			break
		}
		idxFound = i
		elem = child
		cur = child
	}
	if idxFound < 0 {
		return idxFound, elem, fmt.Errorf("%w: %s", ErrNotFound, p.Dotted())
	}
	return idxFound, elem, nil
}

// CreatePathAt materializes the path suffix starting at segment idx
// under elem, creating objects for name segments and padding arrays
// with nulls for index segments, then attaches newElem at the leaf.
// newElem must already carry the final segment as its field name when
// the leaf parent is an object.
func CreatePathAt(p *Path, idx int, elem, newElem doc.Element) error {
	cur := elem
	for i := idx; i < p.NumParts()-1; i++ {
		child, err := makePart(cur, p.Part(i), p, func(d *doc.Document) doc.Element {
			return d.MakeElementObject(p.Part(i))
		})
		if err != nil {
			return err
		}
		cur = child
	}
	_, err := makePart(cur, p.Part(p.NumParts()-1), p, func(*doc.Document) doc.Element {
		return newElem
	})
	return err
}

// makePart attaches one child produced by mk under cur, padding arrays
// with nulls up to a numeric segment.
func makePart(cur doc.Element, part string, p *Path, mk func(*doc.Document) doc.Element) (doc.Element, error) {
	switch cur.Type() {
	case doc.ObjectType:
		child := mk(cur.Doc())
		if err := cur.PushBack(child); err != nil {
			return cur.Doc().End(), err
		}
		return child, nil
	case doc.ArrayType:
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return cur.Doc().End(), fmt.Errorf(
				"%w: %q is not a valid array index in %s", ErrPathMismatch, part, p.Dotted())
		}
		for cur.ChildCount() < n {
			if err := cur.PushBack(cur.Doc().MakeElementNull("")); err != nil {
				return cur.Doc().End(), err
			}
		}
		child := mk(cur.Doc())
		if err := cur.PushBack(child); err != nil {
			return cur.Doc().End(), err
		}
		return child, nil
	}
	return cur.Doc().End(), fmt.Errorf(
		"%w: cannot create the part %q of %s under a %s value",
		ErrPathMismatch, part, p.Dotted(), cur.Type())
}
