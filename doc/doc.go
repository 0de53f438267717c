// Package doc provides a mutable, navigable tree representation of a
// structured document. Nodes live in an arena owned by the Document and
// are addressed through Element handles holding stable indices, so
// structural edits never invalidate handles to unrelated nodes.
package doc

import (
	"fmt"
)

const none int32 = -1

// node is one arena slot. Links are arena indices with none as the
// "no link" sentinel. A node parsed from input bytes keeps the raw
// source fragment; a constructed node has constructed set.
type node struct {
	typ   Type
	field string

	parent     int32
	firstChild int32
	lastChild  int32
	prevSib    int32
	nextSib    int32

	alive       bool
	constructed bool
	raw         string

	str string
	b   bool
	i64 *int64
	f64 *float64
}

// Document owns a tree of nodes. All Elements handed out by a Document
// remain bound to it; moving nodes between documents goes through value
// copies, never shared slots.
type Document struct {
	nodes []node
	root  int32
}

// NewDocument returns a document whose root is an empty object.
func NewDocument() *Document {
	d := &Document{}
	d.root = d.alloc(node{typ: ObjectType, constructed: true})
	return d
}

func (d *Document) alloc(n node) int32 {
	n.parent = none
	n.firstChild = none
	n.lastChild = none
	n.prevSib = none
	n.nextSib = none
	n.alive = true
	d.nodes = append(d.nodes, n)
	return int32(len(d.nodes) - 1)
}

func (d *Document) at(idx int32) *node {
	return &d.nodes[idx]
}

// Root returns the document's root element.
func (d *Document) Root() Element {
	return Element{doc: d, idx: d.root}
}

// End returns the canonical invalid element for this document.
func (d *Document) End() Element {
	return Element{doc: d, idx: none}
}

// Element is a non-owning handle to one node of a Document. The zero
// value and Document.End() are invalid; check Ok before navigating.
type Element struct {
	doc *Document
	idx int32
}

func (e Element) Ok() bool {
	return e.doc != nil && e.idx >= 0 && int(e.idx) < len(e.doc.nodes) && e.doc.at(e.idx).alive
}

func (e Element) Doc() *Document {
	return e.doc
}

func (e Element) Type() Type {
	return e.doc.at(e.idx).typ
}

// FieldName returns the element's name within its parent object. Array
// entries and the root have an empty field name.
func (e Element) FieldName() string {
	return e.doc.at(e.idx).field
}

func (e Element) Parent() Element {
	return Element{doc: e.doc, idx: e.doc.at(e.idx).parent}
}

func (e Element) LeftChild() Element {
	return Element{doc: e.doc, idx: e.doc.at(e.idx).firstChild}
}

func (e Element) RightChild() Element {
	return Element{doc: e.doc, idx: e.doc.at(e.idx).lastChild}
}

func (e Element) LeftSibling() Element {
	return Element{doc: e.doc, idx: e.doc.at(e.idx).prevSib}
}

func (e Element) RightSibling() Element {
	return Element{doc: e.doc, idx: e.doc.at(e.idx).nextSib}
}

func (e Element) HasChildren() bool {
	return e.doc.at(e.idx).firstChild != none
}

// ChildCount walks the sibling chain; it is O(n) in the number of
// children.
func (e Element) ChildCount() int {
	n := 0
	for c := e.LeftChild(); c.Ok(); c = c.RightSibling() {
		n++
	}
	return n
}

// FindFirstChildNamed returns the first child with the given field
// name, or an invalid element.
func (e Element) FindFirstChildNamed(field string) Element {
	for c := e.LeftChild(); c.Ok(); c = c.RightSibling() {
		if c.FieldName() == field {
			return c
		}
	}
	return e.doc.End()
}

// ChildAt returns the i'th child, or an invalid element when out of
// range.
func (e Element) ChildAt(i int) Element {
	c := e.LeftChild()
	for ; c.Ok() && i > 0; c = c.RightSibling() {
		i--
	}
	if i > 0 {
		return e.doc.End()
	}
	return c
}

// IsConstructed reports whether the element was built in memory rather
// than parsed from original input bytes.
func (e Element) IsConstructed() bool {
	return e.doc.at(e.idx).constructed
}

// Raw returns the original source fragment for in-place elements, and
// "" for constructed ones.
func (e Element) Raw() string {
	return e.doc.at(e.idx).raw
}

// HasValue reports whether the element carries a concrete, materialized
// value. Every live node in this model does; the method exists so
// callers can state the precondition they rely on.
func (e Element) HasValue() bool {
	return e.Ok()
}

func (e Element) StringValue() string {
	return e.doc.at(e.idx).str
}

func (e Element) BoolValue() bool {
	return e.doc.at(e.idx).b
}

func (e Element) Int64Value() (int64, bool) {
	n := e.doc.at(e.idx)
	if n.i64 == nil {
		return 0, false
	}
	return *n.i64, true
}

func (e Element) Float64Value() (float64, bool) {
	n := e.doc.at(e.idx)
	if n.f64 == nil {
		return 0, false
	}
	return *n.f64, true
}

// Number returns the numeric value as a float64 regardless of how it
// was stored. Only meaningful for NumberType elements.
func (e Element) Number() float64 {
	n := e.doc.at(e.idx)
	if n.i64 != nil {
		return float64(*n.i64)
	}
	if n.f64 != nil {
		return *n.f64
	}
	return 0
}

// String renders the element's value as compact JSON, for error
// messages and debug output.
func (e Element) String() string {
	if !e.Ok() {
		return "<invalid element>"
	}
	d, err := e.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<unencodable element: %v>", err)
	}
	return string(d)
}

// Remove detaches the element from its parent, relinking the sibling
// chain around it, and retires the node. Handles to other nodes,
// including later siblings, stay valid. O(1) apart from handle checks.
func (e Element) Remove() error {
	if !e.Ok() {
		return fmt.Errorf("%w: remove on invalid element", ErrConstruct)
	}
	n := e.doc.at(e.idx)
	if n.parent == none {
		return fmt.Errorf("%w: cannot remove the root element", ErrConstruct)
	}
	p := e.doc.at(n.parent)
	if n.prevSib != none {
		e.doc.at(n.prevSib).nextSib = n.nextSib
	} else {
		p.firstChild = n.nextSib
	}
	if n.nextSib != none {
		e.doc.at(n.nextSib).prevSib = n.prevSib
	} else {
		p.lastChild = n.prevSib
	}
	n.parent = none
	n.prevSib = none
	n.nextSib = none
	n.alive = false
	return nil
}

// PushBack appends child as the element's last child. The child must
// belong to the same document and must not already be attached.
func (e Element) PushBack(child Element) error {
	if !e.Ok() || !child.Ok() {
		return fmt.Errorf("%w: pushBack on invalid element", ErrConstruct)
	}
	if e.doc != child.doc {
		return fmt.Errorf("%w: pushBack across documents", ErrConstruct)
	}
	if e.Type() != ObjectType && e.Type() != ArrayType {
		return fmt.Errorf("%w: pushBack on %s element", ErrConstruct, e.Type())
	}
	cn := e.doc.at(child.idx)
	if cn.parent != none {
		return fmt.Errorf("%w: pushBack of an attached element", ErrConstruct)
	}
	n := e.doc.at(e.idx)
	cn.parent = e.idx
	cn.prevSib = n.lastChild
	cn.nextSib = none
	if n.lastChild != none {
		e.doc.at(n.lastChild).nextSib = child.idx
	} else {
		n.firstChild = child.idx
	}
	n.lastChild = child.idx
	return nil
}

// SetValue replaces the element's value with a deep copy of src's
// value, keeping the element's position and field name. src may belong
// to another document.
func (e Element) SetValue(src Element) error {
	if !e.Ok() || !src.Ok() {
		return fmt.Errorf("%w: setValue on invalid element", ErrConstruct)
	}
	// Drop current children before adopting the new payload.
	for c := e.LeftChild(); c.Ok(); {
		next := c.RightSibling()
		if err := c.Remove(); err != nil {
			return err
		}
		c = next
	}
	n := e.doc.at(e.idx)
	sn := src.doc.at(src.idx)
	n.typ = sn.typ
	n.str = sn.str
	n.b = sn.b
	n.i64 = copyInt(sn.i64)
	n.f64 = copyFloat(sn.f64)
	n.constructed = true
	n.raw = ""
	n.firstChild = none
	n.lastChild = none
	for c := src.LeftChild(); c.Ok(); c = c.RightSibling() {
		idx, err := e.doc.cloneFrom(c, c.FieldName())
		if err != nil {
			return err
		}
		if err := e.PushBack(Element{doc: e.doc, idx: idx}); err != nil {
			return err
		}
	}
	return nil
}

func copyInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	i := *v
	return &i
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// cloneFrom deep-copies src (possibly from another document) into this
// document's arena as a detached subtree named field.
func (d *Document) cloneFrom(src Element, field string) (int32, error) {
	if !src.Ok() {
		return none, fmt.Errorf("%w: copy of invalid element", ErrConstruct)
	}
	sn := src.doc.at(src.idx)
	idx := d.alloc(node{
		typ:         sn.typ,
		field:       field,
		constructed: true,
		str:         sn.str,
		b:           sn.b,
		i64:         copyInt(sn.i64),
		f64:         copyFloat(sn.f64),
	})
	for c := src.LeftChild(); c.Ok(); c = c.RightSibling() {
		cIdx, err := d.cloneFrom(c, c.FieldName())
		if err != nil {
			return none, err
		}
		if err := (Element{doc: d, idx: idx}).PushBack(Element{doc: d, idx: cIdx}); err != nil {
			return none, err
		}
	}
	return idx, nil
}

func (d *Document) MakeElementString(field, v string) Element {
	return Element{doc: d, idx: d.alloc(node{typ: StringType, field: field, str: v, constructed: true})}
}

func (d *Document) MakeElementInt(field string, v int64) Element {
	return Element{doc: d, idx: d.alloc(node{typ: NumberType, field: field, i64: &v, constructed: true})}
}

func (d *Document) MakeElementFloat(field string, v float64) Element {
	return Element{doc: d, idx: d.alloc(node{typ: NumberType, field: field, f64: &v, constructed: true})}
}

func (d *Document) MakeElementBool(field string, v bool) Element {
	return Element{doc: d, idx: d.alloc(node{typ: BoolType, field: field, b: v, constructed: true})}
}

func (d *Document) MakeElementNull(field string) Element {
	return Element{doc: d, idx: d.alloc(node{typ: NullType, field: field, constructed: true})}
}

func (d *Document) MakeElementArray(field string) Element {
	return Element{doc: d, idx: d.alloc(node{typ: ArrayType, field: field, constructed: true})}
}

func (d *Document) MakeElementObject(field string) Element {
	return Element{doc: d, idx: d.alloc(node{typ: ObjectType, field: field, constructed: true})}
}

// MakeElementWithNewFieldName deep-copies from's value under the given
// field name (use "" for anonymous array entries). The source may
// belong to another document.
func (d *Document) MakeElementWithNewFieldName(field string, from Element) (Element, error) {
	idx, err := d.cloneFrom(from, field)
	if err != nil {
		return d.End(), err
	}
	return Element{doc: d, idx: idx}, nil
}
