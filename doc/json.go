package doc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseJSON builds a document from JSON bytes. Parsed nodes are
// in-place: they keep their raw source fragment until mutated.
func ParseJSON(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrParse)
	}
	r := gjson.ParseBytes(data)
	d := &Document{}
	idx, err := d.fromResult(r, "")
	if err != nil {
		return nil, err
	}
	d.root = idx
	return d, nil
}

func (d *Document) fromResult(r gjson.Result, field string) (int32, error) {
	switch {
	case r.IsObject(), r.IsArray():
		typ := ObjectType
		if r.IsArray() {
			typ = ArrayType
		}
		idx := d.alloc(node{typ: typ, field: field, raw: r.Raw})
		var ferr error
		r.ForEach(func(key, value gjson.Result) bool {
			childField := ""
			if typ == ObjectType {
				childField = key.Str
			}
			cIdx, err := d.fromResult(value, childField)
			if err != nil {
				ferr = err
				return false
			}
			ferr = (Element{doc: d, idx: idx}).PushBack(Element{doc: d, idx: cIdx})
			return ferr == nil
		})
		if ferr != nil {
			return none, ferr
		}
		return idx, nil
	case r.Type == gjson.String:
		return d.alloc(node{typ: StringType, field: field, str: r.Str, raw: r.Raw}), nil
	case r.Type == gjson.Number:
		n := node{typ: NumberType, field: field, raw: r.Raw}
		if !strings.ContainsAny(r.Raw, ".eE") {
			if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
				n.i64 = &i
				return d.alloc(n), nil
			}
		}
		f := r.Num
		n.f64 = &f
		return d.alloc(n), nil
	case r.Type == gjson.True, r.Type == gjson.False:
		return d.alloc(node{typ: BoolType, field: field, b: r.Bool(), raw: r.Raw}), nil
	case r.Type == gjson.Null:
		return d.alloc(node{typ: NullType, field: field, raw: r.Raw}), nil
	}
	return none, fmt.Errorf("%w: unsupported json value %q", ErrParse, r.Raw)
}

// MarshalJSON renders the element's value as compact JSON.
func (e Element) MarshalJSON() ([]byte, error) {
	if !e.Ok() {
		return nil, fmt.Errorf("%w: marshal of invalid element", ErrConstruct)
	}
	var sb strings.Builder
	if err := e.appendJSON(&sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return d.Root().MarshalJSON()
}

func (e Element) appendJSON(sb *strings.Builder) error {
	switch e.Type() {
	case NullType:
		sb.WriteString("null")
	case BoolType:
		sb.WriteString(strconv.FormatBool(e.BoolValue()))
	case NumberType:
		if i, ok := e.Int64Value(); ok {
			sb.WriteString(strconv.FormatInt(i, 10))
		} else {
			sb.WriteString(strconv.FormatFloat(e.Number(), 'g', -1, 64))
		}
	case StringType:
		d, err := json.Marshal(e.StringValue())
		if err != nil {
			return err
		}
		sb.Write(d)
	case ArrayType:
		sb.WriteByte('[')
		first := true
		for c := e.LeftChild(); c.Ok(); c = c.RightSibling() {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			if err := c.appendJSON(sb); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case ObjectType:
		sb.WriteByte('{')
		first := true
		for c := e.LeftChild(); c.Ok(); c = c.RightSibling() {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			k, err := json.Marshal(c.FieldName())
			if err != nil {
				return err
			}
			sb.Write(k)
			sb.WriteByte(':')
			if err := c.appendJSON(sb); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	}
	return nil
}
