package doc

import (
	"fmt"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"
)

// ParseYAML builds a document from YAML bytes (which covers JSON too).
// Object key order follows sorted map keys, not source order.
func ParseYAML(data []byte) (*Document, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	d := &Document{}
	idx, err := d.fromInterface(v, "")
	if err != nil {
		return nil, err
	}
	d.root = idx
	return d, nil
}

// FromInterface builds a detached element from a plain Go value
// (maps, slices, scalars) under the given field name.
func (d *Document) FromInterface(field string, v any) (Element, error) {
	idx, err := d.fromInterface(v, field)
	if err != nil {
		return d.End(), err
	}
	return Element{doc: d, idx: idx}, nil
}

func (d *Document) fromInterface(v any, field string) (int32, error) {
	switch t := v.(type) {
	case nil:
		return d.alloc(node{typ: NullType, field: field, constructed: true}), nil
	case bool:
		return d.alloc(node{typ: BoolType, field: field, b: t, constructed: true}), nil
	case string:
		return d.alloc(node{typ: StringType, field: field, str: t, constructed: true}), nil
	case int:
		i := int64(t)
		return d.alloc(node{typ: NumberType, field: field, i64: &i, constructed: true}), nil
	case int64:
		i := t
		return d.alloc(node{typ: NumberType, field: field, i64: &i, constructed: true}), nil
	case uint64:
		i := int64(t)
		return d.alloc(node{typ: NumberType, field: field, i64: &i, constructed: true}), nil
	case float64:
		f := t
		return d.alloc(node{typ: NumberType, field: field, f64: &f, constructed: true}), nil
	case []any:
		idx := d.alloc(node{typ: ArrayType, field: field, constructed: true})
		for _, item := range t {
			cIdx, err := d.fromInterface(item, "")
			if err != nil {
				return none, err
			}
			if err := (Element{doc: d, idx: idx}).PushBack(Element{doc: d, idx: cIdx}); err != nil {
				return none, err
			}
		}
		return idx, nil
	case map[string]any:
		idx := d.alloc(node{typ: ObjectType, field: field, constructed: true})
		for _, key := range slices.Sorted(maps.Keys(t)) {
			cIdx, err := d.fromInterface(t[key], key)
			if err != nil {
				return none, err
			}
			if err := (Element{doc: d, idx: idx}).PushBack(Element{doc: d, idx: cIdx}); err != nil {
				return none, err
			}
		}
		return idx, nil
	}
	return none, fmt.Errorf("%w: unsupported value type %T", ErrParse, v)
}

// Interface converts the element's value to plain Go values suitable
// for yaml encoding or expression environments.
func (e Element) Interface() any {
	switch e.Type() {
	case NullType:
		return nil
	case BoolType:
		return e.BoolValue()
	case StringType:
		return e.StringValue()
	case NumberType:
		if i, ok := e.Int64Value(); ok {
			return i
		}
		return e.Number()
	case ArrayType:
		res := []any{}
		for c := e.LeftChild(); c.Ok(); c = c.RightSibling() {
			res = append(res, c.Interface())
		}
		return res
	case ObjectType:
		res := map[string]any{}
		for c := e.LeftChild(); c.Ok(); c = c.RightSibling() {
			res[c.FieldName()] = c.Interface()
		}
		return res
	}
	return nil
}

// MarshalYAML renders the element's value as YAML.
func (e Element) MarshalYAML() ([]byte, error) {
	if !e.Ok() {
		return nil, fmt.Errorf("%w: marshal of invalid element", ErrConstruct)
	}
	return yaml.Marshal(e.Interface())
}
