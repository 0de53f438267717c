// Package encode renders document elements as JSON or YAML, with
// optional terminal colors for interactive output.
package encode

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mudoc/mudoc/doc"
)

type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
)

func ParseFormat(v string) (Format, error) {
	switch v {
	case "json", "j":
		return JSONFormat, nil
	case "yaml", "y":
		return YAMLFormat, nil
	}
	return JSONFormat, fmt.Errorf("unknown format %q", v)
}

type encState struct {
	format Format
	indent int
	colors *Colors
}

type EncodeOption func(*encState)

func EncodeFormat(f Format) EncodeOption {
	return func(es *encState) { es.format = f }
}

func Indent(n int) EncodeOption {
	return func(es *encState) { es.indent = n }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *encState) { es.colors = c }
}

// Encode writes el to w in the configured format. The default is
// two-space indented JSON without colors.
func Encode(el doc.Element, w io.Writer, opts ...EncodeOption) error {
	es := &encState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	if es.format == YAMLFormat {
		d, err := el.MarshalYAML()
		if err != nil {
			return err
		}
		_, err = w.Write(d)
		return err
	}
	if err := es.encodeJSON(el, w, 0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// MustString renders el as compact JSON, for error messages.
func MustString(el doc.Element) string {
	return el.String()
}

func (es *encState) encodeJSON(el doc.Element, w io.Writer, depth int) error {
	switch el.Type() {
	case doc.NullType:
		return es.write(w, es.color().Null, "null")
	case doc.BoolType:
		return es.write(w, es.color().Bool, strconv.FormatBool(el.BoolValue()))
	case doc.NumberType:
		if i, ok := el.Int64Value(); ok {
			return es.write(w, es.color().Number, strconv.FormatInt(i, 10))
		}
		return es.write(w, es.color().Number, strconv.FormatFloat(el.Number(), 'g', -1, 64))
	case doc.StringType:
		d, err := json.Marshal(el.StringValue())
		if err != nil {
			return err
		}
		return es.write(w, es.color().String, string(d))
	case doc.ArrayType:
		if !el.HasChildren() {
			return es.write(w, es.color().Punct, "[]")
		}
		if err := es.write(w, es.color().Punct, "["); err != nil {
			return err
		}
		for c := el.LeftChild(); c.Ok(); c = c.RightSibling() {
			if err := es.newline(w, depth+1); err != nil {
				return err
			}
			if err := es.encodeJSON(c, w, depth+1); err != nil {
				return err
			}
			if c.RightSibling().Ok() {
				if err := es.write(w, es.color().Punct, ","); err != nil {
					return err
				}
			}
		}
		if err := es.newline(w, depth); err != nil {
			return err
		}
		return es.write(w, es.color().Punct, "]")
	case doc.ObjectType:
		if !el.HasChildren() {
			return es.write(w, es.color().Punct, "{}")
		}
		if err := es.write(w, es.color().Punct, "{"); err != nil {
			return err
		}
		for c := el.LeftChild(); c.Ok(); c = c.RightSibling() {
			if err := es.newline(w, depth+1); err != nil {
				return err
			}
			k, err := json.Marshal(c.FieldName())
			if err != nil {
				return err
			}
			if err := es.write(w, es.color().Field, string(k)); err != nil {
				return err
			}
			if err := es.write(w, es.color().Punct, ": "); err != nil {
				return err
			}
			if err := es.encodeJSON(c, w, depth+1); err != nil {
				return err
			}
			if c.RightSibling().Ok() {
				if err := es.write(w, es.color().Punct, ","); err != nil {
					return err
				}
			}
		}
		if err := es.newline(w, depth); err != nil {
			return err
		}
		return es.write(w, es.color().Punct, "}")
	}
	return fmt.Errorf("unencodable type %s", el.Type())
}

func (es *encState) color() *Colors {
	if es.colors != nil {
		return es.colors
	}
	return plainColors
}

func (es *encState) write(w io.Writer, paint func(format string, a ...any) string, s string) error {
	_, err := io.WriteString(w, paint("%s", s))
	return err
}

func (es *encState) newline(w io.Writer, depth int) error {
	if es.indent == 0 {
		return nil
	}
	pad := make([]byte, 1+depth*es.indent)
	pad[0] = '\n'
	for i := 1; i < len(pad); i++ {
		pad[i] = ' '
	}
	_, err := w.Write(pad)
	return err
}
