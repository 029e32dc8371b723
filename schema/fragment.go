package schema

import (
	"bytes"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	json "github.com/goccy/go-json"
)

// Kind is the JSON kind of a Fragment.
type Kind uint8

// JSON kinds.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

var kindNames = [...]string{
	Null:   "null",
	Bool:   "boolean",
	Number: "number",
	String: "string",
	Array:  "array",
	Object: "object",
}

// String returns the JSON name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Fragment is one immutable node of a JSON (Schema) document.
// Object members keep their declaration order, which drives field order
// in the compiled types.
//
// A nil *Fragment stands for an absent value; every accessor is nil-safe.
type Fragment struct {
	kind  Kind
	flag  bool
	text  string // string value, or the literal of a number
	items []*Fragment
	keys  []string
	props map[string]*Fragment
}

// Member is a key/value pair of an object fragment.
type Member struct {
	Key   string
	Value *Fragment
}

// M is shorthand for building a Member.
func M(key string, v *Fragment) Member { return Member{Key: key, Value: v} }

// NullValue returns the JSON null fragment.
func NullValue() *Fragment { return &Fragment{kind: Null} }

// BoolValue returns a boolean fragment.
func BoolValue(b bool) *Fragment { return &Fragment{kind: Bool, flag: b} }

// NumberValue returns a number fragment holding the given literal.
func NumberValue(lit string) *Fragment { return &Fragment{kind: Number, text: lit} }

// StringValue returns a string fragment.
func StringValue(s string) *Fragment { return &Fragment{kind: String, text: s} }

// ArrayOf returns an array fragment.
func ArrayOf(items ...*Fragment) *Fragment {
	return &Fragment{kind: Array, items: slices.Clone(items)}
}

// Strings returns an array fragment of strings.
func Strings(values ...string) *Fragment {
	items := make([]*Fragment, len(values))
	for i, v := range values {
		items[i] = StringValue(v)
	}
	return &Fragment{kind: Array, items: items}
}

// ObjectOf returns an object fragment with members in the given order.
// A repeated key replaces the earlier value but keeps its position.
func ObjectOf(members ...Member) *Fragment {
	f := &Fragment{kind: Object, props: make(map[string]*Fragment, len(members))}
	for _, m := range members {
		f.set(m.Key, m.Value)
	}
	return f
}

func (f *Fragment) set(key string, v *Fragment) {
	if _, ok := f.props[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.props[key] = v
}

// Kind returns the JSON kind of the fragment. Absent fragments report Null.
func (f *Fragment) Kind() Kind {
	if f == nil {
		return Null
	}
	return f.kind
}

// IsObject reports whether the fragment is a JSON object.
func (f *Fragment) IsObject() bool { return f != nil && f.kind == Object }

// IsArray reports whether the fragment is a JSON array.
func (f *Fragment) IsArray() bool { return f != nil && f.kind == Array }

// IsString reports whether the fragment is a JSON string.
func (f *Fragment) IsString() bool { return f != nil && f.kind == String }

// IsFalse reports whether the fragment is exactly the literal false.
func (f *Fragment) IsFalse() bool { return f != nil && f.kind == Bool && !f.flag }

// IsTrue reports whether the fragment is exactly the literal true.
func (f *Fragment) IsTrue() bool { return f != nil && f.kind == Bool && f.flag }

// Bool returns the boolean value, or false for other kinds.
func (f *Fragment) Bool() bool { return f != nil && f.kind == Bool && f.flag }

// Text returns the string value (or number literal), or "" for other kinds.
func (f *Fragment) Text() string {
	if f == nil || (f.kind != String && f.kind != Number) {
		return ""
	}
	return f.text
}

// Len returns the number of items or members.
func (f *Fragment) Len() int {
	switch {
	case f == nil:
		return 0
	case f.kind == Array:
		return len(f.items)
	case f.kind == Object:
		return len(f.keys)
	default:
		return 0
	}
}

// Items returns the items of an array fragment.
func (f *Fragment) Items() []*Fragment {
	if f == nil || f.kind != Array {
		return nil
	}
	return f.items
}

// Keys returns the member keys of an object fragment in declaration order.
func (f *Fragment) Keys() []string {
	if f == nil || f.kind != Object {
		return nil
	}
	return f.keys
}

// Members returns the members of an object fragment in declaration order.
func (f *Fragment) Members() []Member {
	if f == nil || f.kind != Object {
		return nil
	}
	members := make([]Member, len(f.keys))
	for i, k := range f.keys {
		members[i] = Member{Key: k, Value: f.props[k]}
	}
	return members
}

// Has reports whether an object fragment declares the key.
func (f *Fragment) Has(key string) bool {
	if f == nil || f.kind != Object {
		return false
	}
	_, ok := f.props[key]
	return ok
}

// Get returns the member value for key, or nil.
func (f *Fragment) Get(key string) *Fragment {
	if f == nil || f.kind != Object {
		return nil
	}
	return f.props[key]
}

// With returns a copy of an object fragment with key set to v.
func (f *Fragment) With(key string, v *Fragment) *Fragment {
	c := f.clone()
	c.set(key, v)
	return c
}

// Without returns a copy of an object fragment without the given keys.
func (f *Fragment) Without(keys ...string) *Fragment {
	c := &Fragment{kind: Object, props: make(map[string]*Fragment, f.Len())}
	for _, k := range f.Keys() {
		if !slices.Contains(keys, k) {
			c.set(k, f.props[k])
		}
	}
	return c
}

func (f *Fragment) clone() *Fragment {
	c := &Fragment{kind: Object, props: make(map[string]*Fragment, f.Len()+1)}
	for _, k := range f.Keys() {
		c.set(k, f.props[k])
	}
	return c
}

// Equal reports whether two fragments hold the same JSON value.
// Object member order is not significant.
func (f *Fragment) Equal(o *Fragment) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.kind != o.kind {
		return false
	}
	switch f.kind {
	case Null:
		return true
	case Bool:
		return f.flag == o.flag
	case Number, String:
		return f.text == o.text
	case Array:
		return slices.EqualFunc(f.items, o.items, (*Fragment).Equal)
	default:
		if len(f.keys) != len(o.keys) {
			return false
		}
		for k, v := range f.props {
			if !v.Equal(o.props[k]) {
				return false
			}
		}
		return true
	}
}

// Interface converts the fragment to plain Go values: nil, bool,
// encoding/json.Number, string, []any and map[string]any.
func (f *Fragment) Interface() any {
	if f == nil {
		return nil
	}
	switch f.kind {
	case Bool:
		return f.flag
	case Number:
		return stdjson.Number(f.text)
	case String:
		return f.text
	case Array:
		out := make([]any, len(f.items))
		for i, item := range f.items {
			out[i] = item.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(f.keys))
		for k, v := range f.props {
			out[k] = v.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the fragment, keeping member order.
func (f *Fragment) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *Fragment) encode(buf *bytes.Buffer) error {
	switch f.Kind() {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(f.flag))
	case Number:
		buf.WriteString(f.text)
	case String:
		b, err := json.Marshal(f.text)
		if err != nil {
			return err
		}
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, item := range f.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range f.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := f.props[k].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// String returns the compact JSON encoding of the fragment.
func (f *Fragment) String() string {
	b, err := f.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid fragment: %v>", err)
	}
	return string(b)
}

// Parse decodes a JSON document into a Fragment.
func Parse(data []byte) (*Fragment, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads exactly one JSON document from r.
func Decode(r io.Reader) (*Fragment, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	f, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("schema: decode: trailing data after document")
	}
	return f, nil
}

func decodeValue(dec *json.Decoder) (*Fragment, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			f := &Fragment{kind: Object, props: make(map[string]*Fragment)}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				f.set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return f, nil
		case '[':
			f := &Fragment{kind: Array}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				f.items = append(f.items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return f, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t.String()), nil
	case float64:
		return NumberValue(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case string:
		return StringValue(t), nil
	case nil:
		return NullValue(), nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}
