package graph

import (
	"context"
	"slices"
	"strconv"
	"sync"
)

// Kind classifies a Type.
type Kind uint8

// Type kinds.
const (
	Scalar Kind = iota + 1
	Enum
	Object
	Interface
	Union
	List
	NonNull
)

// String returns the GraphQL introspection name of the kind.
func (k Kind) String() string {
	switch k {
	case Scalar:
		return "SCALAR"
	case Enum:
		return "ENUM"
	case Object:
		return "OBJECT"
	case Interface:
		return "INTERFACE"
	case Union:
		return "UNION"
	case List:
		return "LIST"
	case NonNull:
		return "NON_NULL"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// The following types make up the output type graph.
type (
	// Type is one node of the output type graph. Named types (Scalar, Enum,
	// Object, Interface, Union) are identified by Name; List and NonNull
	// wrap OfType.
	Type struct {
		Kind Kind
		// Name holds the type name. Empty for wrappers.
		Name        string
		Description string
		// BuiltIn marks types supplied by GraphQL itself.
		BuiltIn bool
		// Interfaces implemented by an Object or Interface.
		Interfaces []*Type
		// Members of a Union.
		Members []*Type
		// Values of an Enum.
		Values []*EnumValue
		// OfType is the wrapped type of a List or NonNull.
		OfType *Type

		once   sync.Once
		fields []*Field
		thunk  func() []*Field
	}

	// Field belongs to exactly one Object or Interface.
	Field struct {
		Name        string
		Description string
		Type        *Type
		Args        []*Argument
		// Source is the source record key the field reads, when it differs
		// from Name.
		Source string
		// Resolve maps a source record to the field value. Nil means the
		// value is read from the record under Name.
		Resolve ResolveFunc
	}

	// Argument of a field.
	Argument struct {
		Name        string
		Description string
		Type        *Type
	}

	// EnumValue is one member of an Enum. Name is the legal identifier,
	// Value the original literal.
	EnumValue struct {
		Name        string
		Description string
		Value       any
	}
)

// ResolveFunc computes the runtime value of a field from its source record.
type ResolveFunc func(ctx context.Context, source any) (any, error)

// Built-in scalars.
var (
	String  = &Type{Kind: Scalar, Name: "String", BuiltIn: true}
	Int     = &Type{Kind: Scalar, Name: "Int", BuiltIn: true}
	Float   = &Type{Kind: Scalar, Name: "Float", BuiltIn: true}
	Boolean = &Type{Kind: Scalar, Name: "Boolean", BuiltIn: true}
	ID      = &Type{Kind: Scalar, Name: "ID", BuiltIn: true}
)

// BuiltIns returns the built-in scalars.
func BuiltIns() []*Type { return []*Type{String, Int, Float, Boolean, ID} }

// NewScalar returns a custom scalar.
func NewScalar(name, description string) *Type {
	return &Type{Kind: Scalar, Name: name, Description: description}
}

// NewEnum returns an enum with the given values.
func NewEnum(name string, values ...*EnumValue) *Type {
	return &Type{Kind: Enum, Name: name, Values: values}
}

// NewObject returns an object type with the given fields.
func NewObject(name string, fields ...*Field) *Type {
	return &Type{Kind: Object, Name: name, fields: fields}
}

// NewObjectThunk returns an object type whose fields are computed on first
// access, which lets mutually referencing types be declared in any order.
func NewObjectThunk(name string, fields func() []*Field) *Type {
	return &Type{Kind: Object, Name: name, thunk: fields}
}

// NewInterface returns an interface type with the given fields.
func NewInterface(name string, fields ...*Field) *Type {
	return &Type{Kind: Interface, Name: name, fields: fields}
}

// NewUnion returns a union of object types.
func NewUnion(name string, members ...*Type) *Type {
	return &Type{Kind: Union, Name: name, Members: members}
}

// ListOf wraps t in a List.
func ListOf(t *Type) *Type { return &Type{Kind: List, OfType: t} }

// NonNullOf wraps t in a NonNull. Wrapping a NonNull is a no-op.
func NonNullOf(t *Type) *Type {
	if t.Kind == NonNull {
		return t
	}
	return &Type{Kind: NonNull, OfType: t}
}

// Nullable strips a NonNull wrapper.
func Nullable(t *Type) *Type {
	if t != nil && t.Kind == NonNull {
		return t.OfType
	}
	return t
}

// Named unwraps List and NonNull wrappers down to the named type.
func (t *Type) Named() *Type {
	for t != nil && (t.Kind == List || t.Kind == NonNull) {
		t = t.OfType
	}
	return t
}

// IsNamed reports whether t is a named type rather than a wrapper.
func (t *Type) IsNamed() bool { return t.Kind != List && t.Kind != NonNull }

// Fields returns the fields of an Object or Interface.
func (t *Type) Fields() []*Field {
	t.once.Do(func() {
		if t.thunk != nil {
			t.fields = t.thunk()
			t.thunk = nil
		}
	})
	return t.fields
}

// SetFields replaces the fields of an Object or Interface.
func (t *Type) SetFields(fields ...*Field) {
	t.Fields()
	t.fields = fields
}

// Field returns the field with the given name, or nil.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Implements reports whether t lists iface among its interfaces,
// directly or through another interface.
func (t *Type) Implements(iface *Type) bool {
	for _, i := range t.Interfaces {
		if i == iface || i.Implements(iface) {
			return true
		}
	}
	return false
}

// HasMember reports whether a union contains the member.
func (t *Type) HasMember(member *Type) bool {
	return slices.Contains(t.Members, member)
}

// String returns the type expression, e.g. "[Email!]!".
func (t *Type) String() string {
	switch {
	case t == nil:
		return "<nil>"
	case t.Kind == List:
		return "[" + t.OfType.String() + "]"
	case t.Kind == NonNull:
		return t.OfType.String() + "!"
	default:
		return t.Name
	}
}

// SameAs reports whether t and o denote the same type expression.
func (t *Type) SameAs(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	return t.String() == o.String()
}
