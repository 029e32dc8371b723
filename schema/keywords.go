package schema

// JSON Schema keywords read by the compiler.
const (
	KeywordType        = "type"
	KeywordProperties  = "properties"
	KeywordRequired    = "required"
	KeywordItems       = "items"
	KeywordAnyOf       = "anyOf"
	KeywordOneOf       = "oneOf"
	KeywordEnum        = "enum"
	KeywordConst       = "const"
	KeywordFormat      = "format"
	KeywordPattern     = "pattern"
	KeywordDescription = "description"
	KeywordTitle       = "title"
)

// Primitive type names of the JSON Schema `type` keyword.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// TypeName returns the `type` keyword when it is a single string.
func (f *Fragment) TypeName() (string, bool) {
	t := f.Get(KeywordType)
	if !t.IsString() {
		return "", false
	}
	return t.Text(), true
}

// IsType reports whether the `type` keyword is exactly name.
func (f *Fragment) IsType(name string) bool {
	t, ok := f.TypeName()
	return ok && t == name
}

// TypeNames returns the `type` keyword when it is an array of strings.
func (f *Fragment) TypeNames() ([]string, bool) {
	t := f.Get(KeywordType)
	if !t.IsArray() || t.Len() == 0 {
		return nil, false
	}
	names := make([]string, 0, t.Len())
	for _, item := range t.Items() {
		if !item.IsString() {
			return nil, false
		}
		names = append(names, item.Text())
	}
	return names, true
}

// Properties returns the `properties` members in declaration order.
func (f *Fragment) Properties() []Member {
	return f.Get(KeywordProperties).Members()
}

// Required returns the string entries of the `required` keyword.
func (f *Fragment) Required() []string {
	var names []string
	for _, item := range f.Get(KeywordRequired).Items() {
		if item.IsString() {
			names = append(names, item.Text())
		}
	}
	return names
}

// Format returns the `format` keyword.
func (f *Fragment) Format() string { return f.Get(KeywordFormat).Text() }

// Pattern returns the `pattern` keyword.
func (f *Fragment) Pattern() string { return f.Get(KeywordPattern).Text() }

// Description returns the `description` keyword, falling back to `title`.
func (f *Fragment) Description() string {
	if d := f.Get(KeywordDescription).Text(); d != "" {
		return d
	}
	return f.Get(KeywordTitle).Text()
}

// Composite reports whether the fragment carries any keyword that
// constrains its shape.
func (f *Fragment) Composite() bool {
	for _, k := range []string{KeywordType, KeywordProperties, KeywordItems, KeywordAnyOf, KeywordOneOf, KeywordEnum, KeywordConst, KeywordFormat, KeywordPattern} {
		if f.Has(k) {
			return true
		}
	}
	return false
}
