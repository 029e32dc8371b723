package graph

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/cardgraph"
)

// Schema is a frozen output type graph rooted at a query type.
type Schema struct {
	// Query is the root query type.
	Query *Type
	// Types holds every named, non built-in type reachable from the
	// schema, in discovery order.
	Types []*Type
	types map[string]*Type
}

// NewSchema collects every named type reachable from the given types and
// the query type. Two distinct types sharing a name is an error.
func NewSchema(query *Type, types ...*Type) (*Schema, error) {
	s := &Schema{Query: query, types: make(map[string]*Type)}
	for _, t := range append(slices.Clone(types), query) {
		if err := s.collect(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) collect(t *Type) error {
	t = t.Named()
	if t == nil || t.BuiltIn {
		return nil
	}
	if prev, ok := s.types[t.Name]; ok {
		if prev != t {
			return fmt.Errorf("graph: two distinct types named %q", t.Name)
		}
		return nil
	}
	s.types[t.Name] = t
	s.Types = append(s.Types, t)
	for _, i := range t.Interfaces {
		if err := s.collect(i); err != nil {
			return err
		}
	}
	for _, m := range t.Members {
		if err := s.collect(m); err != nil {
			return err
		}
	}
	for _, f := range t.Fields() {
		if err := s.collect(f.Type); err != nil {
			return err
		}
		for _, a := range f.Args {
			if err := s.collect(a.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

// Type returns the named type.
func (s *Schema) Type(name string) (*Type, error) {
	if t, ok := s.types[name]; ok {
		return t, nil
	}
	for _, b := range BuiltIns() {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, cardgraph.NewNotFoundError("type " + name)
}

// Implementors returns the object types implementing iface, in discovery order.
func (s *Schema) Implementors(iface *Type) []*Type {
	var out []*Type
	for _, t := range s.Types {
		if t.Kind == Object && t.Implements(iface) {
			out = append(out, t)
		}
	}
	return out
}

// Resolve computes the value of typeName.fieldName for the source record.
// Fields without a resolver read the record under their own name.
func (s *Schema) Resolve(ctx context.Context, typeName, fieldName string, source any) (any, error) {
	t, err := s.Type(typeName)
	if err != nil {
		return nil, err
	}
	f := t.Field(fieldName)
	if f == nil {
		return nil, cardgraph.NewNotFoundError("field " + typeName + "." + fieldName)
	}
	if f.Resolve != nil {
		return f.Resolve(ctx, source)
	}
	return Property(f.Name)(ctx, source)
}

// Property returns a resolver reading key from a map source record.
func Property(key string) ResolveFunc {
	return Path(key)
}

// Path returns a resolver reading a nested value from a map source record,
// e.g. Path("data", "title"). Missing keys resolve to nil.
func Path(keys ...string) ResolveFunc {
	return func(_ context.Context, source any) (any, error) {
		v := source
		for _, k := range keys {
			m, ok := v.(map[string]any)
			if !ok {
				return nil, nil
			}
			v = m[k]
		}
		return v, nil
	}
}

// Document converts the schema into a gqlparser schema document.
func (s *Schema) Document() *ast.SchemaDocument {
	doc := &ast.SchemaDocument{}
	if s.Query != nil {
		doc.Schema = ast.SchemaDefinitionList{{
			OperationTypes: ast.OperationTypeDefinitionList{{
				Operation: ast.Query,
				Type:      s.Query.Name,
			}},
		}}
	}
	for _, t := range s.Types {
		doc.Definitions = append(doc.Definitions, definition(t))
	}
	return doc
}

// SDL renders the schema in GraphQL schema definition language.
func (s *Schema) SDL() string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(s.Document())
	return buf.String()
}

// Validate loads the rendered SDL with gqlparser, reporting any violation
// of the GraphQL type system rules.
func (s *Schema) Validate() (*ast.Schema, error) {
	out, err := gqlparser.LoadSchema(&ast.Source{Name: "cardgraph.graphql", Input: s.SDL()})
	if err != nil {
		return nil, fmt.Errorf("graph: invalid schema: %w", err)
	}
	return out, nil
}

func definition(t *Type) *ast.Definition {
	def := &ast.Definition{
		Name:        t.Name,
		Description: t.Description,
	}
	switch t.Kind {
	case Scalar:
		def.Kind = ast.Scalar
	case Enum:
		def.Kind = ast.Enum
		for _, v := range t.Values {
			def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
				Name:        v.Name,
				Description: v.Description,
			})
		}
	case Union:
		def.Kind = ast.Union
		for _, m := range t.Members {
			def.Types = append(def.Types, m.Name)
		}
	case Object, Interface:
		def.Kind = ast.Object
		if t.Kind == Interface {
			def.Kind = ast.Interface
		}
		for _, i := range t.Interfaces {
			def.Interfaces = append(def.Interfaces, i.Name)
		}
		for _, f := range t.Fields() {
			fd := &ast.FieldDefinition{
				Name:        f.Name,
				Description: f.Description,
				Type:        astType(f.Type),
			}
			for _, a := range f.Args {
				fd.Arguments = append(fd.Arguments, &ast.ArgumentDefinition{
					Name:        a.Name,
					Description: a.Description,
					Type:        astType(a.Type),
				})
			}
			def.Fields = append(def.Fields, fd)
		}
	}
	return def
}

func astType(t *Type) *ast.Type {
	switch t.Kind {
	case NonNull:
		inner := astType(t.OfType)
		inner.NonNull = true
		return inner
	case List:
		return &ast.Type{Elem: astType(t.OfType)}
	default:
		return &ast.Type{NamedType: t.Name}
	}
}
