// Package gomodel generates Go model types for a compiled card schema.
//
// Objects become structs, interfaces and unions become marker interfaces
// in the gqlgen convention (IsCard), enums become string types with one
// constant per value and custom scalars become named Go types. Struct
// fields carry a json tag with the GraphQL field name and, when the value
// is read from another record key, a card tag with that key.
package gomodel

import (
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/cardgraph/compiler/gen"
	"github.com/syssam/cardgraph/graph"
)

// Header is the comment heading every generated file.
const Header = "Code generated by cardgraph, DO NOT EDIT."

// scalars maps the card scalars to Go types.
var scalars = map[string]jen.Code{
	gen.JSONScalar:     jen.Map(jen.String()).Id("any"),
	gen.NullScalar:     jen.Id("any"),
	gen.DateTimeScalar: jen.Qual("time", "Time"),
}

// builtins maps the GraphQL built-in scalars to Go types.
var builtins = map[string]func() *jen.Statement{
	"String":  jen.String,
	"ID":      jen.String,
	"Int":     jen.Int,
	"Float":   jen.Float64,
	"Boolean": jen.Bool,
}

// initialisms are field name words rendered in upper case.
var initialisms = []string{"ID", "URL", "UUID", "JSON", "API", "HTTP"}

// Generate returns the Go file declaring the models of s in package pkg.
// The query type is skipped.
func Generate(s *graph.Schema, pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(Header)
	for _, t := range s.Types {
		if t == s.Query {
			continue
		}
		switch t.Kind {
		case graph.Scalar:
			genScalar(f, t)
		case graph.Enum:
			genEnum(f, t)
		case graph.Interface, graph.Union:
			genMarker(f, t)
		case graph.Object:
			genStruct(f, t, s)
		}
	}
	return f
}

// Write generates the models of s into the file at path.
func Write(path string, s *graph.Schema, pkg string) error {
	return Generate(s, pkg).Save(path)
}

func comment(f *jen.File, name, description string) {
	if description == "" {
		return
	}
	f.Comment(name + " " + lowerFirst(description))
}

func genScalar(f *jen.File, t *graph.Type) {
	comment(f, t.Name, t.Description)
	if typ, ok := scalars[t.Name]; ok {
		f.Type().Id(t.Name).Op("=").Add(typ)
		return
	}
	f.Type().Id(t.Name).String()
}

func genEnum(f *jen.File, t *graph.Type) {
	comment(f, t.Name, t.Description)
	f.Type().Id(t.Name).String()
	f.Comment(t.Name + " values.")
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, v := range t.Values {
			value := v.Name
			if s, ok := v.Value.(string); ok {
				value = s
			}
			g.Id(t.Name + inflect.Camelize(strings.ToLower(v.Name))).Id(t.Name).Op("=").Lit(value)
		}
	})
	f.Comment("Values returns the values of " + t.Name + ".")
	f.Func().Params(jen.Id(t.Name)).Id("Values").Params().Index().String().Block(
		jen.Return(jen.Index().String().ValuesFunc(func(g *jen.Group) {
			for _, v := range t.Values {
				g.String().Call(jen.Id(t.Name + inflect.Camelize(strings.ToLower(v.Name))))
			}
		})),
	)
}

func genMarker(f *jen.File, t *graph.Type) {
	comment(f, t.Name, t.Description)
	f.Type().Id(t.Name).Interface(jen.Id("Is" + t.Name).Params())
}

func genStruct(f *jen.File, t *graph.Type, s *graph.Schema) {
	comment(f, t.Name, t.Description)
	f.Type().Id(t.Name).StructFunc(func(g *jen.Group) {
		for _, fd := range t.Fields() {
			tags := map[string]string{"json": fd.Name + ",omitempty"}
			if fd.Source != "" {
				tags["card"] = fd.Source
			}
			st := g.Id(FieldName(fd.Name)).Add(goType(fd.Type, true)).Tag(tags)
			if fd.Description != "" {
				st.Comment(fd.Description)
			}
		}
	})
	markers := slices.Clone(t.Interfaces)
	for _, u := range s.Types {
		if u.Kind == graph.Union && u.HasMember(t) {
			markers = append(markers, u)
		}
	}
	for _, m := range markers {
		f.Func().Params(jen.Id(t.Name)).Id("Is" + m.Name).Params().Block()
	}
}

// goType returns the Go type of a GraphQL type expression. Nullable named
// types other than interfaces become pointers.
func goType(t *graph.Type, nullable bool) *jen.Statement {
	switch t.Kind {
	case graph.NonNull:
		return goType(t.OfType, false)
	case graph.List:
		return jen.Index().Add(goType(t.OfType, true))
	}
	var named *jen.Statement
	if b, ok := builtins[t.Name]; ok && t.BuiltIn {
		named = b()
	} else {
		named = jen.Id(t.Name)
	}
	if nullable && t.Kind != graph.Interface && t.Kind != graph.Union && t.Name != gen.JSONScalar && t.Name != gen.NullScalar {
		return jen.Op("*").Add(named)
	}
	return named
}

// FieldName returns the exported Go name of a GraphQL field.
func FieldName(name string) string {
	if name == "" || name == "_" {
		return "X"
	}
	words := splitCamel(strings.TrimLeft(name, "_"))
	var b strings.Builder
	for _, w := range words {
		if up := strings.ToUpper(w); slices.Contains(initialisms, up) {
			b.WriteString(up)
			continue
		}
		b.WriteString(inflect.Capitalize(w))
	}
	if b.Len() == 0 || (b.String()[0] >= '0' && b.String()[0] <= '9') {
		return "X" + b.String()
	}
	return b.String()
}

// splitCamel splits lowerCamel identifiers into words.
func splitCamel(s string) []string {
	var (
		words []string
		start int
	)
	for i := 1; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
			words = append(words, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
