// Package gen compiles card schemas into an output type graph.
//
// A card is a versioned record whose envelope (id, slug, version, type,
// links, ...) is described by a base schema shared by all cards. A type
// card additionally carries, under data.schema, the JSON Schema of an
// entity type. The compiler turns the base schema into the Card interface
// and every type card into an entity Object implementing it, then exposes
// all of them from a root Query type.
//
// # Architecture
//
// The compilation pipeline follows this flow:
//
//	base schema + entity envelopes (Source)
//	        ↓
//	   Builder.Build (one Context per run)
//	        ↓
//	   Context.Visit (depth first, post-order)
//	        ↓
//	   Matcher catalog (heaviest match wins)
//	        ↓
//	   graph.Schema (Query, Card, entities, well-known types)
//
// # Matchers
//
// Each fragment is classified by the catalog returned by DefaultMatchers.
// Every Matcher accepting the fragment competes on its Weight; ties go to
// the Matcher declared first. The winner names the children compiled before
// it, and builds its type from their results:
//
//   - entity-root, entity-interface: card envelopes and the base schema
//   - type-object, type-array, type-array-of-strings: structure
//   - any-of, one-of: collapse into one type, a Union, or JSON
//   - enum, const: enumerations and literals
//   - email, date-time, uuid, markdown, semantic-version, slug: formats
//   - string, number, integer, boolean, null: primitives
//   - literal-false, empty-object, empty-array: nothing, or JSON
//
// Extra matchers are added with WithMatchers:
//
//	phone := &gen.Matcher{
//	    Name:   "phone",
//	    Weight: gen.FormatWeight,
//	    Match:  func(m *gen.Match) bool { return m.Fragment.Format() == "phone" },
//	    Process: func(m *gen.Match, _ []*graph.Type) (*graph.Type, error) {
//	        return graph.String, nil
//	    },
//	}
//	b, err := gen.NewBuilder(gen.WithMatchers(phone), gen.WithSource(src))
//
// # Naming
//
// Types are named after the path of property names leading to them, with
// the last segment singularized: the items of the `line_items` property of
// WidgetV1_0_0 compile to WidgetV1_0_0LineItem. Entity types are named
// after their slug and version (widget 1.0.0 is WidgetV1_0_0). Types
// without any path are numbered, e.g. AnonymousObjectType1. A `title`
// only describes a type.
//
// A derived name held by a type of another shape is numbered: the two
// object branches of an anyOf under WidgetV1_0_0 `owner` compile to
// WidgetV1_0_0Owner2 and WidgetV1_0_0Owner3, members of the
// WidgetV1_0_0Owner union.
//
// # Error Handling
//
// Unclassifiable fragments, mismatched children and dangling required
// properties are logged and skipped. The only fatal error is a
// DuplicateTypeError: two types claiming one fixed name, such as two
// cards with the same slug and version.
//
//	if _, err := b.Build(ctx); gen.IsDuplicateType(err) {
//	    // two schemas produce the same type name
//	}
package gen
