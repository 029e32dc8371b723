// Package schema holds the input side of the compiler: JSON Schema
// documents as immutable, order-preserving Fragment values.
//
// Fragments are decoded from JSON, JSONC (after comment stripping) or YAML
// and keep the declaration order of object members, so the fields of a
// compiled type follow the order in which the schema declares them.
//
//	f, err := schema.Parse([]byte(`{"type":"object","properties":{"title":{"type":"string"}}}`))
//	for _, p := range f.Properties() {
//	    fmt.Println(p.Key, p.Value.TypeName())
//	}
//
// BaseCard returns the schema shared by every card. A card envelope
// (see IsEnvelope) wraps the schema of one entity type under data.schema.
package schema
