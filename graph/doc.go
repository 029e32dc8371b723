// Package graph provides the output type graph produced by the compiler.
//
// A Type is one node of the graph. Named types are scalars, enums, objects,
// interfaces and unions; lists and non-null types wrap another type:
//
//	email := graph.NewScalar("Email", "")
//	user := graph.NewObject("User",
//	    &graph.Field{Name: "email", Type: graph.NonNullOf(email)},
//	    &graph.Field{Name: "tags", Type: graph.ListOf(graph.NonNullOf(graph.String))},
//	)
//
// Object types referencing each other are declared with NewObjectThunk,
// whose fields are computed on first access.
//
// # Schema
//
// A Schema collects every named type reachable from a query type. It can be
// rendered as SDL through the gqlparser formatter and validated against the
// GraphQL type system rules:
//
//	s, err := graph.NewSchema(query, types...)
//	if err != nil {
//	    return err
//	}
//	if _, err := s.Validate(); err != nil {
//	    return err
//	}
//	fmt.Println(s.SDL())
//
// # Resolvers
//
// Fields may carry a ResolveFunc mapping a source record to the field
// value. Fields without one read the record under their own name. Property
// and Path build resolvers reading map records.
package graph
