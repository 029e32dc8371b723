// Package graphql writes the GraphQL artifacts of a compiled card schema:
// the SDL file and the gqlgen.yml bindings of the card scalars.
//
//	cfg, err := graphql.LoadGQLGenConfig("gqlgen.yml")
//	if err != nil {
//	    return err
//	}
//	cfg.InjectCardBindings(s, "example.com/app/model", "schema.graphql")
//	if err := graphql.WriteSchema("schema.graphql", s); err != nil {
//	    return err
//	}
//	return graphql.SaveGQLGenConfig("gqlgen.yml", cfg)
package graphql
