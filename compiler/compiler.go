// Package compiler compiles the type cards of a source into a GraphQL
// schema.
//
//	s, err := compiler.Generate(ctx, &load.Dir{Path: "cards"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(s.SDL())
package compiler

import (
	"context"

	"github.com/syssam/cardgraph/compiler/gen"
	"github.com/syssam/cardgraph/compiler/load"
	"github.com/syssam/cardgraph/graph"
	"github.com/syssam/cardgraph/schema"
)

// Generate loads the cards of src and compiles them with the given options.
// A nil src compiles the base card schema only.
func Generate(ctx context.Context, src load.Source, opts ...gen.Option) (*graph.Schema, error) {
	if src != nil {
		opts = append([]gen.Option{gen.WithSource(Adapt(src))}, opts...)
	}
	b, err := gen.NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	s, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Adapt turns a card source into the envelope source of a gen.Builder.
func Adapt(src load.Source) gen.Source {
	return gen.SourceFunc(func(ctx context.Context) ([]*schema.Fragment, error) {
		cards, err := src.Cards(ctx)
		if err != nil {
			return nil, err
		}
		return load.Schemas(cards), nil
	})
}
