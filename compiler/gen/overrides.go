package gen

import (
	"context"
	"maps"
	"slices"

	"github.com/syssam/cardgraph/graph"
)

type (
	// Override replaces the field compiled for a property key, whatever
	// the property schema declares.
	Override struct {
		Key   string
		Field func(c *Context) *graph.Field
	}

	// Overrides is the field override table, in field order.
	Overrides []Override
)

// Lookup returns the override for key.
func (o Overrides) Lookup(key string) (Override, bool) {
	for _, ov := range o {
		if ov.Key == key {
			return ov, true
		}
	}
	return Override{}, false
}

// Has reports whether key is overridden.
func (o Overrides) Has(key string) bool {
	_, ok := o.Lookup(key)
	return ok
}

// DefaultOverrides returns the override table for card envelopes.
func DefaultOverrides() Overrides {
	return Overrides{
		{Key: "id", Field: func(*Context) *graph.Field {
			return &graph.Field{Name: "id", Description: "The unique identifier of the card.", Type: graph.NonNullOf(graph.ID)}
		}},
		{Key: "slug", Field: func(c *Context) *graph.Field {
			return &graph.Field{Name: "slug", Description: "The natural key of the card.", Type: graph.NonNullOf(c.typeOrJSON(SlugScalar))}
		}},
		{Key: "type", Field: func(*Context) *graph.Field {
			return &graph.Field{Name: "type", Description: "The type of the card, as slug@version.", Type: graph.NonNullOf(graph.String)}
		}},
		{Key: "version", Field: func(c *Context) *graph.Field {
			return &graph.Field{Name: "version", Type: graph.NonNullOf(c.typeOrJSON(SemverScalar))}
		}},
		{Key: "links", Field: func(c *Context) *graph.Field {
			return &graph.Field{
				Name:        "links",
				Description: "The cards linked to this card, grouped by verb.",
				Type:        graph.NonNullOf(graph.ListOf(graph.NonNullOf(c.typeOrJSON(LinkObject)))),
				Resolve:     verbs("links", "cards"),
			}
		}},
		{Key: "linked_at", Field: func(c *Context) *graph.Field {
			return &graph.Field{
				Name:    "linked_at",
				Type:    graph.NonNullOf(graph.ListOf(graph.NonNullOf(c.typeOrJSON(LinkTimestampObject)))),
				Source:  "linked_at",
				Resolve: verbs("linked_at", "at"),
			}
		}},
	}
}

// verbs returns a resolver turning the verb keyed map under key into a
// list of {verb, <value>} records, ordered by verb.
func verbs(key, value string) graph.ResolveFunc {
	return func(ctx context.Context, source any) (any, error) {
		v, err := graph.Property(key)(ctx, source)
		if err != nil {
			return nil, err
		}
		m, _ := v.(map[string]any)
		out := make([]any, 0, len(m))
		for _, verb := range slices.Sorted(maps.Keys(m)) {
			out = append(out, map[string]any{"verb": verb, value: m[verb]})
		}
		return out, nil
	}
}
