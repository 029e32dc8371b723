package gen

import (
	"context"
	"fmt"

	"github.com/syssam/cardgraph/graph"
	"github.com/syssam/cardgraph/schema"
)

// QueryType is the name of the root query type.
const QueryType = "Query"

type (
	// Source supplies the entity envelopes compiled by a Builder.
	Source interface {
		Schemas(ctx context.Context) ([]*schema.Fragment, error)
	}

	// SourceFunc adapts a function to Source.
	SourceFunc func(ctx context.Context) ([]*schema.Fragment, error)

	// Builder compiles the base schema and the entity envelopes of its
	// source into a schema rooted at Query.
	Builder struct {
		config *Config
	}

	// PaginationNames holds the type names of a paginated node.
	PaginationNames struct {
		Connection string
		Edge       string
		Node       string
	}
)

// Schemas implements Source.
func (f SourceFunc) Schemas(ctx context.Context) ([]*schema.Fragment, error) {
	return f(ctx)
}

// NewBuilder returns a Builder for the given options.
func NewBuilder(opts ...Option) (*Builder, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Builder{config: c}, nil
}

// Build runs one compilation. Every run uses a fresh Context, so a Builder
// may be reused, also concurrently.
//
// A failing source is logged and the run goes on without entities. A
// duplicate type registration aborts the run.
func (b *Builder) Build(ctx context.Context) (*graph.Schema, error) {
	c := NewContext(b.config)
	if err := seed(c); err != nil {
		return nil, fmt.Errorf("seeding well-known types: %w", err)
	}
	card, err := c.Visit(b.config.BaseSchema, 0)
	if err != nil {
		return nil, err
	}
	if card == nil || card.Kind != graph.Interface {
		return nil, NewSchemaError(CardInterface, "", "base schema does not compile to an interface", nil)
	}
	var entities []*schema.Fragment
	if b.config.Source != nil {
		if entities, err = b.config.Source.Schemas(ctx); err != nil {
			c.log.Error("retrieving entity schemas failed, compiling without entities", "error", err)
			entities = nil
		}
	}
	for _, e := range entities {
		t, err := c.Visit(e, 0)
		if err != nil {
			return nil, err
		}
		if t == nil {
			c.log.Warn("entity schema compiled to nothing", "slug", e.Slug(), "version", e.Version())
		}
	}
	query, err := c.query(card)
	if err != nil {
		return nil, err
	}
	return graph.NewSchema(query, c.Types()...)
}

// query assembles the root query: the fixed card lookups, then one
// paginated listing per entity type, in registration order.
func (c *Context) query(card *graph.Type) (*graph.Type, error) {
	var entities []*graph.Type
	for _, t := range c.Types() {
		if t.Kind == graph.Object && t.Implements(card) {
			entities = append(entities, t)
		}
	}
	cards, err := c.connection(card)
	if err != nil {
		return nil, err
	}
	fields := []*graph.Field{
		{
			Name:        "card",
			Description: "Looks up a card by its identifier.",
			Type:        card,
			Args:        []*graph.Argument{{Name: "id", Type: graph.NonNullOf(graph.ID)}},
		},
		{
			Name:        "cardBySlug",
			Description: "Looks up a card by its slug, in the latest version unless one is given.",
			Type:        card,
			Args: []*graph.Argument{
				{Name: "slug", Type: graph.NonNullOf(c.typeOrJSON(SlugScalar))},
				{Name: "version", Type: c.typeOrJSON(SemverScalar)},
			},
		},
		{
			Name:        "cards",
			Description: "Lists cards, optionally of one type.",
			Type:        graph.NonNullOf(cards),
			Args:        append(pageArgs(), &graph.Argument{Name: "type", Type: graph.String}),
		},
	}
	for _, e := range entities {
		conn, err := c.connection(e)
		if err != nil {
			return nil, err
		}
		fields = append(fields, &graph.Field{
			Name:        lowerFirst(e.Name),
			Description: e.Description,
			Type:        graph.NonNullOf(conn),
			Args:        pageArgs(),
		})
	}
	q := graph.NewObject(QueryType, fields...)
	if err := c.RegisterType(QueryType, q); err != nil {
		return nil, err
	}
	return q, nil
}

// connection registers the Relay connection and edge types of node. When
// a compiled type already holds either name, both take the first free
// number: WidgetV1_0_0Connection2 and WidgetV1_0_0Edge2.
func (c *Context) connection(node *graph.Type) (*graph.Type, error) {
	names := paginationNames(node.Name)
	for i, base := 2, *names; c.HasType(names.Connection) || c.HasType(names.Edge); i++ {
		names.Connection = numbered(base.Connection, i)
		names.Edge = numbered(base.Edge, i)
	}
	edge := graph.NewObject(names.Edge,
		&graph.Field{Name: "node", Type: graph.NonNullOf(node)},
		&graph.Field{Name: "cursor", Type: graph.NonNullOf(graph.String)},
	)
	if err := c.RegisterType(names.Edge, edge); err != nil {
		return nil, err
	}
	conn := graph.NewObject(names.Connection,
		&graph.Field{Name: "edges", Type: graph.NonNullOf(graph.ListOf(graph.NonNullOf(edge)))},
		&graph.Field{Name: "nodes", Type: graph.NonNullOf(graph.ListOf(graph.NonNullOf(node)))},
		&graph.Field{Name: "pageInfo", Type: graph.NonNullOf(c.typeOrJSON(PageInfoObject))},
		&graph.Field{Name: "totalCount", Type: graph.NonNullOf(graph.Int)},
	)
	if err := c.RegisterType(names.Connection, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func pageArgs() []*graph.Argument {
	return []*graph.Argument{
		{Name: "first", Type: graph.Int},
		{Name: "after", Type: graph.String},
	}
}

// paginationNames generates pagination type names from a node name.
func paginationNames(node string) *PaginationNames {
	return &PaginationNames{
		Connection: fmt.Sprintf("%sConnection", node),
		Edge:       fmt.Sprintf("%sEdge", node),
		Node:       node,
	}
}
