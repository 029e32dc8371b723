package gen

import (
	"github.com/syssam/cardgraph/graph"
)

// Names of the well-known types seeded into every run.
const (
	JSONScalar          = "JSON"
	DateTimeScalar      = "DateTime"
	EmailScalar         = "Email"
	SlugScalar          = "Slug"
	MarkdownScalar      = "Markdown"
	SemverScalar        = "SemanticVersion"
	UUIDScalar          = "UUID"
	NullScalar          = "Null"
	NodeInterface       = "Node"
	CardInterface       = "Card"
	LinkObject          = "Link"
	LinkTimestampObject = "LinkTimestamp"
	PageInfoObject      = "PageInfo"
)

var scalars = []struct{ name, desc string }{
	{JSONScalar, "An arbitrary JSON value."},
	{DateTimeScalar, "An RFC 3339 date-time string."},
	{EmailScalar, "An email address."},
	{SlugScalar, "A lowercase, dash separated card identifier."},
	{MarkdownScalar, "A Markdown document."},
	{SemverScalar, "A semantic version, e.g. 1.2.0."},
	{UUIDScalar, "A UUID string."},
	{NullScalar, "The JSON null value."},
}

// seed registers the well-known types. Link is pending: its cards field
// refers to the Card interface, which only exists once the base schema is
// compiled.
func seed(c *Context) error {
	for _, s := range scalars {
		if err := c.RegisterType(s.name, graph.NewScalar(s.name, s.desc)); err != nil {
			return err
		}
	}
	node := graph.NewInterface(NodeInterface, &graph.Field{
		Name: "id",
		Type: graph.NonNullOf(graph.ID),
	})
	node.Description = "An object with a globally unique identifier."
	if err := c.RegisterType(NodeInterface, node); err != nil {
		return err
	}
	stamp := graph.NewObject(LinkTimestampObject,
		&graph.Field{Name: "verb", Type: graph.NonNullOf(graph.String)},
		&graph.Field{Name: "at", Type: graph.NonNullOf(c.typeOrJSON(DateTimeScalar))},
	)
	stamp.Description = "The time a link with the given verb was created."
	if err := c.RegisterType(LinkTimestampObject, stamp); err != nil {
		return err
	}
	page := graph.NewObject(PageInfoObject,
		&graph.Field{Name: "hasNextPage", Type: graph.NonNullOf(graph.Boolean)},
		&graph.Field{Name: "hasPreviousPage", Type: graph.NonNullOf(graph.Boolean)},
		&graph.Field{Name: "startCursor", Type: graph.String},
		&graph.Field{Name: "endCursor", Type: graph.String},
	)
	if err := c.RegisterType(PageInfoObject, page); err != nil {
		return err
	}
	return c.RegisterFactory(LinkObject, func() *graph.Type {
		link := graph.NewObjectThunk(LinkObject, func() []*graph.Field {
			card, ok := c.GetType(CardInterface)
			if !ok {
				card, _ = c.GetType(NodeInterface)
			}
			return []*graph.Field{
				{Name: "verb", Type: graph.NonNullOf(graph.String)},
				{Name: "cards", Type: graph.NonNullOf(graph.ListOf(graph.NonNullOf(card)))},
			}
		})
		link.Description = "The cards linked under one verb."
		return link
	})
}
