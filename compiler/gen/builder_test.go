package gen

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/cardgraph/graph"
	"github.com/syssam/cardgraph/schema"
)

const widgetCard = `{
  "slug": "widget",
  "version": "1.0.0",
  "type": "type@1.0.0",
  "active": true,
  "name": "Widget",
  "data": {
    "schema": {
      "type": "object",
      "description": "A thing with a title.",
      "properties": {
        "title": {"type": "string"},
        "status": {"enum": ["Open", "In Progress", "30m"]},
        "contact": {
          "anyOf": [
            {"type": "string", "format": "email"},
            {"type": "array", "items": {"type": "string", "format": "email"}}
          ]
        },
        "data": {
          "type": "object",
          "properties": {"weight": {"type": "number"}}
        }
      },
      "required": ["title"]
    }
  }
}`

const gadgetCard = `{
  "slug": "gadget",
  "version": "2.0.0",
  "type": "type@1.0.0",
  "data": {
    "schema": {
      "type": "object",
      "properties": {"serial": {"type": "string", "format": "uuid"}}
    }
  }
}`

func staticSource(t *testing.T, docs ...string) Source {
	t.Helper()
	var cards []*schema.Fragment
	for _, doc := range docs {
		f, err := schema.Parse([]byte(doc))
		require.NoError(t, err)
		cards = append(cards, f)
	}
	return SourceFunc(func(context.Context) ([]*schema.Fragment, error) { return cards, nil })
}

func build(t *testing.T, buf *bytes.Buffer, opts ...Option) (*graph.Schema, error) {
	t.Helper()
	if buf == nil {
		buf = &bytes.Buffer{}
	}
	b, err := NewBuilder(append([]Option{WithLogger(slog.New(slog.NewTextHandler(buf, nil)))}, opts...)...)
	require.NoError(t, err)
	return b.Build(t.Context())
}

func TestBuildEntity(t *testing.T) {
	s, err := build(t, nil, WithSource(staticSource(t, widgetCard)))
	require.NoError(t, err)

	widget, err := s.Type("WidgetV1_0_0")
	require.NoError(t, err)
	assert.Equal(t, graph.Object, widget.Kind)
	assert.Equal(t, "A thing with a title.", widget.Description)

	card, err := s.Type(CardInterface)
	require.NoError(t, err)
	node, err := s.Type(NodeInterface)
	require.NoError(t, err)
	assert.True(t, widget.Implements(card))
	assert.True(t, widget.Implements(node))

	t.Run("data properties", func(t *testing.T) {
		title := widget.Field("title")
		require.NotNil(t, title)
		assert.Equal(t, "String!", title.Type.String())
		assert.Equal(t, "data.title", title.Source)

		status := widget.Field("status")
		require.NotNil(t, status)
		assert.Equal(t, "WidgetV1_0_0Status", status.Type.String())
		var names []string
		for _, v := range status.Type.Values {
			names = append(names, v.Name)
		}
		assert.Equal(t, []string{"OPEN", "IN_PROGRESS", "OPTION_30M"}, names)

		assert.Equal(t, EmailScalar, widget.Field("contact").Type.String())
		assert.Equal(t, "WidgetV1_0_0Data", widget.Field("data").Type.String())
	})

	t.Run("override fields", func(t *testing.T) {
		for name, typ := range map[string]string{
			"id":       "ID!",
			"slug":     "Slug!",
			"type":     "String!",
			"version":  "SemanticVersion!",
			"links":    "[Link!]!",
			"linkedAt": "[LinkTimestamp!]!",
		} {
			f := widget.Field(name)
			require.NotNil(t, f, name)
			assert.Equal(t, typ, f.Type.String(), name)
		}
	})

	t.Run("every card field is implemented", func(t *testing.T) {
		for _, f := range card.Fields() {
			impl := widget.Field(f.Name)
			require.NotNil(t, impl, f.Name)
			assert.True(t, f.Type.SameAs(impl.Type), f.Name)
		}
	})

	t.Run("link refers to cards", func(t *testing.T) {
		link, err := s.Type(LinkObject)
		require.NoError(t, err)
		assert.Equal(t, "[Card!]!", link.Field("cards").Type.String())
	})

	t.Run("resolvers", func(t *testing.T) {
		record := map[string]any{
			"slug":       "my-widget",
			"created_at": "2024-01-02T03:04:05Z",
			"data":       map[string]any{"title": "Hello"},
			"links": map[string]any{
				"is owned by": []any{"u1"},
				"has":         []any{"c1", "c2"},
			},
		}
		ctx := t.Context()

		v, err := s.Resolve(ctx, "WidgetV1_0_0", "title", record)
		require.NoError(t, err)
		assert.Equal(t, "Hello", v)

		v, err = s.Resolve(ctx, "WidgetV1_0_0", "createdAt", record)
		require.NoError(t, err)
		assert.Equal(t, "2024-01-02T03:04:05Z", v)

		v, err = s.Resolve(ctx, "WidgetV1_0_0", "links", record)
		require.NoError(t, err)
		assert.Equal(t, []any{
			map[string]any{"verb": "has", "cards": []any{"c1", "c2"}},
			map[string]any{"verb": "is owned by", "cards": []any{"u1"}},
		}, v)

		v, err = s.Resolve(ctx, "WidgetV1_0_0", "linkedAt", record)
		require.NoError(t, err)
		assert.Equal(t, []any{}, v)
	})
}

func TestBuildQuery(t *testing.T) {
	s, err := build(t, nil, WithSource(staticSource(t, widgetCard, gadgetCard)))
	require.NoError(t, err)
	require.NotNil(t, s.Query)
	assert.Equal(t, QueryType, s.Query.Name)

	var names []string
	for _, f := range s.Query.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"card", "cardBySlug", "cards", "widgetV1_0_0", "gadgetV2_0_0"}, names)

	assert.Equal(t, "Card", s.Query.Field("card").Type.String())
	assert.Equal(t, "ID!", s.Query.Field("card").Args[0].Type.String())
	assert.Equal(t, "CardConnection!", s.Query.Field("cards").Type.String())
	assert.Equal(t, "WidgetV1_0_0Connection!", s.Query.Field("widgetV1_0_0").Type.String())

	conn, err := s.Type("GadgetV2_0_0Connection")
	require.NoError(t, err)
	assert.Equal(t, "[GadgetV2_0_0Edge!]!", conn.Field("edges").Type.String())
	assert.Equal(t, "PageInfo!", conn.Field("pageInfo").Type.String())

	gadget, err := s.Type("GadgetV2_0_0")
	require.NoError(t, err)
	assert.Equal(t, "UUID", gadget.Field("serial").Type.String())

	card, _ := s.Type(CardInterface)
	var impls []string
	for _, typ := range s.Implementors(card) {
		impls = append(impls, typ.Name)
	}
	assert.Equal(t, []string{"WidgetV1_0_0", "GadgetV2_0_0"}, impls)
}

func TestBuildValidates(t *testing.T) {
	s, err := build(t, nil, WithSource(staticSource(t, widgetCard, gadgetCard)))
	require.NoError(t, err)

	out, err := s.Validate()
	require.NoError(t, err, s.SDL())

	widget := out.Types["WidgetV1_0_0"]
	require.NotNil(t, widget)
	assert.ElementsMatch(t, []string{"Node", "Card"}, widget.Interfaces)
	assert.Equal(t, "String!", widget.Fields.ForName("title").Type.String())
	assert.NotNil(t, out.Types["Card"])
	assert.NotNil(t, out.Query.Fields.ForName("gadgetV2_0_0"))
}

func TestBuildWithoutSource(t *testing.T) {
	s, err := build(t, nil)
	require.NoError(t, err)

	var names []string
	for _, f := range s.Query.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"card", "cardBySlug", "cards"}, names)
	_, err = s.Validate()
	assert.NoError(t, err)
}

func TestBuildSourceFailure(t *testing.T) {
	var buf bytes.Buffer
	src := SourceFunc(func(context.Context) ([]*schema.Fragment, error) {
		return nil, errors.New("store unavailable")
	})
	s, err := build(t, &buf, WithSource(src))
	require.NoError(t, err)

	assert.Len(t, s.Query.Fields(), 3)
	assert.Contains(t, buf.String(), "retrieving entity schemas failed")
	assert.Contains(t, buf.String(), "store unavailable")
}

func TestBuildDuplicateEntity(t *testing.T) {
	_, err := build(t, nil, WithSource(staticSource(t, widgetCard, widgetCard)))
	require.Error(t, err)
	assert.True(t, IsDuplicateType(err))
	assert.ErrorIs(t, err, ErrDuplicateType)
}

func TestBuildTitledTypes(t *testing.T) {
	ticket := `{"slug":"ticket","version":"1.0.0","data":{"schema":{"type":"object","properties":{
		"status":{"title":"Status","enum":["open","closed"]},
		"address":{"title":"Address","type":"object","properties":{"street":{"type":"string"}}}}}}}`
	order := `{"slug":"order","version":"1.0.0","data":{"schema":{"type":"object","properties":{
		"status":{"title":"Status","enum":["pending","shipped"]}}}}}`
	ship := `{"slug":"ship","version":"1.0.0","data":{"schema":{"type":"object","properties":{
		"address":{"title":"Address","type":"object","properties":{"port":{"type":"string"}}}}}}}`

	s, err := build(t, nil, WithSource(staticSource(t, ticket, order, ship)))
	require.NoError(t, err)
	_, err = s.Validate()
	require.NoError(t, err, s.SDL())

	tests := []struct {
		entity, field, typ, member string
	}{
		{"TicketV1_0_0", "status", "TicketV1_0_0Status", ""},
		{"OrderV1_0_0", "status", "OrderV1_0_0Status", ""},
		{"TicketV1_0_0", "address", "TicketV1_0_0Address", "street"},
		{"ShipV1_0_0", "address", "ShipV1_0_0Address", "port"},
	}
	for _, tt := range tests {
		entity, err := s.Type(tt.entity)
		require.NoError(t, err)
		typ := entity.Field(tt.field).Type
		assert.Equal(t, tt.typ, typ.String())
		if tt.member != "" {
			assert.NotNil(t, typ.Field(tt.member), tt.typ)
		}
	}
	status, _ := s.Type("OrderV1_0_0Status")
	require.Len(t, status.Values, 2)
	assert.Equal(t, "PENDING", status.Values[0].Name)
	_, err = s.Type("Status")
	assert.Error(t, err)
}

func TestBuildConnectionNames(t *testing.T) {
	doc := `{"slug":"graph","version":"1.0.0","data":{"schema":{"type":"object","properties":{
		"connection":{"type":"object","properties":{"host":{"type":"string"}}},
		"edge":{"type":"object","properties":{"weight":{"type":"number"}}}}}}}`
	s, err := build(t, nil, WithSource(staticSource(t, doc)))
	require.NoError(t, err)
	_, err = s.Validate()
	require.NoError(t, err, s.SDL())

	graphType, err := s.Type("GraphV1_0_0")
	require.NoError(t, err)
	assert.Equal(t, "GraphV1_0_0Connection", graphType.Field("connection").Type.String())
	assert.Equal(t, "GraphV1_0_0Edge", graphType.Field("edge").Type.String())

	assert.Equal(t, "GraphV1_0_0Connection2!", s.Query.Field("graphV1_0_0").Type.String())
	conn, err := s.Type("GraphV1_0_0Connection2")
	require.NoError(t, err)
	assert.Equal(t, "[GraphV1_0_0Edge2!]!", conn.Field("edges").Type.String())
}

func TestBuildReusable(t *testing.T) {
	b, err := NewBuilder(WithLogger(slog.New(slog.DiscardHandler)), WithSource(staticSource(t, widgetCard)))
	require.NoError(t, err)

	first, err := b.Build(t.Context())
	require.NoError(t, err)
	second, err := b.Build(t.Context())
	require.NoError(t, err)

	a, _ := first.Type("WidgetV1_0_0")
	c, _ := second.Type("WidgetV1_0_0")
	assert.NotSame(t, a, c)
	assert.Equal(t, first.SDL(), second.SDL())
}

func TestBuildCustomMatcher(t *testing.T) {
	phone := &Matcher{
		Name:   "phone",
		Weight: FormatWeight,
		Match:  func(m *Match) bool { return m.Fragment.Format() == "phone" },
		Process: func(m *Match, _ []*graph.Type) (*graph.Type, error) {
			if p, ok := m.GetType("Phone"); ok {
				return p, nil
			}
			p := graph.NewScalar("Phone", "")
			return p, m.RegisterType("Phone", p)
		},
	}
	doc := `{"slug":"contact","version":"1.0.0","data":{"schema":{"type":"object","properties":{"mobile":{"type":"string","format":"phone"},"home":{"type":"string","format":"phone"}}}}}`
	s, err := build(t, nil, WithMatchers(phone), WithSource(staticSource(t, doc)))
	require.NoError(t, err)

	typ, err := s.Type("ContactV1_0_0")
	require.NoError(t, err)
	assert.Equal(t, "Phone", typ.Field("mobile").Type.String())
	assert.Equal(t, "Phone", typ.Field("home").Type.String())
}
