package gen

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/cardgraph/graph"
	"github.com/syssam/cardgraph/schema"
)

// newTestContext returns a seeded Context logging into buf.
func newTestContext(t *testing.T, buf *bytes.Buffer, opts ...Option) *Context {
	t.Helper()
	if buf == nil {
		buf = &bytes.Buffer{}
	}
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(buf, nil)))}, opts...)
	c := NewContext(MustNewConfig(opts...))
	require.NoError(t, seed(c))
	return c
}

func TestContextRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		c := NewContext(MustNewConfig())
		widget := graph.NewObject("Widget")
		require.NoError(t, c.RegisterType("Widget", widget))

		got, ok := c.GetType("Widget")
		require.True(t, ok)
		assert.Same(t, widget, got)

		_, ok = c.GetType("Gadget")
		assert.False(t, ok)
	})

	t.Run("duplicate registration is fatal", func(t *testing.T) {
		c := NewContext(MustNewConfig())
		require.NoError(t, c.RegisterType("Widget", graph.NewObject("Widget")))

		err := c.RegisterType("Widget", graph.NewEnum("Widget"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateType)
		var dup *DuplicateTypeError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, graph.Object, dup.Existing)
		assert.Equal(t, graph.Enum, dup.Incoming)

		assert.Error(t, c.RegisterFactory("Widget", func() *graph.Type { return nil }))
	})

	t.Run("factory is materialized once", func(t *testing.T) {
		c := NewContext(MustNewConfig())
		var calls int
		require.NoError(t, c.RegisterFactory("Lazy", func() *graph.Type {
			calls++
			return graph.NewObject("Lazy")
		}))
		assert.True(t, c.HasType("Lazy"))
		assert.Zero(t, calls)

		first, ok := c.GetType("Lazy")
		require.True(t, ok)
		second, _ := c.GetType("Lazy")
		assert.Same(t, first, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("forward reference through factory", func(t *testing.T) {
		c := NewContext(MustNewConfig())
		require.NoError(t, c.RegisterFactory("Pair", func() *graph.Type {
			return graph.NewObjectThunk("Pair", func() []*graph.Field {
				other, _ := c.GetType("Other")
				return []*graph.Field{{Name: "other", Type: other}}
			})
		}))
		pair, ok := c.GetType("Pair")
		require.True(t, ok)
		other := graph.NewObject("Other")
		require.NoError(t, c.RegisterType("Other", other))
		assert.Same(t, other, pair.Field("other").Type)
	})

	t.Run("types keep registration order", func(t *testing.T) {
		c := NewContext(MustNewConfig())
		require.NoError(t, c.RegisterType("B", graph.NewObject("B")))
		require.NoError(t, c.RegisterFactory("A", func() *graph.Type { return graph.NewObject("A") }))
		require.NoError(t, c.RegisterType("C", graph.NewObject("C")))

		var names []string
		for _, typ := range c.Types() {
			names = append(names, typ.Name)
		}
		assert.Equal(t, []string{"B", "A", "C"}, names)
	})
}

func TestContextNames(t *testing.T) {
	c := NewContext(MustNewConfig())
	_, ok := c.PeekName()
	assert.False(t, ok)
	assert.Equal(t, "", c.PopName())

	c.PushName("WidgetV1_0_0")
	c.PushName("slug")
	top, ok := c.PeekName()
	require.True(t, ok)
	assert.Equal(t, "slug", top)
	assert.Equal(t, []string{"WidgetV1_0_0", "slug"}, c.Names())

	assert.Equal(t, "slug", c.PopName())
	assert.Equal(t, []string{"WidgetV1_0_0"}, c.Names())
}

func TestContextAnonymousName(t *testing.T) {
	c := NewContext(MustNewConfig())
	assert.Equal(t, "AnonymousObjectType1", c.AnonymousName("Object"))
	assert.Equal(t, "AnonymousObjectType2", c.AnonymousName("Object"))
	assert.Equal(t, "AnonymousUnionType1", c.AnonymousName("Union"))
}

func TestVisitSelection(t *testing.T) {
	always := func(*Match) bool { return true }
	returns := func(t *graph.Type) func(*Match, []*graph.Type) (*graph.Type, error) {
		return func(*Match, []*graph.Type) (*graph.Type, error) { return t, nil }
	}
	a, b := graph.NewScalar("A", ""), graph.NewScalar("B", "")

	t.Run("heaviest wins regardless of order", func(t *testing.T) {
		cfg := &Config{Matchers: []*Matcher{
			{Name: "light", Weight: 10, Match: always, Process: returns(a)},
			{Name: "heavy", Weight: 500, Match: always, Process: returns(b)},
		}}
		got, err := NewContext(cfg).Visit(schema.StringValue("x"), 0)
		require.NoError(t, err)
		assert.Same(t, b, got)
	})

	t.Run("ties go to the first declared", func(t *testing.T) {
		cfg := &Config{Matchers: []*Matcher{
			{Name: "first", Match: always, Process: returns(a)},
			{Name: "second", Weight: DefaultWeight, Match: always, Process: returns(b)},
		}}
		got, err := NewContext(cfg).Visit(schema.StringValue("x"), 0)
		require.NoError(t, err)
		assert.Same(t, a, got)
	})

	t.Run("unclassifiable fragment is dropped and logged", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &Config{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
		got, err := NewContext(cfg).Visit(schema.StringValue("x"), 0)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Contains(t, buf.String(), "no matcher for schema fragment")
	})

	t.Run("children see their names and the root name", func(t *testing.T) {
		var seen [][]string
		leaf := &Matcher{
			Name:  "leaf",
			Match: func(m *Match) bool { return m.Depth > 0 },
			Process: func(m *Match, _ []*graph.Type) (*graph.Type, error) {
				seen = append(seen, m.Names())
				return a, nil
			},
		}
		root := &Matcher{
			Name:   "root",
			Match:  func(m *Match) bool { return m.Depth == 0 },
			Naming: func(*Match) string { return "Root" },
			Children: func(*Match) []*schema.Fragment {
				return []*schema.Fragment{schema.StringValue("x"), schema.StringValue("y")}
			},
			ChildName: func(_ *Match, i int) (string, bool) { return "child", i == 0 },
			Process: func(m *Match, results []*graph.Type) (*graph.Type, error) {
				assert.Equal(t, []*graph.Type{a, a}, results)
				assert.Equal(t, []string{"Root"}, m.Names())
				return b, nil
			},
		}
		c := NewContext(&Config{Matchers: []*Matcher{root, leaf}})
		got, err := c.Visit(schema.StringValue("r"), 0)
		require.NoError(t, err)
		assert.Same(t, b, got)
		assert.Equal(t, [][]string{{"Root", "child"}, {"Root"}}, seen)
		assert.Empty(t, c.Names())
	})
}
