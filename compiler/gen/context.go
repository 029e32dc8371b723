package gen

import (
	"log/slog"
	"strconv"

	"github.com/syssam/cardgraph/graph"
	"github.com/syssam/cardgraph/schema"
)

type (
	// Context is the state of one compilation run: the type registry, the
	// name stack and the anonymous name counters. A Context is not safe for
	// concurrent use; concurrent runs use one Context each.
	Context struct {
		config   *Config
		log      *slog.Logger
		slots    map[string]*slot
		order    []string
		names    []string
		counters map[string]int
		reserved map[string]int
	}

	// slot is a registry entry. It is Pending while factory is set and
	// Ready once typ is.
	slot struct {
		typ      *graph.Type
		factory  func() *graph.Type
		building bool
	}
)

// NewContext returns an empty Context for the given config.
func NewContext(c *Config) *Context {
	log := c.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Context{
		config:   c,
		log:      log,
		slots:    make(map[string]*slot),
		counters: make(map[string]int),
		reserved: make(map[string]int),
	}
}

// Config returns the configuration of the run.
func (c *Context) Config() *Config { return c.config }

// Logger returns the logger of the run.
func (c *Context) Logger() *slog.Logger { return c.log }

// GetType returns the type registered under name. A pending slot is
// materialized on first access and memoized.
func (c *Context) GetType(name string) (*graph.Type, bool) {
	s, ok := c.slots[name]
	if !ok {
		return nil, false
	}
	if s.typ == nil && s.factory != nil && !s.building {
		s.building = true
		s.typ = s.factory()
		s.factory = nil
		s.building = false
	}
	return s.typ, s.typ != nil
}

// HasType reports whether a slot exists for name, pending or ready.
func (c *Context) HasType(name string) bool {
	_, ok := c.slots[name]
	return ok
}

// RegisterType registers a ready type. Registering a name twice is a
// DuplicateTypeError.
func (c *Context) RegisterType(name string, t *graph.Type) error {
	if err := c.claim(name, t.Kind); err != nil {
		return err
	}
	c.slots[name] = &slot{typ: t}
	return nil
}

// RegisterFactory registers a pending type, built by f on first access.
func (c *Context) RegisterFactory(name string, f func() *graph.Type) error {
	if err := c.claim(name, 0); err != nil {
		return err
	}
	c.slots[name] = &slot{factory: f}
	return nil
}

func (c *Context) claim(name string, kind graph.Kind) error {
	if s, ok := c.slots[name]; ok {
		err := &DuplicateTypeError{Name: name, Incoming: kind}
		if s.typ != nil {
			err.Existing = s.typ.Kind
		}
		return err
	}
	c.order = append(c.order, name)
	return nil
}

// Types returns the registered types in registration order, materializing
// pending slots.
func (c *Context) Types() []*graph.Type {
	types := make([]*graph.Type, 0, len(c.order))
	for _, name := range c.order {
		if t, ok := c.GetType(name); ok {
			types = append(types, t)
		}
	}
	return types
}

// PushName pushes a path segment onto the name stack.
func (c *Context) PushName(name string) { c.names = append(c.names, name) }

// PopName pops the top of the name stack.
func (c *Context) PopName() string {
	if len(c.names) == 0 {
		return ""
	}
	name := c.names[len(c.names)-1]
	c.names = c.names[:len(c.names)-1]
	return name
}

// PeekName returns the top of the name stack, the name of the enclosing
// property.
func (c *Context) PeekName() (string, bool) {
	if len(c.names) == 0 {
		return "", false
	}
	return c.names[len(c.names)-1], true
}

// Names returns a copy of the name stack, bottom first.
func (c *Context) Names() []string {
	return append([]string(nil), c.names...)
}

// AnonymousName returns the next name for an unnamed type of the given
// kind, e.g. AnonymousObjectType1.
func (c *Context) AnonymousName(kind string) string {
	name := c.nextAnonymousName(kind)
	c.counters[kind]++
	return name
}

func (c *Context) nextAnonymousName(kind string) string {
	return "Anonymous" + kind + "Type" + strconv.Itoa(c.counters[kind]+1)
}

// reserve keeps derived names off name until release.
func (c *Context) reserve(name string) { c.reserved[name]++ }

func (c *Context) release(name string) {
	if c.reserved[name]--; c.reserved[name] <= 0 {
		delete(c.reserved, name)
	}
}

// typeOrJSON returns the named type, or the JSON scalar when no such type
// is registered.
func (c *Context) typeOrJSON(name string) *graph.Type {
	if t, ok := c.GetType(name); ok {
		return t
	}
	t, _ := c.GetType(JSONScalar)
	return t
}

// Visit compiles a fragment into a type. It selects the heaviest matching
// matcher, compiles its children depth first, then lets the matcher process
// their results. A nil type means the fragment contributes nothing. The only
// error is a fatal registration conflict.
func (c *Context) Visit(f *schema.Fragment, depth int) (*graph.Type, error) {
	m := c.match(f, depth)
	if m == nil {
		c.log.Warn("no matcher for schema fragment", "path", c.Names(), "depth", depth)
		return nil, nil
	}
	c.log.Debug("schema fragment matched", "matcher", m.Matcher.Name, "path", c.Names(), "depth", depth)
	if depth == 0 && m.Matcher.Naming != nil {
		c.PushName(m.TypeName())
		defer c.PopName()
	}
	var children []*schema.Fragment
	if m.Matcher.Children != nil {
		children = m.Matcher.Children(m)
	}
	results := make([]*graph.Type, len(children))
	for i, child := range children {
		var (
			name   string
			pushed bool
		)
		if m.Matcher.ChildName != nil {
			name, pushed = m.Matcher.ChildName(m, i)
		}
		if pushed {
			c.PushName(name)
		}
		t, err := c.Visit(child, depth+1)
		if pushed {
			c.PopName()
		}
		if err != nil {
			return nil, err
		}
		results[i] = t
	}
	return m.Matcher.Process(m, results)
}

// match binds every catalog entry to the fragment and returns the heaviest
// one that accepts it. Ties go to the entry declared first.
func (c *Context) match(f *schema.Fragment, depth int) *Match {
	var best *Match
	for _, mt := range c.config.Matchers {
		m := &Match{Context: c, Matcher: mt, Fragment: f, Depth: depth}
		if !mt.Match(m) {
			continue
		}
		if best == nil || mt.weight() > best.Matcher.weight() {
			best = m
		}
	}
	return best
}
