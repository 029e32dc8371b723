package gen

import (
	"strconv"
	"unicode"

	"github.com/syssam/cardgraph/graph"
	"github.com/syssam/cardgraph/schema"
)

// DefaultWeight is the weight of a matcher that does not set one.
const DefaultWeight = 100

type (
	// Matcher is one entry of the matcher catalog. It classifies schema
	// fragments and builds the type of the fragments it accepts.
	Matcher struct {
		// Name identifies the matcher in diagnostics.
		Name string
		// Weight orders matchers accepting the same fragment; the heaviest
		// wins. Zero means DefaultWeight.
		Weight int
		// Match reports whether the matcher accepts the fragment.
		Match func(m *Match) bool
		// Children returns the fragments compiled before Process runs.
		Children func(m *Match) []*schema.Fragment
		// ChildName returns the name segment pushed while compiling the
		// i-th child, if any.
		ChildName func(m *Match, i int) (string, bool)
		// Naming computes the name of the type built by the matcher. A
		// root fragment with a Naming matcher pushes its name before its
		// children are compiled.
		Naming func(m *Match) string
		// Process builds the type from the child results. A nil type means
		// the fragment contributes nothing.
		Process func(m *Match, results []*graph.Type) (*graph.Type, error)
	}

	// Match binds a matcher to one fragment at one depth.
	Match struct {
		*Context
		Matcher  *Matcher
		Fragment *schema.Fragment
		Depth    int

		name      string
		anonymous string
		reserving bool
		schema    *schema.Fragment
		plan    []schema.Member
		hoisted map[string]bool
	}
)

func (mt *Matcher) weight() int {
	if mt.Weight == 0 {
		return DefaultWeight
	}
	return mt.Weight
}

// TypeName returns the name of the type built for the fragment, computed
// once per match.
func (m *Match) TypeName() string {
	if m.name == "" && m.Matcher.Naming != nil {
		m.name = m.Matcher.Naming(m)
	}
	return m.name
}

// derivedName names a type after the name stack, or else after the next
// anonymous counter value of the given kind. The counter advances only
// when the type is registered.
func (m *Match) derivedName(kind string) string {
	if name := pathName(m.Names()); name != "" {
		return name
	}
	m.anonymous = kind
	return m.nextAnonymousName(kind)
}

// Register registers t under the type name of the fragment and returns
// it. A registered type of the same kind accepted by same is returned
// instead. When the name is held by another type, or reserved by an
// enclosing union, t takes the first free numbered name: WidgetOwner2,
// AnonymousObjectType1_2.
func (m *Match) Register(t *graph.Type, same func(*graph.Type) bool) (*graph.Type, error) {
	base := m.TypeName()
	for i := 1; ; i++ {
		name := numbered(base, i)
		if m.reserved[name] > 0 {
			continue
		}
		if !m.HasType(name) {
			t.Name = name
			if err := m.RegisterType(name, t); err != nil {
				return nil, err
			}
			if m.anonymous != "" {
				m.counters[m.anonymous]++
			}
			return t, nil
		}
		if existing, ok := m.GetType(name); ok && existing.Kind == t.Kind && same(existing) {
			return existing, nil
		}
	}
}

func numbered(base string, i int) string {
	switch {
	case i == 1:
		return base
	case base != "" && unicode.IsDigit(rune(base[len(base)-1])):
		return base + "_" + strconv.Itoa(i)
	default:
		return base + strconv.Itoa(i)
	}
}

// Namer returns a Naming function deriving names as the built-in object,
// union and enum matchers do.
func Namer(kind string) func(*Match) string {
	return func(m *Match) string { return m.derivedName(kind) }
}
