package gen

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/cardgraph/graph"
	"github.com/syssam/cardgraph/schema"
)

// Weights of the built-in matchers. The others use DefaultWeight.
const (
	EntityWeight = 1000
	SlugWeight   = 300
	FormatWeight = 200
	StringWeight = 50
)

// DefaultMatchers returns the built-in matcher catalog in declaration
// order. Among matchers of equal weight, the one declared first wins.
func DefaultMatchers() []*Matcher {
	return []*Matcher{
		entityRoot,
		entityInterface,
		literalFalse,
		emptyObject,
		emptyArray,
		enumMatcher,
		constMatcher,
		typeArrayOfStrings,
		typeObject,
		typeArray,
		anyOf,
		oneOf,
		slugMatcher,
		formatMatcher("email", EmailScalar, func(f *schema.Fragment) bool {
			return f.Format() == "email" || f.Format() == "idn-email"
		}),
		formatMatcher("date-time", DateTimeScalar, func(f *schema.Fragment) bool {
			return f.Format() == "date-time"
		}),
		formatMatcher("uuid", UUIDScalar, func(f *schema.Fragment) bool {
			return f.Format() == "uuid"
		}),
		formatMatcher("markdown", MarkdownScalar, func(f *schema.Fragment) bool {
			return f.Format() == "markdown" || f.Get("contentMediaType").Text() == "text/markdown"
		}),
		formatMatcher("semantic-version", SemverScalar, func(f *schema.Fragment) bool {
			return f.Format() == "semver" || semverPattern(f.Pattern())
		}),
		scalarMatcher(schema.TypeNumber, graph.Float),
		scalarMatcher(schema.TypeInteger, graph.Int),
		scalarMatcher(schema.TypeBoolean, graph.Boolean),
		{
			Name:    "null",
			Match:   func(m *Match) bool { return m.Fragment.IsType(schema.TypeNull) },
			Process: func(m *Match, _ []*graph.Type) (*graph.Type, error) { return m.typeOrJSON(NullScalar), nil },
		},
		{
			Name:    "string",
			Weight:  StringWeight,
			Match:   func(m *Match) bool { return m.Fragment.IsType(schema.TypeString) },
			Process: func(*Match, []*graph.Type) (*graph.Type, error) { return graph.String, nil },
		},
	}
}

// literalFalse drops `false` schemas, which no value satisfies.
var literalFalse = &Matcher{
	Name:    "literal-false",
	Match:   func(m *Match) bool { return m.Fragment.IsFalse() },
	Process: func(*Match, []*graph.Type) (*graph.Type, error) { return nil, nil },
}

// emptyObject maps schemas without structure to JSON: `true`, `{}`, and
// objects without properties.
var emptyObject = &Matcher{
	Name: "empty-object",
	Match: func(m *Match) bool {
		f := m.Fragment
		switch {
		case f.IsTrue():
			return true
		case f.IsType(schema.TypeObject):
			return len(f.Properties()) == 0
		default:
			return f.IsObject() && !f.Composite()
		}
	},
	Process: anyJSON,
}

// emptyArray maps arrays without an item schema to JSON.
var emptyArray = &Matcher{
	Name: "empty-array",
	Match: func(m *Match) bool {
		items := m.Fragment.Get(schema.KeywordItems)
		return m.Fragment.IsType(schema.TypeArray) && !(items.IsObject() && items.Len() > 0)
	},
	Process: anyJSON,
}

func anyJSON(m *Match, _ []*graph.Type) (*graph.Type, error) {
	return m.typeOrJSON(JSONScalar), nil
}

var typeArray = &Matcher{
	Name: "type-array",
	Match: func(m *Match) bool {
		items := m.Fragment.Get(schema.KeywordItems)
		return m.Fragment.IsType(schema.TypeArray) && items.IsObject() && items.Len() > 0
	},
	Children: func(m *Match) []*schema.Fragment {
		return []*schema.Fragment{m.Fragment.Get(schema.KeywordItems)}
	},
	Process: func(_ *Match, results []*graph.Type) (*graph.Type, error) {
		if len(results) != 1 || results[0] == nil {
			return nil, nil
		}
		return graph.ListOf(graph.NonNullOf(results[0])), nil
	},
}

// typeArrayOfStrings rewrites `type: [a, b]` into an any-of with one branch
// per type, each keeping the other keywords of the fragment.
var typeArrayOfStrings = &Matcher{
	Name: "type-array-of-strings",
	Match: func(m *Match) bool {
		_, ok := m.Fragment.TypeNames()
		return ok
	},
	Children: func(m *Match) []*schema.Fragment {
		names, _ := m.Fragment.TypeNames()
		branches := make([]*schema.Fragment, len(names))
		for i, name := range names {
			branches[i] = m.Fragment.With(schema.KeywordType, schema.StringValue(name))
		}
		return []*schema.Fragment{schema.ObjectOf(schema.M(schema.KeywordAnyOf, schema.ArrayOf(branches...)))}
	},
	Process: func(_ *Match, results []*graph.Type) (*graph.Type, error) {
		if len(results) != 1 {
			return nil, nil
		}
		return results[0], nil
	},
}

var (
	anyOf = unionMatcher("any-of", schema.KeywordAnyOf)
	oneOf = unionMatcher("one-of", schema.KeywordOneOf)
)

// unionMatcher compiles the branches of keyword and collapses them: null
// branches are dropped and equal types merged. A single remaining type is
// returned as is, several objects become a Union, anything else is JSON.
func unionMatcher(name, keyword string) *Matcher {
	return &Matcher{
		Name: name,
		Match: func(m *Match) bool {
			return m.Fragment.Get(keyword).IsArray() && m.Fragment.Get(keyword).Len() > 0
		},
		Naming: Namer("Union"),
		Children: func(m *Match) []*schema.Fragment {
			branches := m.Fragment.Get(keyword).Items()
			if variants(branches) > 1 {
				m.reserve(m.TypeName())
				m.reserving = true
			}
			return branches
		},
		Process: func(m *Match, results []*graph.Type) (*graph.Type, error) {
			if m.reserving {
				m.release(m.TypeName())
			}
			null, _ := m.GetType(NullScalar)
			var types []*graph.Type
			for _, t := range results {
				if t == nil || t == null || slices.ContainsFunc(types, t.SameAs) {
					continue
				}
				types = append(types, t)
			}
			switch len(types) {
			case 0:
				return nil, nil
			case 1:
				return types[0], nil
			}
			for _, t := range types {
				if t.Kind != graph.Object {
					return m.typeOrJSON(JSONScalar), nil
				}
			}
			u := graph.NewUnion(m.TypeName(), types...)
			u.Description = m.Fragment.Description()
			return m.Register(u, func(o *graph.Type) bool {
				return slices.EqualFunc(o.Members, types, (*graph.Type).SameAs)
			})
		},
	}
}

// variants counts the branches that are neither false nor null.
func variants(branches []*schema.Fragment) int {
	var n int
	for _, b := range branches {
		if !b.IsFalse() && !b.IsType(schema.TypeNull) {
			n++
		}
	}
	return n
}

// enumMatcher compiles `enum` into an Enum whose values keep the literals.
var enumMatcher = &Matcher{
	Name: "enum",
	Match: func(m *Match) bool {
		return m.Fragment.Get(schema.KeywordEnum).Len() > 0 && m.Fragment.Get(schema.KeywordEnum).IsArray()
	},
	Naming: Namer("Enum"),
	Process: func(m *Match, _ []*graph.Type) (*graph.Type, error) {
		var (
			values  []*graph.EnumValue
			seen    = make(map[string]bool)
			literal []*schema.Fragment
		)
		for _, v := range m.Fragment.Get(schema.KeywordEnum).Items() {
			if slices.ContainsFunc(literal, v.Equal) {
				continue
			}
			literal = append(literal, v)
			base := enumName(v)
			name := base
			for i := 2; seen[name]; i++ {
				name = base + "_" + strconv.Itoa(i)
			}
			seen[name] = true
			values = append(values, &graph.EnumValue{Name: name, Value: v.Interface()})
		}
		t := graph.NewEnum(m.TypeName(), values...)
		t.Description = m.Fragment.Description()
		return m.Register(t, func(o *graph.Type) bool {
			return sameValues(o.Values, values)
		})
	},
}

func sameValues(a, b []*graph.EnumValue) bool {
	return slices.EqualFunc(a, b, func(x, y *graph.EnumValue) bool {
		return x.Name == y.Name && reflect.DeepEqual(x.Value, y.Value)
	})
}

// constMatcher compiles `const` into the scalar of the literal.
var constMatcher = &Matcher{
	Name:  "const",
	Match: func(m *Match) bool { return m.Fragment.Has(schema.KeywordConst) },
	Process: func(m *Match, _ []*graph.Type) (*graph.Type, error) {
		v := m.Fragment.Get(schema.KeywordConst)
		switch v.Kind() {
		case schema.String:
			return graph.String, nil
		case schema.Bool:
			return graph.Boolean, nil
		case schema.Number:
			if strings.ContainsAny(v.Text(), ".eE") {
				return graph.Float, nil
			}
			return graph.Int, nil
		case schema.Null:
			return m.typeOrJSON(NullScalar), nil
		default:
			return m.typeOrJSON(JSONScalar), nil
		}
	},
}

func scalarMatcher(typ string, t *graph.Type) *Matcher {
	return &Matcher{
		Name:    typ,
		Match:   func(m *Match) bool { return m.Fragment.IsType(typ) },
		Process: func(*Match, []*graph.Type) (*graph.Type, error) { return t, nil },
	}
}

// formatMatcher returns the named scalar for string schemas accepted by
// pred, arrays of them, and any-of/one-of combinations of the two.
func formatMatcher(name, scalar string, pred func(*schema.Fragment) bool) *Matcher {
	return &Matcher{
		Name:    name,
		Weight:  FormatWeight,
		Match:   func(m *Match) bool { return stringLike(m.Fragment, pred) },
		Process: func(m *Match, _ []*graph.Type) (*graph.Type, error) { return m.typeOrJSON(scalar), nil },
	}
}

// slugMatcher recognizes slugs by the enclosing property name or by the
// slug pattern.
var slugMatcher = &Matcher{
	Name:   "slug",
	Weight: SlugWeight,
	Match: func(m *Match) bool {
		if name, ok := m.PeekName(); ok && name == "slug" && m.Depth > 0 {
			f := m.Fragment
			if !f.IsType(schema.TypeObject) && !f.IsType(schema.TypeArray) && !f.IsFalse() {
				return true
			}
		}
		return stringLike(m.Fragment, func(f *schema.Fragment) bool {
			return slugPattern(f.Pattern())
		})
	},
	Process: func(m *Match, _ []*graph.Type) (*graph.Type, error) { return m.typeOrJSON(SlugScalar), nil },
}

func stringLike(f *schema.Fragment, pred func(*schema.Fragment) bool) bool {
	switch {
	case f.IsType(schema.TypeString):
		return pred(f)
	case f.IsType(schema.TypeArray):
		items := f.Get(schema.KeywordItems)
		return items.IsType(schema.TypeString) && pred(items)
	}
	if names, ok := f.TypeNames(); ok {
		return slices.Contains(names, schema.TypeString) &&
			!slices.ContainsFunc(names, func(n string) bool { return n != schema.TypeString && n != schema.TypeNull }) &&
			pred(f)
	}
	for _, k := range []string{schema.KeywordAnyOf, schema.KeywordOneOf} {
		branches := f.Get(k).Items()
		if len(branches) == 0 {
			continue
		}
		var matched bool
		for _, b := range branches {
			switch {
			case stringLike(b, pred):
				matched = true
			case !b.IsType(schema.TypeNull):
				return false
			}
		}
		return matched
	}
	return false
}

func slugPattern(p string) bool {
	return strings.Contains(p, "[a-z0-9-]") || strings.Contains(p, `[a-z0-9\-]`)
}

func semverPattern(p string) bool {
	return strings.Contains(p, `\d+\.\d+\.\d+`) || strings.Contains(p, `(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)`)
}
