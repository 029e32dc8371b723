package gen

import (
	"slices"

	"github.com/syssam/cardgraph/graph"
	"github.com/syssam/cardgraph/schema"
)

// typeObject compiles an object schema with properties into an Object.
// The override table applies to root fragments only.
var typeObject = &Matcher{
	Name: "type-object",
	Match: func(m *Match) bool {
		return m.Fragment.IsType(schema.TypeObject) && len(m.Fragment.Properties()) > 0
	},
	Naming: Namer("Object"),
	Children: func(m *Match) []*schema.Fragment {
		return m.children(m.Fragment, m.Depth == 0)
	},
	ChildName: planName,
	Process: func(m *Match, results []*graph.Type) (*graph.Type, error) {
		fields, ok := m.fields(m.Fragment, m.Depth == 0, results)
		if ok && len(fields) == 0 {
			return m.typeOrJSON(JSONScalar), nil
		}
		t := graph.NewObject(m.TypeName(), fields...)
		t.Description = m.Fragment.Description()
		return m.Register(t, func(o *graph.Type) bool {
			return sameFields(o.Fields(), fields)
		})
	},
}

// sameFields reports whether two field lists have the same names and
// types in the same order.
func sameFields(a, b []*graph.Field) bool {
	return slices.EqualFunc(a, b, func(x, y *graph.Field) bool {
		return x.Name == y.Name && x.Type.SameAs(y.Type)
	})
}

// entityInterface compiles the base card schema, less its data property,
// into the Card interface.
var entityInterface = &Matcher{
	Name:   "entity-interface",
	Weight: EntityWeight,
	Match: func(m *Match) bool {
		base := m.config.BaseSchema
		return m.Fragment == base || m.Fragment.Equal(base)
	},
	Naming: func(*Match) string { return CardInterface },
	Children: func(m *Match) []*schema.Fragment {
		m.schema = dropProperty(m.Fragment, schema.KeyData)
		return m.children(m.schema, true)
	},
	ChildName: planName,
	Process: func(m *Match, results []*graph.Type) (*graph.Type, error) {
		fields, _ := m.fields(m.schema, true, results)
		t := graph.NewInterface(m.TypeName(), fields...)
		t.Description = m.Fragment.Description()
		if node, ok := m.GetType(NodeInterface); ok {
			t.Interfaces = []*graph.Type{node}
		}
		if err := m.RegisterType(t.Name, t); err != nil {
			return nil, err
		}
		return t, nil
	},
}

// entityRoot compiles a card envelope into an entity Object named after
// its slug and version. The properties of data.schema are hoisted next to
// the card properties and resolve from the data record.
var entityRoot = &Matcher{
	Name:   "entity-root",
	Weight: EntityWeight,
	Match: func(m *Match) bool {
		return m.Depth == 0 && m.Fragment.IsEnvelope()
	},
	Naming: func(m *Match) string {
		return entityName(m.Fragment.Slug(), m.Fragment.Version())
	},
	Children: func(m *Match) []*schema.Fragment {
		m.schema = m.entitySchema()
		return m.children(m.schema, true)
	},
	ChildName: planName,
	Process: func(m *Match, results []*graph.Type) (*graph.Type, error) {
		fields, _ := m.fields(m.schema, true, results)
		t := graph.NewObject(m.TypeName(), fields...)
		if t.Description = m.Fragment.DataSchema().Description(); t.Description == "" {
			t.Description = m.Fragment.Get("name").Text()
		}
		for _, name := range []string{NodeInterface, CardInterface} {
			if iface, ok := m.GetType(name); ok {
				t.Interfaces = append(t.Interfaces, iface)
			}
		}
		if err := m.RegisterType(t.Name, t); err != nil {
			return nil, err
		}
		return t, nil
	},
}

// entitySchema merges the base card schema, less its data property, with
// the envelope data.schema. Card properties win over data properties of
// the same key.
func (m *Match) entitySchema() *schema.Fragment {
	base := dropProperty(m.config.BaseSchema, schema.KeyData)
	data := m.Fragment.DataSchema()
	props := base.Get(schema.KeywordProperties)
	members := props.Members()
	m.hoisted = make(map[string]bool)
	for _, p := range data.Properties() {
		if props.Has(p.Key) {
			m.log.Warn("entity property shadows a card property", "type", m.TypeName(), "property", p.Key)
			continue
		}
		members = append(members, p)
		m.hoisted[p.Key] = true
	}
	required := base.Required()
	for _, key := range data.Required() {
		if !props.Has(key) && !slices.Contains(required, key) {
			required = append(required, key)
		}
	}
	return schema.ObjectOf(
		schema.M(schema.KeywordType, schema.StringValue(schema.TypeObject)),
		schema.M(schema.KeywordProperties, schema.ObjectOf(members...)),
		schema.M(schema.KeywordRequired, schema.Strings(required...)),
	)
}

// children plans the properties of f compiled as children: all of them,
// less the overridden ones when overrides apply.
func (m *Match) children(f *schema.Fragment, overrides bool) []*schema.Fragment {
	m.plan = m.plan[:0]
	for _, p := range f.Properties() {
		if overrides && m.config.Overrides.Has(p.Key) {
			continue
		}
		m.plan = append(m.plan, p)
	}
	children := make([]*schema.Fragment, len(m.plan))
	for i, p := range m.plan {
		children[i] = p.Value
	}
	return children
}

func planName(m *Match, i int) (string, bool) {
	if i < len(m.plan) {
		return m.plan[i].Key, true
	}
	return "", false
}

// fields builds the fields of f from the compiled children, in property
// order. With overrides, overridden properties take the override field and
// overrides without a property are appended. It reports false when the
// results do not line up with the planned children.
func (m *Match) fields(f *schema.Fragment, overrides bool, results []*graph.Type) ([]*graph.Field, bool) {
	if len(results) != len(m.plan) {
		m.log.Warn("compiled children do not match properties", "type", m.TypeName(), "properties", len(m.plan), "results", len(results))
		return nil, false
	}
	props := f.Get(schema.KeywordProperties)
	required := make(map[string]bool)
	for _, key := range f.Required() {
		if !props.Has(key) && !(overrides && m.config.Overrides.Has(key)) {
			m.log.Warn("required property is not declared", "type", m.TypeName(), "property", key)
			continue
		}
		required[key] = true
	}
	var (
		fields []*graph.Field
		seen   = make(map[string]bool)
		used   = make(map[string]bool)
		next   int
	)
	add := func(key string, fd *graph.Field) {
		if seen[fd.Name] {
			m.log.Warn("property name collides with another field", "type", m.TypeName(), "property", key, "field", fd.Name)
			return
		}
		seen[fd.Name] = true
		fields = append(fields, fd)
	}
	for _, p := range f.Properties() {
		if overrides {
			if o, ok := m.config.Overrides.Lookup(p.Key); ok {
				used[p.Key] = true
				add(p.Key, m.overrideField(o))
				continue
			}
		}
		t := results[next]
		next++
		if t == nil {
			continue
		}
		if required[p.Key] {
			t = graph.NonNullOf(t)
		}
		fd := &graph.Field{Name: fieldName(p.Key), Description: p.Value.Description(), Type: t}
		switch {
		case m.hoisted[p.Key]:
			fd.Source = schema.KeyData + "." + p.Key
			fd.Resolve = graph.Path(schema.KeyData, p.Key)
		case fd.Name != p.Key:
			fd.Source = p.Key
			fd.Resolve = graph.Property(p.Key)
		}
		add(p.Key, fd)
	}
	if overrides {
		for _, o := range m.config.Overrides {
			if !used[o.Key] {
				add(o.Key, m.overrideField(o))
			}
		}
	}
	return fields, true
}

func (m *Match) overrideField(o Override) *graph.Field {
	fd := *o.Field(m.Context)
	if fd.Name == "" {
		fd.Name = o.Key
	}
	if name := fieldName(fd.Name); name != fd.Name {
		if fd.Source == "" {
			fd.Source = fd.Name
		}
		if fd.Resolve == nil {
			fd.Resolve = graph.Property(fd.Name)
		}
		fd.Name = name
	}
	return &fd
}

// dropProperty returns f without the property key, in both properties
// and required.
func dropProperty(f *schema.Fragment, key string) *schema.Fragment {
	required := slices.DeleteFunc(f.Required(), func(k string) bool { return k == key })
	return f.
		With(schema.KeywordProperties, f.Get(schema.KeywordProperties).Without(key)).
		With(schema.KeywordRequired, schema.Strings(required...))
}
