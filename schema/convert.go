package schema

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FromYAML converts a decoded YAML node into a Fragment. Mapping order is
// preserved. Anchors and aliases are followed.
func FromYAML(node *yaml.Node) (*Fragment, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return NullValue(), nil
		}
		return FromYAML(node.Content[0])
	case yaml.AliasNode:
		return FromYAML(node.Alias)
	case yaml.MappingNode:
		f := &Fragment{kind: Object, props: make(map[string]*Fragment, len(node.Content)/2)}
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := FromYAML(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			f.set(node.Content[i].Value, v)
		}
		return f, nil
	case yaml.SequenceNode:
		f := &Fragment{kind: Array, items: make([]*Fragment, 0, len(node.Content))}
		for _, c := range node.Content {
			v, err := FromYAML(c)
			if err != nil {
				return nil, err
			}
			f.items = append(f.items, v)
		}
		return f, nil
	case yaml.ScalarNode:
		return yamlScalar(node)
	default:
		return nil, fmt.Errorf("schema: unsupported yaml node kind %d at line %d", node.Kind, node.Line)
	}
}

func yamlScalar(node *yaml.Node) (*Fragment, error) {
	switch node.ShortTag() {
	case "!!null":
		return NullValue(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("schema: line %d: %w", node.Line, err)
		}
		return BoolValue(b), nil
	case "!!int", "!!float":
		var n float64
		if err := node.Decode(&n); err != nil {
			return nil, fmt.Errorf("schema: line %d: %w", node.Line, err)
		}
		if node.ShortTag() == "!!int" {
			if i, err := strconv.ParseInt(node.Value, 0, 64); err == nil {
				return NumberValue(strconv.FormatInt(i, 10)), nil
			}
		}
		return NumberValue(strconv.FormatFloat(n, 'g', -1, 64)), nil
	default:
		return StringValue(node.Value), nil
	}
}

// From converts plain Go values (as produced by encoding/json or yaml
// decoding into any) into a Fragment. Map keys are sorted since Go maps
// carry no order.
func From(v any) (*Fragment, error) {
	switch t := v.(type) {
	case nil:
		return NullValue(), nil
	case *Fragment:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case fmt.Stringer:
		// json.Number and friends
		return NumberValue(t.String()), nil
	case int:
		return NumberValue(strconv.Itoa(t)), nil
	case int64:
		return NumberValue(strconv.FormatInt(t, 10)), nil
	case float64:
		return NumberValue(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case []string:
		return Strings(t...), nil
	case []any:
		f := &Fragment{kind: Array, items: make([]*Fragment, 0, len(t))}
		for _, item := range t {
			c, err := From(item)
			if err != nil {
				return nil, err
			}
			f.items = append(f.items, c)
		}
		return f, nil
	case map[string]any:
		f := &Fragment{kind: Object, props: make(map[string]*Fragment, len(t))}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			c, err := From(t[k])
			if err != nil {
				return nil, err
			}
			f.set(k, c)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("schema: unsupported value type %T", v)
	}
}

// MustFrom is like From but panics on error. Intended for static schemas.
func MustFrom(v any) *Fragment {
	f, err := From(v)
	if err != nil {
		panic(err)
	}
	return f
}
