package requestfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/skout-dev/skout/internal/variant"
)

// parseYAML converts a YAML document into a request dictionary using the
// node API, which preserves mapping order (Unmarshal into a map would not).
func parseYAML(data []byte) (*variant.Dictionary, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty YAML document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: request must be a mapping, got %s", root.Line, yamlKindName(root.Kind))
	}
	return yamlMapping(root)
}

func yamlMapping(n *yaml.Node) (*variant.Dictionary, error) {
	d := variant.NewDictionary()
	// Content holds key, value, key, value, ...
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode || keyNode.Tag != "!!str" {
			return nil, fmt.Errorf("line %d: mapping keys must be strings", keyNode.Line)
		}
		key := keyNode.Value
		if _, exists := d.Get(key); exists {
			return nil, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, key)
		}
		v, err := yamlValue(valNode)
		if err != nil {
			return nil, err
		}
		d.Set(key, v)
	}
	return d, nil
}

func yamlValue(n *yaml.Node) (variant.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		return yamlMapping(n)
	case yaml.SequenceNode:
		arr := make(variant.Array, 0, len(n.Content))
		for _, elem := range n.Content {
			v, err := yamlValue(elem)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %s", n.Line, yamlKindName(n.Kind))
	}
}

// yamlScalar decodes a scalar through the library's own resolution so the
// full YAML syntax (hex ints, scientific floats, null spellings) applies.
func yamlScalar(n *yaml.Node) (variant.Value, error) {
	switch n.Tag {
	case "!!str":
		return variant.String(n.Value), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return variant.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return variant.Int(i), nil
		}
		// Out of int64 range; identifiers live up there.
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, fmt.Errorf("line %d: integer %q out of range", n.Line, n.Value)
		}
		return variant.Uint(u), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return variant.Double(f), nil
	case "!!null":
		return variant.Null{}, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML scalar tag %s", n.Line, n.Tag)
	}
}

func yamlKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}
