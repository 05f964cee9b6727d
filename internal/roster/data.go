package roster

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Data holds a target's grains, pillar or module results. Decoded from YAML,
// floating-point scalars keep their source text, so an unquoted release such
// as 20.10 stays "20.10" instead of becoming 20.1.
type Data map[string]any

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Data) UnmarshalYAML(n *yaml.Node) error {
	v, err := nodeValue(n)
	if err != nil {
		return err
	}
	if v == nil {
		*d = nil
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	*d = m
	return nil
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!float" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			v, err := nodeValue(val)
			if err != nil {
				return nil, err
			}
			if key.ShortTag() == "!!merge" {
				merged, _ := v.(map[string]any)
				for k, mv := range merged {
					if _, ok := out[k]; !ok {
						out[k] = mv
					}
				}
				continue
			}
			out[key.Value] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
	}
}
