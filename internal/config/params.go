package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type Param struct {
	Name   string
	Values []any
}

// ParamSpace is a YAML mapping of parameter name to candidate values. Unlike
// a Go map it keeps the file order, which fixes the enumeration order.
//
//	params:
//	  learning_rate: [0.01, 0.1]
//	  batch_size: [8, 32]
//	  momentum: 0.9
//
// A scalar is shorthand for a single-value list.
type ParamSpace []Param

func (p *ParamSpace) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: params must be a mapping of name to values", node.Line)
	}

	out := make(ParamSpace, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]

		var values []any
		switch v.Kind {
		case yaml.SequenceNode:
			if err := v.Decode(&values); err != nil {
				return fmt.Errorf("line %d: param %s: %w", v.Line, k.Value, err)
			}
		case yaml.ScalarNode:
			var single any
			if err := v.Decode(&single); err != nil {
				return fmt.Errorf("line %d: param %s: %w", v.Line, k.Value, err)
			}
			values = []any{single}
		default:
			return fmt.Errorf("line %d: param %s must be a list or a scalar", v.Line, k.Value)
		}

		out = append(out, Param{Name: k.Value, Values: values})
	}

	*p = out
	return nil
}

func (p ParamSpace) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, param := range p {
		v := &yaml.Node{}
		if err := v.Encode(param.Values); err != nil {
			return nil, fmt.Errorf("param %s: %w", param.Name, err)
		}
		v.Style = yaml.FlowStyle
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: param.Name},
			v,
		)
	}
	return node, nil
}

func (p ParamSpace) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}
	return names
}
