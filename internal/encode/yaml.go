package encode

import (
	"fmt"
	"io"
	"math/big"

	"github.com/specialistvlad/ginflatgo/internal/resolved"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// YAML writes cfg as a YAML mapping, built through yaml.Node so keys keep
// first-binding order.
func YAML(w io.Writer, cfg *resolved.Config) error {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range cfg.Keys() {
		v, _ := cfg.Get(key)
		goVal, err := ctyToGo(v)
		if err != nil {
			return err
		}

		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(goVal); err != nil {
			return fmt.Errorf("encoding key %q: %w", key, err)
		}
		root.Content = append(root.Content, keyNode, valNode)
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// ctyToGo converts a resolved scalar (or flat list) into its native Go
// equivalent for YAML encoding.
func ctyToGo(v cty.Value) (any, error) {
	switch {
	case v.IsNull():
		return nil, nil
	case v.Type() == cty.Bool:
		return v.True(), nil
	case v.Type() == cty.String:
		return v.AsString(), nil
	case v.Type() == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case v.Type().IsTupleType():
		var elems []any
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			goVal, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			elems = append(elems, goVal)
		}
		return elems, nil
	default:
		return nil, fmt.Errorf("value of type %s has no YAML form", v.Type().FriendlyName())
	}
}
