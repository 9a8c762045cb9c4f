package encode

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/ginflatgo/internal/resolved"
	"github.com/zclconf/go-cty/cty"
)

// JSON writes cfg as a single JSON object. The object is assembled by hand
// so keys keep first-binding order, which encoding/json maps cannot do.
func JSON(w io.Writer, cfg *resolved.Config) error {
	var b strings.Builder
	b.WriteString("{\n")
	for i, key := range cfg.Keys() {
		v, _ := cfg.Get(key)
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return err
		}
		b.WriteString("  ")
		b.Write(keyJSON)
		b.WriteString(": ")
		if err := writeJSONValue(&b, v); err != nil {
			return err
		}
		if i < cfg.Len()-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSONValue(b *strings.Builder, v cty.Value) error {
	switch {
	case v.IsNull():
		b.WriteString("null")
	case v.Type() == cty.Bool:
		if v.True() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case v.Type() == cty.String:
		s, err := json.Marshal(v.AsString())
		if err != nil {
			return err
		}
		b.Write(s)
	case v.Type() == cty.Number:
		b.WriteString(formatNumber(v))
	case v.Type().IsTupleType():
		b.WriteByte('[')
		first := true
		for it := v.ElementIterator(); it.Next(); {
			if !first {
				b.WriteString(", ")
			}
			first = false
			_, ev := it.Element()
			if err := writeJSONValue(b, ev); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	default:
		return fmt.Errorf("value of type %s has no JSON form", v.Type().FriendlyName())
	}
	return nil
}
