package encode

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/ginflatgo/internal/resolved"
	"github.com/zclconf/go-cty/cty"
)

// Gin writes cfg as a flat, include-free fragment: one binding per line, in
// first-binding order.
func Gin(w io.Writer, cfg *resolved.Config) error {
	for _, key := range cfg.Keys() {
		v, _ := cfg.Get(key)
		if _, err := fmt.Fprintf(w, "%s = %s\n", key, ginLiteral(v)); err != nil {
			return err
		}
	}
	return nil
}

func ginLiteral(v cty.Value) string {
	switch {
	case v.IsNull():
		return "None"
	case v.Type() == cty.Bool:
		if v.True() {
			return "True"
		}
		return "False"
	case v.Type() == cty.String:
		s := v.AsString()
		// References were carried opaquely and are written back bare.
		if strings.HasPrefix(s, "@") {
			return s
		}
		return quoteGin(s)
	case v.Type() == cty.Number:
		return formatNumber(v)
	case v.Type().IsTupleType():
		var elems []string
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			elems = append(elems, ginLiteral(ev))
		}
		return "[" + strings.Join(elems, ", ") + "]"
	default:
		// Unreachable for values produced by the parser.
		return quoteGin(v.GoString())
	}
}

// quoteGin renders s as a single-quoted gin string literal.
func quoteGin(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\', '\'':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
