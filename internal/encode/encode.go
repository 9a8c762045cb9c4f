// Package encode renders a resolved configuration for the consumer: as
// canonical gin fragment text, as JSON, or as YAML. Output is deterministic,
// so resolving the same entry fragment twice encodes byte-identically.
package encode

import (
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/specialistvlad/ginflatgo/internal/resolved"
	"github.com/zclconf/go-cty/cty"
)

// Supported output formats.
const (
	FormatGin  = "gin"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write renders cfg to w in the named format.
func Write(w io.Writer, format string, cfg *resolved.Config) error {
	switch format {
	case FormatGin:
		return Gin(w, cfg)
	case FormatJSON:
		return JSON(w, cfg)
	case FormatYAML:
		return YAML(w, cfg)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// formatNumber renders a cty number the way it would appear in a fragment:
// integers without a fraction, everything else as the shortest float64
// representation that round-trips.
func formatNumber(v cty.Value) string {
	bf := v.AsBigFloat()
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return strconv.FormatInt(i, 10)
		}
		return bf.Text('f', 0)
	}
	f, _ := bf.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}
