package resolved

import (
	"fmt"

	"github.com/specialistvlad/ginflatgo/internal/fragment"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Config is a fully resolved configuration: a mapping from dotted keys to
// typed scalar values with no remaining include directives or macro
// references. It is immutable once constructed.
type Config struct {
	keys   []string
	values map[string]cty.Value
}

// New builds a Config from a key order and a value mapping. Both are copied,
// so the caller's slices and maps stay independent of the Config.
func New(keys []string, values map[string]cty.Value) *Config {
	c := &Config{
		keys:   append([]string(nil), keys...),
		values: make(map[string]cty.Value, len(values)),
	}
	for k, v := range values {
		c.values[k] = v
	}
	return c
}

// Len returns the number of bound keys.
func (c *Config) Len() int {
	return len(c.keys)
}

// Keys returns every bound key in first-binding order.
func (c *Config) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Get returns the value bound to key. The second result distinguishes an
// absent key from a key bound to a null or empty value.
func (c *Config) Get(key string) (cty.Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// String returns the value bound to key converted to a string.
func (c *Config) String(key string) (string, error) {
	v, err := c.typed(key, cty.String)
	if err != nil {
		return "", err
	}
	return v.AsString(), nil
}

// Bool returns the value bound to key converted to a bool.
func (c *Config) Bool(key string) (bool, error) {
	v, err := c.typed(key, cty.Bool)
	if err != nil {
		return false, err
	}
	return v.True(), nil
}

// Int returns the value bound to key as an int64. A fractional number is a
// type mismatch, not a truncation.
func (c *Config) Int(key string) (int64, error) {
	v, err := c.typed(key, cty.Number)
	if err != nil {
		return 0, err
	}
	var out int64
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return 0, &fragment.TypeMismatchError{Key: key, Want: cty.Number, Got: v.Type()}
	}
	return out, nil
}

// Float returns the value bound to key as a float64.
func (c *Config) Float(key string) (float64, error) {
	v, err := c.typed(key, cty.Number)
	if err != nil {
		return 0, err
	}
	var out float64
	if err := gocty.FromCtyValue(v, &out); err != nil {
		return 0, &fragment.TypeMismatchError{Key: key, Want: cty.Number, Got: v.Type()}
	}
	return out, nil
}

// typed looks up key and converts its value to want.
func (c *Config) typed(key string, want cty.Type) (cty.Value, error) {
	v, ok := c.values[key]
	if !ok {
		return cty.NilVal, &fragment.NotFoundError{Key: key}
	}
	if v.IsNull() {
		return cty.NilVal, fmt.Errorf("key %q is bound to None", key)
	}
	converted, err := convert.Convert(v, want)
	if err != nil {
		return cty.NilVal, &fragment.TypeMismatchError{Key: key, Want: want, Got: v.Type()}
	}
	return converted, nil
}
