package resolved

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/ginflatgo/internal/fragment"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Decode populates a consumer struct from the bindings of one target. For
// each exported field carrying a `gin:"field"` tag, the key
// "<target>.<field>" is looked up, converted to the field's type, and
// assigned. A missing key is a *fragment.NotFoundError unless the tag adds
// ",optional", in which case the field keeps its current value. An
// inconvertible value is a *fragment.TypeMismatchError. Fields bound to None
// must be pointers, which are set to nil.
func (c *Config) Decode(target string, out any) error {
	outVal := reflect.ValueOf(out)
	if outVal.Kind() != reflect.Pointer || outVal.IsNil() {
		return fmt.Errorf("decode target must be a non-nil struct pointer")
	}
	outVal = outVal.Elem()
	if outVal.Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a non-nil struct pointer")
	}
	outType := outVal.Type()

	for i := 0; i < outType.NumField(); i++ {
		fieldDef := outType.Field(i)
		fieldVal := outVal.Field(i)

		if !fieldDef.IsExported() || !fieldVal.CanSet() {
			continue
		}

		tag := fieldDef.Tag.Get("gin")
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		optional := opts == "optional"

		key := target + "." + name
		v, ok := c.values[key]
		if !ok {
			if optional {
				continue
			}
			return &fragment.NotFoundError{Key: key}
		}

		fieldTy, err := gocty.ImpliedType(fieldVal.Interface())
		if err != nil {
			return fmt.Errorf("field %s of %T has no configuration equivalent: %w", fieldDef.Name, out, err)
		}

		converted, err := convert.Convert(v, fieldTy)
		if err != nil {
			return &fragment.TypeMismatchError{Key: key, Want: fieldTy, Got: v.Type()}
		}
		if err := gocty.FromCtyValue(converted, fieldVal.Addr().Interface()); err != nil {
			return &fragment.TypeMismatchError{Key: key, Want: fieldTy, Got: v.Type()}
		}
	}
	return nil
}
