package converter

import (
	"fmt"
	"reflect"

	"github.com/vk/typeboot/internal/property"
	"github.com/zclconf/go-cty/cty"
)

var bytesType = reflect.TypeFor[[]byte]()

func (c *Converter) impliedType(t reflect.Type, active map[reflect.Type]bool) (cty.Type, error) {
	if t == nil {
		return cty.DynamicPseudoType, nil
	}
	if codec, ok := c.codecs[normalize(t)]; ok {
		return codec.CtyType(), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		return c.impliedType(t.Elem(), active)
	case reflect.Interface:
		return cty.DynamicPseudoType, nil
	case reflect.Bool:
		return cty.Bool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return cty.Number, nil
	case reflect.String:
		return cty.String, nil
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return cty.String, nil
		}
		et, err := c.impliedType(t.Elem(), active)
		if err != nil {
			return cty.NilType, err
		}
		if et.HasDynamicTypes() {
			return cty.DynamicPseudoType, nil
		}
		return cty.List(et), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return cty.NilType, fmt.Errorf("map key type %s is not supported, keys must be strings", t.Key())
		}
		et, err := c.impliedType(t.Elem(), active)
		if err != nil {
			return cty.NilType, err
		}
		if et.HasDynamicTypes() {
			return cty.DynamicPseudoType, nil
		}
		return cty.Map(et), nil
	case reflect.Struct:
		if active[t] {
			return cty.NilType, fmt.Errorf("recursive type %s is not supported", t)
		}
		active[t] = true
		defer delete(active, t)

		props, err := property.FieldDiscoverer{}.Discover(t)
		if err != nil {
			return cty.NilType, err
		}
		attrs := make(map[string]cty.Type, len(props))
		for _, p := range props {
			at, err := c.impliedType(p.Type, active)
			if err != nil {
				return cty.NilType, fmt.Errorf("%s.%s: %w", t, p.GoName, err)
			}
			attrs[p.Name] = at
		}
		return cty.Object(attrs), nil
	default:
		return cty.NilType, fmt.Errorf("type %s of kind %s cannot be serialized", t, t.Kind())
	}
}
