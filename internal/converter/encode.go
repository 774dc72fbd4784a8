package converter

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"sort"

	"github.com/vk/typeboot/internal/property"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// encode converts v, whose static type is t, into a cty.Value.
func (c *Converter) encode(v reflect.Value, t reflect.Type) (cty.Value, error) {
	if codec, ok := c.codecs[normalize(t)]; ok {
		if t.Kind() == reflect.Pointer {
			if v.IsNil() {
				return cty.NullVal(codec.CtyType()), nil
			}
			v = v.Elem()
		}
		val, err := codec.Encode(v.Interface())
		if err != nil {
			return cty.NilVal, fmt.Errorf("codec for %s failed: %w", t, err)
		}
		return val, nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return c.null(t)
		}
		return c.encode(v.Elem(), t.Elem())
	case reflect.Interface:
		if v.IsNil() {
			return cty.NullVal(cty.DynamicPseudoType), nil
		}
		return c.encode(v.Elem(), v.Elem().Type())
	case reflect.Bool, reflect.String:
		ty, _ := c.ImpliedType(t)
		return gocty.ToCtyValue(v.Interface(), ty)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return gocty.ToCtyValue(v.Interface(), cty.Number)
	case reflect.Slice:
		if v.IsNil() {
			return c.null(t)
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return cty.StringVal(base64.StdEncoding.EncodeToString(v.Bytes())), nil
		}
		return c.encodeSequence(v, t)
	case reflect.Array:
		return c.encodeSequence(v, t)
	case reflect.Map:
		if v.IsNil() {
			return c.null(t)
		}
		return c.encodeMap(v, t)
	case reflect.Struct:
		return c.encodeStruct(v, t)
	default:
		return cty.NilVal, fmt.Errorf("type %s of kind %s cannot be serialized", t, t.Kind())
	}
}

func (c *Converter) null(t reflect.Type) (cty.Value, error) {
	ty, err := c.ImpliedType(t)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.NullVal(ty), nil
}

func (c *Converter) encodeSequence(v reflect.Value, t reflect.Type) (cty.Value, error) {
	ty, err := c.ImpliedType(t)
	if err != nil {
		return cty.NilVal, err
	}
	elems := make([]cty.Value, v.Len())
	for i := range elems {
		if elems[i], err = c.encode(v.Index(i), t.Elem()); err != nil {
			return cty.NilVal, fmt.Errorf("[%d]: %w", i, err)
		}
	}
	if !ty.IsListType() {
		return cty.TupleVal(elems), nil
	}
	if len(elems) == 0 {
		return cty.ListValEmpty(ty.ElementType()), nil
	}
	return cty.ListVal(elems), nil
}

func (c *Converter) encodeMap(v reflect.Value, t reflect.Type) (cty.Value, error) {
	ty, err := c.ImpliedType(t)
	if err != nil {
		return cty.NilVal, err
	}
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	attrs := make(map[string]cty.Value, len(keys))
	for _, k := range keys {
		if attrs[k.String()], err = c.encode(v.MapIndex(k), t.Elem()); err != nil {
			return cty.NilVal, fmt.Errorf("[%q]: %w", k.String(), err)
		}
	}
	if !ty.IsMapType() {
		return cty.ObjectVal(attrs), nil
	}
	if len(attrs) == 0 {
		return cty.MapValEmpty(ty.ElementType()), nil
	}
	return cty.MapVal(attrs), nil
}

func (c *Converter) encodeStruct(v reflect.Value, t reflect.Type) (cty.Value, error) {
	props, err := property.FieldDiscoverer{}.Discover(t)
	if err != nil {
		return cty.NilVal, err
	}
	if len(props) == 0 {
		return cty.EmptyObjectVal, nil
	}
	attrs := make(map[string]cty.Value, len(props))
	for _, p := range props {
		fv, err := p.Get(v)
		if err != nil {
			return cty.NilVal, err
		}
		if attrs[p.Name], err = c.encode(fv, p.Type); err != nil {
			return cty.NilVal, fmt.Errorf("%s.%s: %w", t, p.GoName, err)
		}
	}
	return cty.ObjectVal(attrs), nil
}
