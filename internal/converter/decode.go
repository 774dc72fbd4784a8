package converter

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"reflect"

	"github.com/vk/typeboot/internal/property"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decode writes val into dst, which must be settable.
func (c *Converter) decode(val cty.Value, dst reflect.Value) error {
	t := dst.Type()
	if !val.IsKnown() {
		return fmt.Errorf("cannot decode an unknown value into %s", t)
	}

	if codec, ok := c.codecs[normalize(t)]; ok && !val.IsNull() {
		return c.decodeWithCodec(codec, val, dst)
	}
	if val.IsNull() {
		dst.Set(reflect.Zero(t))
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := reflect.New(t.Elem())
		if err := c.decode(val, elem.Elem()); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	case reflect.Interface:
		if gv := dynamicGo(val); gv != nil {
			dst.Set(reflect.ValueOf(gv))
		}
		return nil
	case reflect.Bool:
		return c.decodePrimitive(val, cty.Bool, dst)
	case reflect.String:
		return c.decodePrimitive(val, cty.String, dst)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return c.decodePrimitive(val, cty.Number, dst)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return c.decodeBytes(val, dst)
		}
		return c.decodeSequence(val, dst)
	case reflect.Array:
		return c.decodeSequence(val, dst)
	case reflect.Map:
		return c.decodeMap(val, dst)
	case reflect.Struct:
		return c.decodeStruct(val, dst)
	default:
		return fmt.Errorf("type %s of kind %s cannot be deserialized", t, t.Kind())
	}
}

func (c *Converter) decodeWithCodec(codec Codec, val cty.Value, dst reflect.Value) error {
	t := dst.Type()
	out, err := codec.Decode(val)
	if err != nil {
		return fmt.Errorf("codec for %s failed: %w", t, err)
	}
	rv := reflect.ValueOf(out)
	if !rv.IsValid() {
		return fmt.Errorf("codec for %s returned nil", t)
	}
	if t.Kind() == reflect.Pointer && rv.Type() == t.Elem() {
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(rv)
		rv = ptr
	}
	if !rv.Type().AssignableTo(t) {
		if !rv.Type().ConvertibleTo(t) {
			return fmt.Errorf("codec for %s returned %s", t, rv.Type())
		}
		rv = rv.Convert(t)
	}
	dst.Set(rv)
	return nil
}

func (c *Converter) decodePrimitive(val cty.Value, want cty.Type, dst reflect.Value) error {
	if !val.Type().Equals(want) {
		converted, err := convert.Convert(val, want)
		if err != nil {
			return fmt.Errorf("cannot convert %s to %s: %w", val.Type().FriendlyName(), want.FriendlyName(), err)
		}
		val = converted
	}
	tmp := reflect.New(dst.Type())
	if err := gocty.FromCtyValue(val, tmp.Interface()); err != nil {
		return err
	}
	dst.Set(tmp.Elem())
	return nil
}

func (c *Converter) decodeBytes(val cty.Value, dst reflect.Value) error {
	if !val.Type().Equals(cty.String) {
		return fmt.Errorf("expected base64 string for %s, got %s", dst.Type(), val.Type().FriendlyName())
	}
	b, err := base64.StdEncoding.DecodeString(val.AsString())
	if err != nil {
		return err
	}
	dst.SetBytes(b)
	return nil
}

func (c *Converter) decodeSequence(val cty.Value, dst reflect.Value) error {
	t := dst.Type()
	if !val.CanIterateElements() || val.Type().IsMapType() || val.Type().IsObjectType() {
		return fmt.Errorf("expected a sequence for %s, got %s", t, val.Type().FriendlyName())
	}
	n := val.LengthInt()
	if t.Kind() == reflect.Array && n > t.Len() {
		return fmt.Errorf("%d elements do not fit in %s", n, t)
	}

	out := reflect.New(t).Elem()
	if t.Kind() == reflect.Slice {
		out = reflect.MakeSlice(t, n, n)
	}
	i := 0
	for it := val.ElementIterator(); it.Next(); i++ {
		_, ev := it.Element()
		if err := c.decode(ev, out.Index(i)); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	dst.Set(out)
	return nil
}

func (c *Converter) decodeMap(val cty.Value, dst reflect.Value) error {
	t := dst.Type()
	if t.Key().Kind() != reflect.String {
		return fmt.Errorf("map key type %s is not supported, keys must be strings", t.Key())
	}
	if !val.Type().IsMapType() && !val.Type().IsObjectType() {
		return fmt.Errorf("expected a map for %s, got %s", t, val.Type().FriendlyName())
	}

	out := reflect.MakeMap(t)
	for it := val.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		elem := reflect.New(t.Elem()).Elem()
		if err := c.decode(ev, elem); err != nil {
			return fmt.Errorf("[%q]: %w", k.AsString(), err)
		}
		out.SetMapIndex(reflect.ValueOf(k.AsString()).Convert(t.Key()), elem)
	}
	dst.Set(out)
	return nil
}

func (c *Converter) decodeStruct(val cty.Value, dst reflect.Value) error {
	t := dst.Type()
	if !val.Type().IsObjectType() {
		return fmt.Errorf("expected an object for %s, got %s", t, val.Type().FriendlyName())
	}
	props, err := property.FieldDiscoverer{}.Discover(t)
	if err != nil {
		return err
	}
	for _, p := range props {
		if !val.Type().HasAttribute(p.Name) {
			continue
		}
		elem := reflect.New(p.Type).Elem()
		if err := c.decode(val.GetAttr(p.Name), elem); err != nil {
			return fmt.Errorf("%s.%s: %w", t, p.GoName, err)
		}
		if err := p.Set(dst, elem); err != nil {
			return err
		}
	}
	return nil
}

// dynamicGo converts a value of arbitrary type into plain Go data: string,
// float64 or *big.Float for numbers that do not fit, bool, []any and
// map[string]any.
func dynamicGo(val cty.Value) any {
	if val.IsNull() || !val.IsKnown() {
		return nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString()
	case ty == cty.Bool:
		return val.True()
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if f, acc := bf.Float64(); acc == big.Exact {
			return f
		}
		return bf
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		out := []any{}
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, dynamicGo(ev))
		}
		return out
	case ty.IsMapType() || ty.IsObjectType():
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			out[k.AsString()] = dynamicGo(ev)
		}
		return out
	default:
		return nil
	}
}
