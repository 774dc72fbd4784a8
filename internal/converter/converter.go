package converter

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Converter is the frozen serialization component. It is immutable and
// safe for concurrent use.
type Converter struct {
	codecs   map[reflect.Type]Codec
	typeSafe bool
}

// Has reports whether t has a bound codec.
func (c *Converter) Has(t reflect.Type) bool {
	_, ok := c.codecs[normalize(t)]
	return ok
}

// Codec returns the codec bound to t.
func (c *Converter) Codec(t reflect.Type) (Codec, bool) {
	codec, ok := c.codecs[normalize(t)]
	return codec, ok
}

// TypeSafe reports whether JSON documents carry their cty type.
func (c *Converter) TypeSafe() bool {
	return c.typeSafe
}

// ImpliedType returns the cty type used for values of Go type t. Types that
// hold interface values anywhere imply cty.DynamicPseudoType for the
// containing collection.
func (c *Converter) ImpliedType(t reflect.Type) (cty.Type, error) {
	return c.impliedType(t, make(map[reflect.Type]bool))
}

// ToCtyValue converts a Go value into its cty form.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	rv := reflect.ValueOf(v)
	return c.encode(rv, rv.Type())
}

// FromCtyValue decodes val into target, which must be a non-nil pointer.
func (c *Converter) FromCtyValue(val cty.Value, target any) error {
	dst, err := targetElem(target)
	if err != nil {
		return err
	}
	return c.decode(val, dst)
}

// Marshal encodes v as JSON.
func (c *Converter) Marshal(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	val, err := c.ToCtyValue(v)
	if err != nil {
		return nil, err
	}
	ty := cty.DynamicPseudoType
	if !c.typeSafe {
		if ty, err = c.ImpliedType(reflect.TypeOf(v)); err != nil {
			return nil, err
		}
	}
	return ctyjson.Marshal(val, ty)
}

// Unmarshal decodes JSON produced by Marshal into target, which must be a
// non-nil pointer.
func (c *Converter) Unmarshal(data []byte, target any) error {
	dst, err := targetElem(target)
	if err != nil {
		return err
	}
	ty := cty.DynamicPseudoType
	if !c.typeSafe {
		if ty, err = c.ImpliedType(dst.Type()); err != nil {
			return err
		}
		if ty.Equals(cty.DynamicPseudoType) {
			// Untagged document for a dynamic target: infer from the JSON.
			if ty, err = ctyjson.ImpliedType(data); err != nil {
				return fmt.Errorf("cannot infer type of document: %w", err)
			}
		}
	}
	val, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return fmt.Errorf("failed to read JSON as %s: %w", ty.FriendlyName(), err)
	}
	return c.decode(val, dst)
}

func targetElem(target any) (reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, errors.New("decode target must be a non-nil pointer")
	}
	return rv.Elem(), nil
}
