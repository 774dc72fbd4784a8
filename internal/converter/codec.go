package converter

import (
	"fmt"
	"reflect"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Codec is a custom (de)serialization strategy for a Value type.
type Codec interface {
	// ValueType is the Go type handled by the codec. Codecs bound with an
	// explicit type may return nil.
	ValueType() reflect.Type
	// CtyType is the wire type produced by Encode and accepted by Decode.
	CtyType() cty.Type
	Encode(v any) (cty.Value, error)
	Decode(val cty.Value) (any, error)
}

type funcCodec[T any] struct {
	ty  cty.Type
	enc func(T) (cty.Value, error)
	dec func(cty.Value) (T, error)
}

// NewCodec builds a typed codec for T.
func NewCodec[T any](ty cty.Type, enc func(T) (cty.Value, error), dec func(cty.Value) (T, error)) Codec {
	return &funcCodec[T]{ty: ty, enc: enc, dec: dec}
}

func (c *funcCodec[T]) ValueType() reflect.Type { return reflect.TypeFor[T]() }
func (c *funcCodec[T]) CtyType() cty.Type       { return c.ty }

func (c *funcCodec[T]) Encode(v any) (cty.Value, error) {
	t, ok := v.(T)
	if !ok {
		return cty.NilVal, fmt.Errorf("codec for %s cannot encode %T", reflect.TypeFor[T](), v)
	}
	return c.enc(t)
}

func (c *funcCodec[T]) Decode(val cty.Value) (any, error) {
	return c.dec(val)
}

type nativeCodec struct {
	ty  cty.Type
	enc func(any) (cty.Value, error)
	dec func(cty.Value) (any, error)
}

// NativeCodec builds an untyped codec. Its ValueType is nil; the type it
// serves is supplied when it is bound.
func NativeCodec(ty cty.Type, enc func(any) (cty.Value, error), dec func(cty.Value) (any, error)) Codec {
	return &nativeCodec{ty: ty, enc: enc, dec: dec}
}

func (c *nativeCodec) ValueType() reflect.Type           { return nil }
func (c *nativeCodec) CtyType() cty.Type                 { return c.ty }
func (c *nativeCodec) Encode(v any) (cty.Value, error)   { return c.enc(v) }
func (c *nativeCodec) Decode(val cty.Value) (any, error) { return c.dec(val) }

// TimeCodec encodes time.Time as an RFC 3339 string with nanoseconds.
var TimeCodec = NewCodec(cty.String,
	func(t time.Time) (cty.Value, error) {
		return cty.StringVal(t.Format(time.RFC3339Nano)), nil
	},
	func(val cty.Value) (time.Time, error) {
		return time.Parse(time.RFC3339Nano, val.AsString())
	},
)
