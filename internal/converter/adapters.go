package converter

import (
	"maps"
	"reflect"
	"time"

	"github.com/vk/typeboot/internal/metaerr"
)

// AdapterRegistry accumulates codec bindings until it is frozen into a
// Converter. It is not safe for concurrent use.
type AdapterRegistry struct {
	bindings map[reflect.Type]Codec
	defaults map[reflect.Type]Codec
	typeSafe bool
	frozen   bool
}

// NewAdapterRegistry creates a registry with the built-in bindings.
func NewAdapterRegistry() *AdapterRegistry {
	defaults := map[reflect.Type]Codec{
		reflect.TypeFor[time.Time](): TimeCodec,
	}
	return &AdapterRegistry{
		bindings: maps.Clone(defaults),
		defaults: defaults,
	}
}

// Bind associates a codec with t, replacing any earlier binding.
func (r *AdapterRegistry) Bind(t reflect.Type, c Codec) error {
	if r.frozen {
		return metaerr.IllegalState("cannot bind a codec after the converter was built")
	}
	if t == nil {
		return metaerr.InvalidArgument("codec target type must not be nil")
	}
	if c == nil {
		return metaerr.InvalidArgument("codec for %s must not be nil", t)
	}
	r.bindings[normalize(t)] = c
	return nil
}

// Unbind drops the codec bound to t, if any. Types with a built-in codec
// fall back to it.
func (r *AdapterRegistry) Unbind(t reflect.Type) error {
	if r.frozen {
		return metaerr.IllegalState("cannot unbind a codec after the converter was built")
	}
	t = normalize(t)
	if def, ok := r.defaults[t]; ok {
		r.bindings[t] = def
		return nil
	}
	delete(r.bindings, t)
	return nil
}

// Bound reports whether t currently has a codec.
func (r *AdapterRegistry) Bound(t reflect.Type) bool {
	_, ok := r.bindings[normalize(t)]
	return ok
}

// SetTypeSafe switches type-tagged JSON envelopes on or off.
func (r *AdapterRegistry) SetTypeSafe(on bool) error {
	if r.frozen {
		return metaerr.IllegalState("cannot change type-safe values after the converter was built")
	}
	r.typeSafe = on
	return nil
}

// Frozen reports whether Freeze has run.
func (r *AdapterRegistry) Frozen() bool {
	return r.frozen
}

// Freeze builds the immutable Converter. It may run only once; a second
// call is an internal error.
func (r *AdapterRegistry) Freeze() (*Converter, error) {
	if r.frozen {
		return nil, metaerr.Internal(metaerr.ErrIllegalLifecycleState, "adapter registry frozen twice")
	}
	r.frozen = true
	return &Converter{
		codecs:   maps.Clone(r.bindings),
		typeSafe: r.typeSafe,
	}, nil
}

func normalize(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
