package registry

import (
	"reflect"

	"github.com/vk/typeboot/internal/converter"
	"github.com/vk/typeboot/internal/metadata"
	"github.com/vk/typeboot/internal/metaerr"
)

// Registry maps classes to their resolved metadata.
type Registry struct {
	entries map[reflect.Type]metadata.ManagedClass
	byName  map[string]reflect.Type
	order   []reflect.Type
	sealed  bool
}

// New creates an empty, unsealed Registry.
func New() *Registry {
	return &Registry{
		entries: make(map[reflect.Type]metadata.ManagedClass),
		byName:  make(map[string]reflect.Type),
	}
}

// Publish adds resolved metadata for t.
func (r *Registry) Publish(t reflect.Type, md metadata.ManagedClass) error {
	if err := r.checkWritable(t, md); err != nil {
		return err
	}
	if err := r.checkFree(t); err != nil {
		return err
	}
	r.put(t, md)
	return nil
}

// RegisterValueType is the value channel: it publishes t as a Value type
// with an optional codec, without structural resolution.
func (r *Registry) RegisterValueType(t reflect.Type, codec converter.Codec) error {
	if t == nil {
		return metaerr.InvalidArgument("value type must not be nil")
	}
	return r.Publish(t, metadata.NewValueType(t, codec))
}

// Commit publishes every entry of b, or none of them. All keys are checked
// against the registry and against each other before anything is written.
func (r *Registry) Commit(b *Batch) error {
	seen := make(map[reflect.Type]bool, len(b.items))
	for _, it := range b.items {
		if err := r.checkWritable(it.class, it.md); err != nil {
			return err
		}
		if err := r.checkFree(it.class); err != nil {
			return err
		}
		if seen[it.class] {
			return duplicate(it.class, "class appears twice in the same batch")
		}
		seen[it.class] = true
	}
	for _, it := range b.items {
		r.put(it.class, it.md)
	}
	return nil
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Lookup returns the metadata for t. Pointer types resolve to their element.
func (r *Registry) Lookup(t reflect.Type) (metadata.ManagedClass, bool) {
	md, ok := r.entries[normalize(t)]
	return md, ok
}

// LookupByName finds a class by its reflect.Type string, e.g. "sample.Employee".
func (r *Registry) LookupByName(name string) (metadata.ManagedClass, bool) {
	t, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.entries[t], true
}

// Len returns the number of published classes.
func (r *Registry) Len() int {
	return len(r.order)
}

// Entries returns all metadata in publication order.
func (r *Registry) Entries() []metadata.ManagedClass {
	out := make([]metadata.ManagedClass, len(r.order))
	for i, t := range r.order {
		out[i] = r.entries[t]
	}
	return out
}

func (r *Registry) put(t reflect.Type, md metadata.ManagedClass) {
	t = normalize(t)
	r.entries[t] = md
	r.byName[t.String()] = t
	r.order = append(r.order, t)
}

func (r *Registry) checkWritable(t reflect.Type, md metadata.ManagedClass) error {
	if r.sealed {
		return metaerr.IllegalState("registry is sealed, cannot publish %s", t)
	}
	if t == nil || md == nil {
		return metaerr.InvalidArgument("cannot publish nil class or metadata")
	}
	if normalize(md.Class()) != normalize(t) {
		return metaerr.Internal(nil, "metadata for %s published under %s", md.Class(), t)
	}
	return nil
}

func (r *Registry) checkFree(t reflect.Type) error {
	if _, exists := r.entries[normalize(t)]; exists {
		return duplicate(t, "class is already registered")
	}
	return nil
}

func duplicate(t reflect.Type, detail string) error {
	return metaerr.New(metaerr.CodeDuplicateRegistration, normalize(t), "%s", detail)
}

func normalize(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
