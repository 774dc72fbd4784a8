// Package metadata holds the resolved, immutable description of a managed
// domain class: an Entity, a ValueObject or a Value type.
package metadata

import (
	"reflect"
	"slices"

	"github.com/vk/typeboot/internal/converter"
	"github.com/vk/typeboot/internal/property"
)

// Kind classifies resolved metadata.
type Kind int

const (
	KindEntity Kind = iota + 1
	KindValueObject
	KindValue
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "Entity"
	case KindValueObject:
		return "ValueObject"
	case KindValue:
		return "Value"
	default:
		return "Unknown"
	}
}

// ManagedClass is resolved metadata for one class. The set of
// implementations is closed to this package.
type ManagedClass interface {
	Class() reflect.Type
	Kind() Kind
	sealed()
}

// Entity is a class with identity.
type Entity struct {
	class reflect.Type
	id    property.Descriptor
	props []property.Descriptor
}

// NewEntity builds Entity metadata. props must not contain the id property.
func NewEntity(class reflect.Type, id property.Descriptor, props []property.Descriptor) *Entity {
	return &Entity{class: class, id: id, props: cloneProps(props)}
}

func (e *Entity) Class() reflect.Type { return e.class }
func (e *Entity) Kind() Kind          { return KindEntity }
func (e *Entity) sealed()             {}

// IDProperty returns the identity property.
func (e *Entity) IDProperty() property.Descriptor {
	id := e.id
	id.Index = slices.Clone(id.Index)
	return id
}

// Properties returns the non-identity properties in discovery order.
func (e *Entity) Properties() []property.Descriptor { return cloneProps(e.props) }

// Property finds a property by logical name, identity included.
func (e *Entity) Property(name string) (property.Descriptor, bool) {
	if e.id.Name == name {
		return e.IDProperty(), true
	}
	return find(e.props, name)
}

// ValueObject is a class without identity, compared by its properties.
type ValueObject struct {
	class reflect.Type
	props []property.Descriptor
}

// NewValueObject builds ValueObject metadata.
func NewValueObject(class reflect.Type, props []property.Descriptor) *ValueObject {
	return &ValueObject{class: class, props: cloneProps(props)}
}

func (v *ValueObject) Class() reflect.Type { return v.class }
func (v *ValueObject) Kind() Kind          { return KindValueObject }
func (v *ValueObject) sealed()             {}

// Properties returns all properties in discovery order.
func (v *ValueObject) Properties() []property.Descriptor { return cloneProps(v.props) }

// Property finds a property by logical name.
func (v *ValueObject) Property(name string) (property.Descriptor, bool) {
	return find(v.props, name)
}

// ValueType is an unstructured scalar type, optionally bound to a codec.
type ValueType struct {
	class reflect.Type
	codec converter.Codec
}

// NewValueType builds ValueType metadata. codec may be nil.
func NewValueType(class reflect.Type, codec converter.Codec) *ValueType {
	return &ValueType{class: class, codec: codec}
}

func (v *ValueType) Class() reflect.Type { return v.class }
func (v *ValueType) Kind() Kind          { return KindValue }
func (v *ValueType) sealed()             {}

// Codec returns the bound codec, or nil.
func (v *ValueType) Codec() converter.Codec { return v.codec }

// cloneProps copies descriptors deeply enough that callers cannot reach
// published state through the Index slices.
func cloneProps(props []property.Descriptor) []property.Descriptor {
	out := slices.Clone(props)
	for i := range out {
		out[i].Index = slices.Clone(out[i].Index)
	}
	return out
}

func find(props []property.Descriptor, name string) (property.Descriptor, bool) {
	for _, p := range props {
		if p.Name == name {
			p.Index = slices.Clone(p.Index)
			return p, true
		}
	}
	return property.Descriptor{}, false
}
