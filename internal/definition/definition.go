// Package definition holds pending, unresolved declarations of domain
// classes and the set that accumulates them during configuration.
package definition

import (
	"reflect"

	"github.com/vk/typeboot/internal/converter"
)

// Definition is a declaration of one class's role. The variants are
// EntityDefinition, ValueObjectDefinition and ValueTypeDeclaration.
type Definition interface {
	Class() reflect.Type
	definition()
}

// EntityDefinition declares a class with identity. An empty IDProperty means
// the identity is found through the `meta:",id"` marker.
type EntityDefinition struct {
	class      reflect.Type
	IDProperty string
}

// NewEntity declares t as an Entity.
func NewEntity(t reflect.Type, idProperty string) EntityDefinition {
	return EntityDefinition{class: Normalize(t), IDProperty: idProperty}
}

func (d EntityDefinition) Class() reflect.Type { return d.class }
func (EntityDefinition) definition()           {}

// ValueObjectDefinition declares a class without identity.
type ValueObjectDefinition struct {
	class reflect.Type
}

// NewValueObject declares t as a ValueObject.
func NewValueObject(t reflect.Type) ValueObjectDefinition {
	return ValueObjectDefinition{class: Normalize(t)}
}

func (d ValueObjectDefinition) Class() reflect.Type { return d.class }
func (ValueObjectDefinition) definition()           {}

// ValueTypeDeclaration declares an unstructured Value type, optionally with
// a codec.
type ValueTypeDeclaration struct {
	class reflect.Type
	Codec converter.Codec
}

// NewValueType declares t as a Value. codec may be nil.
func NewValueType(t reflect.Type, codec converter.Codec) ValueTypeDeclaration {
	return ValueTypeDeclaration{class: Normalize(t), Codec: codec}
}

func (d ValueTypeDeclaration) Class() reflect.Type { return d.class }
func (ValueTypeDeclaration) definition()           {}

// Normalize maps pointer types to their element type so that T and *T name
// the same class.
func Normalize(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
