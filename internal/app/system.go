package app

import (
	"reflect"

	"github.com/vk/typeboot/internal/converter"
	"github.com/vk/typeboot/internal/mapping"
	"github.com/vk/typeboot/internal/metadata"
	"github.com/vk/typeboot/internal/registry"
)

// System is the finished handle returned by Build. Everything reachable
// from it is read-only and safe for concurrent use.
type System struct {
	registry  *registry.Registry
	converter *converter.Converter
	style     mapping.Style
}

// Lookup returns the resolved metadata for t.
func (s *System) Lookup(t reflect.Type) (metadata.ManagedClass, bool) {
	return s.registry.Lookup(t)
}

// Registry returns the sealed type registry.
func (s *System) Registry() *registry.Registry {
	return s.registry
}

// Converter returns the frozen converter.
func (s *System) Converter() *converter.Converter {
	return s.converter
}

// MappingStyle returns the style the registry was resolved with.
func (s *System) MappingStyle() mapping.Style {
	return s.style
}

// LookupType returns the metadata for T.
func LookupType[T any](s *System) (metadata.ManagedClass, bool) {
	return s.Lookup(reflect.TypeFor[T]())
}
