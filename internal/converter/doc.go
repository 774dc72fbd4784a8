// Package converter provides the serialization side of the bootstrap
// pipeline.
//
// During configuration, codecs for Value types are bound in an
// AdapterRegistry. The pipeline freezes the registry exactly once into an
// immutable Converter, which translates Go values to and from cty.Value and
// JSON. Struct fields are named with the same `meta` tag rules the property
// package uses for field discovery, so encoded documents line up with the
// resolved metadata.
package converter
