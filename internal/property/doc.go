// Package property discovers the properties of a domain class.
//
// Discovery is pluggable: a Discoverer turns a struct type into an ordered
// list of Descriptors. Two strategies are built in, one reading exported
// struct fields and one reading getter-like methods. Both honour the `meta`
// struct tag:
//
//	type Employee struct {
//	    ID       string `meta:",id"`       // identity marker
//	    FullName string `meta:"name"`      // renamed property
//	    cache    map[string]any            // unexported, never a field property
//	    Scratch  []byte `meta:"-"`         // transient, skipped
//	}
//
// Output order is the declaration order of the struct, never alphabetical.
package property
