// Package manifest loads HCL domain manifests and applies them to a
// bootstrap Builder.
//
// A manifest names classes rather than referencing them, so it is resolved
// against a Catalog of compiled-in types and codecs:
//
//	mapping_style    = "field"
//	type_safe_values = true
//
//	entity "Employee" {
//	  id_property = "id"
//	}
//
//	value_object "Address" {}
//
//	value "Money" {
//	  codec = "money"
//	}
package manifest
