package manifest

import "github.com/hashicorp/hcl/v2"

// fileRoot is the gohcl schema of one manifest file.
type fileRoot struct {
	MappingStyle   *string             `hcl:"mapping_style,optional"`
	TypeSafeValues *bool               `hcl:"type_safe_values,optional"`
	Entities       []*entityBlock      `hcl:"entity,block"`
	ValueObjects   []*valueObjectBlock `hcl:"value_object,block"`
	Values         []*valueBlock       `hcl:"value,block"`
}

type entityBlock struct {
	Name       string   `hcl:"name,label"`
	IDProperty string   `hcl:"id_property,optional"`
	Remain     hcl.Body `hcl:",remain"`
}

type valueObjectBlock struct {
	Name   string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`
}

type valueBlock struct {
	Name   string   `hcl:"name,label"`
	Codec  string   `hcl:"codec,optional"`
	Remain hcl.Body `hcl:",remain"`
}
