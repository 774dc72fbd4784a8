package manifest

import "github.com/hashicorp/hcl/v2"

// Kind is the role a manifest declares for a class.
type Kind int

const (
	KindEntity Kind = iota + 1
	KindValueObject
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindValueObject:
		return "value_object"
	case KindValue:
		return "value"
	default:
		return "unknown"
	}
}

// Manifest is the format-agnostic result of loading one or more files.
type Manifest struct {
	// MappingStyle is empty when no file sets it.
	MappingStyle   string
	TypeSafeValues bool
	Declarations   []Declaration
}

// Declaration is one class declaration from a manifest.
type Declaration struct {
	Kind       Kind
	TypeName   string
	IDProperty string // entities only
	Codec      string // values only
	Range      hcl.Range
}
