// Package mapping holds the process-wide mapping policy that decides how
// structural discovery reads a domain class.
package mapping

import (
	"strings"

	"github.com/vk/typeboot/internal/metaerr"
)

// Style selects the property discovery strategy.
type Style int

const (
	// Field enumerates exported struct fields. This is the default.
	Field Style = iota
	// Accessor enumerates getter-like methods.
	Accessor
)

// Default is the style used when none is configured.
const Default = Field

// String returns the lower-case name of the style.
func (s Style) String() string {
	switch s {
	case Field:
		return "field"
	case Accessor:
		return "accessor"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known styles.
func (s Style) Valid() bool {
	return s == Field || s == Accessor
}

// Parse converts a style name into a Style. Matching is case-insensitive and
// an empty name yields Default.
func Parse(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Default, nil
	case "field":
		return Field, nil
	case "accessor", "getter", "bean":
		return Accessor, nil
	default:
		return Default, metaerr.InvalidArgument("unrecognized mapping style %q: must be 'field' or 'accessor'", name)
	}
}
