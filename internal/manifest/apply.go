package manifest

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/typeboot/internal/converter"
	"github.com/vk/typeboot/internal/ctxlog"
	"github.com/vk/typeboot/internal/mapping"
	"github.com/vk/typeboot/internal/metaerr"
)

// Catalog maps the names used in a manifest to compiled-in types and codecs.
type Catalog struct {
	Types  map[string]reflect.Type
	Codecs map[string]converter.Codec
}

// TypeNames returns the catalogued type names in sorted order.
func (c Catalog) TypeNames() []string {
	names := make([]string, 0, len(c.Types))
	for n := range c.Types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Target is the configuration surface a manifest is replayed onto.
// *app.Builder satisfies it.
type Target interface {
	SetMappingStyle(style mapping.Style) error
	TypeSafeValues() error
	RegisterEntity(t reflect.Type) error
	RegisterEntityWithID(t reflect.Type, idProperty string) error
	RegisterValueObject(t reflect.Type) error
	RegisterValue(t reflect.Type) error
	RegisterValueTypeAdapter(c converter.Codec) error
	RegisterValueAdapterFor(t reflect.Type, c converter.Codec) error
}

// Apply replays m onto target in declaration order, resolving names
// through cat. It stops at the first error.
func Apply(ctx context.Context, m *Manifest, cat Catalog, target Target) error {
	if m == nil || target == nil {
		return metaerr.InvalidArgument("manifest and target must not be nil")
	}
	logger := ctxlog.FromContext(ctx)

	if m.MappingStyle != "" {
		style, err := mapping.Parse(m.MappingStyle)
		if err != nil {
			return err
		}
		if err := target.SetMappingStyle(style); err != nil {
			return err
		}
	}
	if m.TypeSafeValues {
		if err := target.TypeSafeValues(); err != nil {
			return err
		}
	}

	for _, d := range m.Declarations {
		t, ok := cat.Types[d.TypeName]
		if !ok {
			return rangeError(d.Range, "unknown type %q in %s block", d.TypeName, d.Kind)
		}
		if err := applyOne(d, t, cat, target); err != nil {
			return fmt.Errorf("%s %q: %w", d.Kind, d.TypeName, err)
		}
		logger.Debug("Applied manifest declaration.", "kind", d.Kind.String(), "type", d.TypeName)
	}
	return nil
}

func applyOne(d Declaration, t reflect.Type, cat Catalog, target Target) error {
	switch d.Kind {
	case KindEntity:
		if d.IDProperty != "" {
			return target.RegisterEntityWithID(t, d.IDProperty)
		}
		return target.RegisterEntity(t)
	case KindValueObject:
		return target.RegisterValueObject(t)
	case KindValue:
		if d.Codec == "" {
			return target.RegisterValue(t)
		}
		c, ok := cat.Codecs[d.Codec]
		if !ok {
			return rangeError(d.Range, "unknown codec %q", d.Codec)
		}
		switch vt := c.ValueType(); {
		case vt == nil:
			return target.RegisterValueAdapterFor(t, c)
		case vt == t:
			return target.RegisterValueTypeAdapter(c)
		default:
			return rangeError(d.Range, "codec %q handles %s, not %s", d.Codec, vt, t)
		}
	default:
		return metaerr.Internal(nil, "unhandled declaration kind %d", d.Kind)
	}
}

func rangeError(rng hcl.Range, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if rng.Filename != "" {
		msg = rng.String() + ": " + msg
	}
	return metaerr.InvalidArgument("%s", msg)
}
