// Package factory resolves pending Definitions into immutable managed-class
// metadata. Resolution is pure: it reads the class through a property
// Discoverer and writes nothing shared.
package factory

import (
	"context"
	"strings"

	"github.com/vk/typeboot/internal/ctxlog"
	"github.com/vk/typeboot/internal/definition"
	"github.com/vk/typeboot/internal/mapping"
	"github.com/vk/typeboot/internal/metadata"
	"github.com/vk/typeboot/internal/metaerr"
	"github.com/vk/typeboot/internal/property"
)

// Factory turns Definitions into metadata.ManagedClass values.
type Factory struct {
	style      mapping.Style
	discoverer property.Discoverer
}

// New creates a Factory that discovers properties according to style.
func New(style mapping.Style) (*Factory, error) {
	d, err := property.ForStyle(style)
	if err != nil {
		return nil, err
	}
	return &Factory{style: style, discoverer: d}, nil
}

// NewWithDiscoverer creates a Factory around a custom discovery strategy.
func NewWithDiscoverer(d property.Discoverer) *Factory {
	return &Factory{style: mapping.Default, discoverer: d}
}

// Create resolves def. Errors name the class and the structural problem.
func (f *Factory) Create(ctx context.Context, def definition.Definition) (metadata.ManagedClass, error) {
	logger := ctxlog.FromContext(ctx)

	switch d := def.(type) {
	case definition.EntityDefinition:
		return f.createEntity(ctx, d)
	case definition.ValueObjectDefinition:
		props, err := f.discoverer.Discover(d.Class())
		if err != nil {
			return nil, err
		}
		logger.Debug("Resolved value object.", "class", d.Class().String(), "properties", len(props))
		return metadata.NewValueObject(d.Class(), props), nil
	case definition.ValueTypeDeclaration:
		logger.Debug("Resolved value type.", "class", d.Class().String(), "codec", d.Codec != nil)
		return metadata.NewValueType(d.Class(), d.Codec), nil
	default:
		return nil, metaerr.Internal(nil, "unknown definition %T", def)
	}
}

func (f *Factory) createEntity(ctx context.Context, d definition.EntityDefinition) (metadata.ManagedClass, error) {
	logger := ctxlog.FromContext(ctx)
	class := d.Class()

	props, err := f.discoverer.Discover(class)
	if err != nil {
		return nil, err
	}

	idx := -1
	if d.IDProperty != "" {
		for i, p := range props {
			if p.Name == d.IDProperty || p.GoName == d.IDProperty {
				idx = i
				break
			}
		}
		if idx < 0 {
			e := metaerr.New(metaerr.CodeIdPropertyNotFound, class,
				"no %s property with that name among [%s]", f.style, joinNames(props))
			e.Property = d.IDProperty
			return nil, e
		}
	} else {
		var candidates []string
		for i, p := range props {
			if p.ID {
				idx = i
				candidates = append(candidates, p.Name)
			}
		}
		switch len(candidates) {
		case 1:
		case 0:
			return nil, metaerr.New(metaerr.CodeNoIdPropertyFound, class,
				"no %s property is marked `%s:\",id\"` and no id property name was given", f.style, property.TagKey)
		default:
			return nil, metaerr.New(metaerr.CodeNoIdPropertyFound, class,
				"ambiguous identity, %d properties are marked as id: %s", len(candidates), strings.Join(candidates, ", "))
		}
	}

	id := props[idx]
	rest := make([]property.Descriptor, 0, len(props)-1)
	rest = append(rest, props[:idx]...)
	rest = append(rest, props[idx+1:]...)

	logger.Debug("Resolved entity.", "class", class.String(), "id", id.Name, "properties", len(rest))
	return metadata.NewEntity(class, id, rest), nil
}

func joinNames(props []property.Descriptor) string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
