package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/vk/typeboot/internal/converter"
	"github.com/vk/typeboot/internal/ctxlog"
	"github.com/vk/typeboot/internal/definition"
	"github.com/vk/typeboot/internal/factory"
	"github.com/vk/typeboot/internal/mapping"
	"github.com/vk/typeboot/internal/metaerr"
	"github.com/vk/typeboot/internal/registry"
)

// Builder is the configuration surface of the bootstrap pipeline. It is
// meant for a single goroutine; it has no internal locking.
type Builder struct {
	ctx      context.Context
	logger   *slog.Logger
	state    State
	style    mapping.Style
	defs     *definition.Set
	adapters *converter.AdapterRegistry
	registry *registry.Registry
}

// New creates a Builder in the Configuring state. Logs go to outW using the
// format and level from cfg; a nil cfg means defaults.
func New(outW io.Writer, cfg *Config) (*Builder, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg, err := NewConfig(*cfg)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	style, _ := mapping.Parse(cfg.MappingStyle)

	b := &Builder{
		ctx:      ctxlog.WithLogger(context.Background(), logger),
		logger:   logger,
		state:    Configuring,
		style:    style,
		defs:     definition.NewSet(),
		adapters: converter.NewAdapterRegistry(),
		registry: registry.New(),
	}
	if cfg.TypeSafeValues {
		if err := b.adapters.SetTypeSafe(true); err != nil {
			return nil, err
		}
	}
	logger.Debug("Builder configured.", "mapping_style", style.String(), "type_safe_values", cfg.TypeSafeValues)
	return b, nil
}

// Context returns a context carrying the builder's logger, for
// collaborators that should log alongside the pipeline.
func (b *Builder) Context() context.Context {
	return b.ctx
}

// State returns the current lifecycle state.
func (b *Builder) State() State {
	return b.state
}

// RegisterEntity declares t as an Entity whose identity is found through
// the id marker.
func (b *Builder) RegisterEntity(t reflect.Type) error {
	return b.RegisterEntityWithID(t, "")
}

// RegisterEntityWithID declares t as an Entity with an explicit id property.
func (b *Builder) RegisterEntityWithID(t reflect.Type, idProperty string) error {
	if err := b.checkStructArg("RegisterEntity", t); err != nil {
		return err
	}
	b.put(definition.NewEntity(t, idProperty))
	return nil
}

// RegisterEntities declares each type as an Entity resolved by marker.
// Nothing is recorded if any argument is invalid.
func (b *Builder) RegisterEntities(ts ...reflect.Type) error {
	for _, t := range ts {
		if err := b.checkStructArg("RegisterEntities", t); err != nil {
			return err
		}
	}
	for _, t := range ts {
		b.put(definition.NewEntity(t, ""))
	}
	return nil
}

// RegisterValueObject declares t as a ValueObject.
func (b *Builder) RegisterValueObject(t reflect.Type) error {
	return b.RegisterValueObjects(t)
}

// RegisterValueObjects declares each type as a ValueObject. Nothing is
// recorded if any argument is invalid.
func (b *Builder) RegisterValueObjects(ts ...reflect.Type) error {
	for _, t := range ts {
		if err := b.checkStructArg("RegisterValueObjects", t); err != nil {
			return err
		}
	}
	for _, t := range ts {
		b.put(definition.NewValueObject(t))
	}
	return nil
}

// RegisterValue declares t as a Value type without a codec.
func (b *Builder) RegisterValue(t reflect.Type) error {
	if err := b.checkArg("RegisterValue", t); err != nil {
		return err
	}
	b.put(definition.NewValueType(t, nil))
	return nil
}

// RegisterValueTypeAdapter declares c.ValueType() as a Value and binds c as
// its codec.
func (b *Builder) RegisterValueTypeAdapter(c converter.Codec) error {
	if c == nil {
		if err := b.checkState("RegisterValueTypeAdapter"); err != nil {
			return err
		}
		return metaerr.InvalidArgument("RegisterValueTypeAdapter: codec must not be nil")
	}
	return b.RegisterValueAdapterFor(c.ValueType(), c)
}

// RegisterValueAdapterFor declares t as a Value and binds c as its codec.
// Use it for codecs that do not carry their own type.
func (b *Builder) RegisterValueAdapterFor(t reflect.Type, c converter.Codec) error {
	if err := b.checkArg("RegisterValueAdapterFor", t); err != nil {
		return err
	}
	if c == nil {
		return metaerr.InvalidArgument("RegisterValueAdapterFor: codec for %s must not be nil", t)
	}
	def := definition.NewValueType(t, c)
	b.put(def)
	return b.adapters.Bind(def.Class(), c)
}

// TypeSafeValues makes the converter write type-tagged JSON documents.
func (b *Builder) TypeSafeValues() error {
	if err := b.checkState("TypeSafeValues"); err != nil {
		return err
	}
	return b.adapters.SetTypeSafe(true)
}

// SetMappingStyle selects how properties are discovered.
func (b *Builder) SetMappingStyle(style mapping.Style) error {
	if err := b.checkState("SetMappingStyle"); err != nil {
		return err
	}
	if !style.Valid() {
		return metaerr.InvalidArgument("SetMappingStyle: unrecognized mapping style %d", int(style))
	}
	b.style = style
	return nil
}

// Build runs the pipeline and returns the finished System. It may be
// called once; a failed Build leaves the Builder in the Failed state.
func (b *Builder) Build() (*System, error) {
	if err := b.checkState("Build"); err != nil {
		return nil, err
	}
	ctx := ctxlog.With(b.ctx, "mapping_style", b.style.String())

	b.transition(ctx, BootingSerialization)
	conv, err := b.adapters.Freeze()
	if err != nil {
		return b.fail(ctx, err)
	}

	b.transition(ctx, ResolvingMetadata)
	f, err := factory.New(b.style)
	if err != nil {
		return b.fail(ctx, err)
	}

	batch := registry.NewBatch()
	for _, def := range b.defs.All() {
		if v, ok := def.(definition.ValueTypeDeclaration); ok {
			batch.RegisterValueType(v.Class(), v.Codec)
			continue
		}
		md, err := f.Create(ctx, def)
		if err != nil {
			return b.fail(ctx, fmt.Errorf("failed to resolve %s: %w", def.Class(), err))
		}
		batch.Publish(def.Class(), md)
	}
	if err := b.registry.Commit(batch); err != nil {
		return b.fail(ctx, fmt.Errorf("failed to publish metadata: %w", err))
	}
	b.registry.Seal()

	b.transition(ctx, Ready)
	sys := &System{registry: b.registry, converter: conv, style: b.style}
	b.defs = nil
	ctxlog.FromContext(ctx).Info("Type registry ready.", "classes", sys.registry.Len())
	return sys, nil
}

func (b *Builder) put(def definition.Definition) {
	replaced, ok := b.defs.Put(def)
	if !ok {
		b.logger.Debug("Declared class.", "class", def.Class().String(), "definition", fmt.Sprintf("%T", def))
		return
	}
	b.logger.Debug("Replaced class declaration.", "class", def.Class().String(),
		"old", fmt.Sprintf("%T", replaced), "new", fmt.Sprintf("%T", def))
	if v, wasValue := replaced.(definition.ValueTypeDeclaration); wasValue && v.Codec != nil {
		// Unbind cannot fail while configuring.
		_ = b.adapters.Unbind(v.Class())
	}
}

func (b *Builder) transition(ctx context.Context, next State) {
	ctxlog.FromContext(ctx).Debug("Pipeline state changed.", "from", b.state.String(), "to", next.String())
	b.state = next
}

func (b *Builder) fail(ctx context.Context, err error) (*System, error) {
	ctxlog.FromContext(ctx).Error("Bootstrap aborted.", "state", b.state.String(), "error", err)
	b.state = Failed
	return nil, err
}

func (b *Builder) checkState(op string) error {
	if b.state != Configuring {
		return metaerr.IllegalState("%s: builder is %s, configuration is closed", op, b.state)
	}
	return nil
}

func (b *Builder) checkArg(op string, t reflect.Type) error {
	if err := b.checkState(op); err != nil {
		return err
	}
	if t == nil {
		return metaerr.InvalidArgument("%s: class must not be nil", op)
	}
	return nil
}

func (b *Builder) checkStructArg(op string, t reflect.Type) error {
	if err := b.checkArg(op, t); err != nil {
		return err
	}
	if k := definition.Normalize(t).Kind(); k != reflect.Struct {
		return metaerr.InvalidArgument("%s: %s is a %s, only structs have properties", op, t, k)
	}
	return nil
}
