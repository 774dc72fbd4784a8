package app

import (
	"fmt"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/typeboot/internal/converter"
	"github.com/vk/typeboot/internal/mapping"
	"github.com/vk/typeboot/internal/metadata"
	"github.com/vk/typeboot/internal/metaerr"
	"github.com/vk/typeboot/internal/property"
	"github.com/vk/typeboot/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

type employee struct {
	ID   string
	Name string
}

type twoIDs struct {
	A string `meta:",id"`
	B string `meta:",id"`
}

type department struct {
	Code  string `meta:",id"`
	Title string
	Staff []employee
}

type address struct {
	Street string
	City   string
}

type money struct {
	Cents    int64
	Currency string
}

type sku string

type budget struct {
	Code   string `meta:",id"`
	Amount money
}

type account struct {
	number string `meta:",id"`
	owner  string
}

func (a *account) Number() string { return a.number }
func (a *account) Owner() string  { return a.owner }

var moneyCodec = converter.NewCodec(cty.String,
	func(m money) (cty.Value, error) {
		return cty.StringVal(fmt.Sprintf("%d %s", m.Cents, m.Currency)), nil
	},
	func(val cty.Value) (money, error) {
		var m money
		_, err := fmt.Sscanf(val.AsString(), "%d %s", &m.Cents, &m.Currency)
		return m, err
	},
)

func names(props []property.Descriptor) []string {
	var out []string
	for _, p := range props {
		out = append(out, p.Name)
	}
	return out
}

func TestBuild_ResolvesExplicitIdentity(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterEntityWithID(reflect.TypeFor[employee](), "id"))

	sys, err := b.Build()
	require.NoError(t, err)

	md, ok := LookupType[employee](sys)
	require.True(t, ok)
	entity, ok := md.(*metadata.Entity)
	require.True(t, ok, "expected entity metadata, got %T", md)
	assert.Equal(t, "id", entity.IDProperty().Name)
	if diff := cmp.Diff([]string{"name"}, names(entity.Properties())); diff != "" {
		t.Errorf("non-id properties mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterEntity_RedeclarationKeepsLast(t *testing.T) {
	testCases := []struct {
		name     string
		ids      []string
		expected string
	}{
		{name: "id then name", ids: []string{"id", "name"}, expected: "name"},
		{name: "name then id", ids: []string{"name", "id"}, expected: "id"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := SetupBuilderTest(t, Config{})
			for _, id := range tc.ids {
				require.NoError(t, b.RegisterEntityWithID(reflect.TypeFor[employee](), id))
			}
			assert.Equal(t, 1, b.defs.Len())

			sys, err := b.Build()
			require.NoError(t, err)
			md, _ := LookupType[employee](sys)
			assert.Equal(t, tc.expected, md.(*metadata.Entity).IDProperty().Name)
			assert.Equal(t, 1, sys.Registry().Len())
		})
	}
}

func TestBuild_AmbiguousIdentityFailsClosed(t *testing.T) {
	b, logs := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterEntity(reflect.TypeFor[twoIDs]()))

	sys, err := b.Build()
	require.ErrorIs(t, err, metaerr.ErrNoIdPropertyFound)
	assert.Nil(t, sys)
	assert.Contains(t, err.Error(), "app.twoIDs")
	assert.Equal(t, Failed, b.State())
	assert.Equal(t, 0, b.registry.Len())
	assert.Contains(t, logs.String(), "Bootstrap aborted.")
}

func TestBuild_IsAtomicAcrossDefinitions(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterEntity(reflect.TypeFor[department]()))
	require.NoError(t, b.RegisterEntity(reflect.TypeFor[twoIDs]()))
	require.NoError(t, b.RegisterValueObject(reflect.TypeFor[address]()))

	_, err := b.Build()
	require.Error(t, err)

	assert.Equal(t, 0, b.registry.Len(), "no definition may be visible after an aborted build")
	_, ok := b.registry.Lookup(reflect.TypeFor[department]())
	assert.False(t, ok)
}

func TestBuild_IdPropertyNotFound(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterEntityWithID(reflect.TypeFor[employee](), "uuid"))

	_, err := b.Build()
	require.ErrorIs(t, err, metaerr.ErrIdPropertyNotFound)

	var me *metaerr.Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "uuid", me.Property)
	assert.Equal(t, reflect.TypeFor[employee](), me.Class)
}

func TestBuild_FreezeOrdering(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterValueTypeAdapter(moneyCodec))

	sys, err := b.Build()
	require.NoError(t, err)
	assert.True(t, sys.Converter().Has(reflect.TypeFor[money]()))

	err = b.RegisterValueTypeAdapter(converter.TimeCodec)
	require.ErrorIs(t, err, metaerr.ErrIllegalLifecycleState)
}

func TestBuild_LookupCompleteness(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterEntities(reflect.TypeFor[department](), reflect.TypeFor[budget]()))
	require.NoError(t, b.RegisterValueObjects(reflect.TypeFor[address](), reflect.TypeFor[employee]()))
	require.NoError(t, b.RegisterValue(reflect.TypeFor[sku]()))
	require.NoError(t, b.RegisterValueTypeAdapter(moneyCodec))

	sys, err := b.Build()
	require.NoError(t, err)

	expected := map[reflect.Type]metadata.Kind{
		reflect.TypeFor[department](): metadata.KindEntity,
		reflect.TypeFor[budget]():     metadata.KindEntity,
		reflect.TypeFor[address]():    metadata.KindValueObject,
		reflect.TypeFor[employee]():   metadata.KindValueObject,
		reflect.TypeFor[sku]():        metadata.KindValue,
		reflect.TypeFor[money]():      metadata.KindValue,
	}
	for class, kind := range expected {
		md, ok := sys.Lookup(class)
		require.True(t, ok, "missing %s", class)
		assert.Equal(t, kind, md.Kind(), class.String())
	}
	assert.Equal(t, len(expected), sys.Registry().Len())

	md, _ := sys.Lookup(reflect.TypeFor[*money]())
	assert.NotNil(t, md.(*metadata.ValueType).Codec())
}

func TestBuild_ReadOnlyAfterReady(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterValueObject(reflect.TypeFor[address]()))
	_, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, Ready, b.State())

	calls := map[string]func() error{
		"RegisterEntity":                     func() error { return b.RegisterEntity(reflect.TypeFor[department]()) },
		"RegisterEntityWithID":               func() error { return b.RegisterEntityWithID(reflect.TypeFor[employee](), "id") },
		"RegisterEntities":                   func() error { return b.RegisterEntities(reflect.TypeFor[department]()) },
		"RegisterValueObject":                func() error { return b.RegisterValueObject(reflect.TypeFor[employee]()) },
		"RegisterValueObjects":               func() error { return b.RegisterValueObjects(reflect.TypeFor[employee]()) },
		"RegisterValue":                      func() error { return b.RegisterValue(reflect.TypeFor[sku]()) },
		"RegisterValueTypeAdapter":           func() error { return b.RegisterValueTypeAdapter(moneyCodec) },
		"RegisterValueAdapterFor":            func() error { return b.RegisterValueAdapterFor(reflect.TypeFor[money](), moneyCodec) },
		"TypeSafeValues":                     b.TypeSafeValues,
		"SetMappingStyle":                    func() error { return b.SetMappingStyle(mapping.Accessor) },
		"Build":                              func() error { _, err := b.Build(); return err },
		"RegisterValueTypeAdapter nil codec": func() error { return b.RegisterValueTypeAdapter(nil) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, call(), metaerr.ErrIllegalLifecycleState)
		})
	}
}

func TestBuild_FailedBuilderCannotBeReused(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterEntity(reflect.TypeFor[twoIDs]()))
	_, err := b.Build()
	require.Error(t, err)

	_, err = b.Build()
	require.ErrorIs(t, err, metaerr.ErrIllegalLifecycleState)
	require.ErrorIs(t, b.RegisterValue(reflect.TypeFor[sku]()), metaerr.ErrIllegalLifecycleState)
}

func TestRegister_InvalidArguments(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{})

	require.ErrorIs(t, b.RegisterEntity(nil), metaerr.ErrInvalidArgument)
	require.ErrorIs(t, b.RegisterEntity(reflect.TypeFor[sku]()), metaerr.ErrInvalidArgument)
	require.ErrorIs(t, b.RegisterValue(nil), metaerr.ErrInvalidArgument)
	require.ErrorIs(t, b.RegisterValueTypeAdapter(nil), metaerr.ErrInvalidArgument)
	require.ErrorIs(t, b.RegisterValueAdapterFor(reflect.TypeFor[money](), nil), metaerr.ErrInvalidArgument)
	require.ErrorIs(t, b.SetMappingStyle(mapping.Style(42)), metaerr.ErrInvalidArgument)

	native := converter.NativeCodec(cty.String,
		func(v any) (cty.Value, error) { return cty.StringVal(string(v.(sku))), nil },
		func(val cty.Value) (any, error) { return sku(val.AsString()), nil },
	)
	require.ErrorIs(t, b.RegisterValueTypeAdapter(native), metaerr.ErrInvalidArgument, "codec without a type needs an explicit one")
	require.NoError(t, b.RegisterValueAdapterFor(reflect.TypeFor[sku](), native))

	err := b.RegisterValueObjects(reflect.TypeFor[address](), nil)
	require.ErrorIs(t, err, metaerr.ErrInvalidArgument)
	_, declared := b.defs.Get(reflect.TypeFor[address]())
	assert.False(t, declared, "a batch with an invalid argument records nothing")

	assert.Equal(t, Configuring, b.State(), "invalid arguments are recoverable")
}

func TestRegister_ReplaceAcrossKinds(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterValueObject(reflect.TypeFor[department]()))
	require.NoError(t, b.RegisterEntity(reflect.TypeFor[department]()))
	require.NoError(t, b.RegisterValueTypeAdapter(moneyCodec))
	require.NoError(t, b.RegisterValueObject(reflect.TypeFor[money]()))

	sys, err := b.Build()
	require.NoError(t, err)

	md, _ := LookupType[department](sys)
	assert.Equal(t, metadata.KindEntity, md.Kind())
	md, _ = LookupType[money](sys)
	assert.Equal(t, metadata.KindValueObject, md.Kind())
	assert.False(t, sys.Converter().Has(reflect.TypeFor[money]()), "replacing a value drops its codec")
}

func TestBuild_AccessorMappingStyle(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{})
	require.NoError(t, b.SetMappingStyle(mapping.Accessor))
	require.NoError(t, b.RegisterEntity(reflect.TypeFor[account]()))

	sys, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, mapping.Accessor, sys.MappingStyle())

	md, _ := LookupType[account](sys)
	entity := md.(*metadata.Entity)
	assert.Equal(t, "Number", entity.IDProperty().Method)
	assert.Equal(t, []string{"owner"}, names(entity.Properties()))
}

func TestBuild_ConverterServesRegisteredTypes(t *testing.T) {
	b, _ := SetupBuilderTest(t, Config{TypeSafeValues: true})
	require.NoError(t, b.RegisterEntity(reflect.TypeFor[budget]()))
	require.NoError(t, b.RegisterValueTypeAdapter(moneyCodec))

	sys, err := b.Build()
	require.NoError(t, err)
	require.True(t, sys.Converter().TypeSafe())

	in := budget{Code: "Q3", Amount: money{Cents: 990, Currency: "EUR"}}
	data, err := sys.Converter().Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "990 EUR")

	var out budget
	require.NoError(t, sys.Converter().Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

type stamped struct {
	At time.Time
}

func TestBuild_ReplacedTimeCodecFallsBackToBuiltin(t *testing.T) {
	unixCodec := converter.NewCodec(cty.Number,
		func(tm time.Time) (cty.Value, error) { return cty.NumberIntVal(tm.Unix()), nil },
		func(val cty.Value) (time.Time, error) {
			sec, _ := val.AsBigFloat().Int64()
			return time.Unix(sec, 0).UTC(), nil
		},
	)
	b, _ := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterValueTypeAdapter(unixCodec))
	require.NoError(t, b.RegisterValue(reflect.TypeFor[time.Time]()))
	require.NoError(t, b.RegisterValueObject(reflect.TypeFor[stamped]()))

	sys, err := b.Build()
	require.NoError(t, err)
	require.True(t, sys.Converter().Has(reflect.TypeFor[time.Time]()))

	in := stamped{At: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	data, err := sys.Converter().Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-01-02T03:04:05Z"}`, string(data))

	var out stamped
	require.NoError(t, sys.Converter().Unmarshal(data, &out))
	assert.True(t, in.At.Equal(out.At))
}

func TestBuild_LogsOnlyThroughConfiguredLogger(t *testing.T) {
	global := &testutil.SafeBuffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(global, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	b, logs := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterEntity(reflect.TypeFor[budget]()))
	require.NoError(t, b.RegisterValueTypeAdapter(moneyCodec))
	_, err := b.Build()
	require.NoError(t, err)

	assert.Empty(t, global.String())
	assert.Contains(t, logs.String(), "component=typeboot")
}

func TestBuild_LogsPhaseTransitions(t *testing.T) {
	b, logs := SetupBuilderTest(t, Config{})
	require.NoError(t, b.RegisterValue(reflect.TypeFor[sku]()))
	_, err := b.Build()
	require.NoError(t, err)

	out := logs.String()
	for _, state := range []string{"BootingSerialization", "ResolvingMetadata", "Ready"} {
		assert.Contains(t, out, "to="+state)
	}
	assert.Contains(t, out, "Type registry ready.")
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(&testingWriter{}, &Config{MappingStyle: "columns"})
	require.ErrorIs(t, err, metaerr.ErrInvalidArgument)

	_, err = New(&testingWriter{}, &Config{LogFormat: "xml"})
	require.Error(t, err)

	b, err := New(&testingWriter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, mapping.Field, b.style)
}

type testingWriter struct{}

func (testingWriter) Write(p []byte) (int, error) { return len(p), nil }
