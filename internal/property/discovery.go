package property

import (
	"reflect"
	"sort"
	"strings"

	"github.com/vk/typeboot/internal/mapping"
	"github.com/vk/typeboot/internal/metaerr"
)

// Discoverer enumerates the properties of a struct type in a deterministic
// order.
type Discoverer interface {
	Discover(t reflect.Type) ([]Descriptor, error)
}

// ForStyle returns the built-in Discoverer for a mapping style.
func ForStyle(style mapping.Style) (Discoverer, error) {
	switch style {
	case mapping.Field:
		return FieldDiscoverer{}, nil
	case mapping.Accessor:
		return AccessorDiscoverer{}, nil
	default:
		return nil, metaerr.InvalidArgument("no property discoverer for mapping style %d", int(style))
	}
}

// FieldDiscoverer reads exported struct fields. Embedded structs are
// flattened in place unless they carry a tag name.
type FieldDiscoverer struct{}

// Discover implements Discoverer.
func (FieldDiscoverer) Discover(t reflect.Type) ([]Descriptor, error) {
	t, err := structType(t)
	if err != nil {
		return nil, err
	}

	var props []Descriptor
	seen := make(map[string]string)
	for _, sf := range walkFields(t) {
		if sf.tag.transient || !sf.field.IsExported() {
			continue
		}
		name := sf.tag.name
		if name == "" {
			name = lowerFirst(sf.field.Name)
		}
		if prev, dup := seen[name]; dup {
			return nil, duplicateName(t, name, prev, sf.field.Name)
		}
		seen[name] = sf.field.Name
		props = append(props, Descriptor{
			Name:       name,
			GoName:     sf.field.Name,
			Type:       sf.field.Type,
			Index:      sf.index,
			ID:         sf.tag.id,
			Collection: isCollection(sf.field.Type),
		})
	}
	return props, nil
}

// AccessorDiscoverer reads getter-like methods: exported, no parameters,
// exactly one non-error result. Both Name() and GetName() map to "name".
// Getters are ordered by the declaration order of their backing field;
// getters without one follow in method-set order.
type AccessorDiscoverer struct{}

var notGetters = map[string]bool{"String": true, "GoString": true, "Error": true}

var errorType = reflect.TypeFor[error]()

// Discover implements Discoverer.
func (AccessorDiscoverer) Discover(t reflect.Type) ([]Descriptor, error) {
	t, err := structType(t)
	if err != nil {
		return nil, err
	}

	fields := walkFields(t)
	type ranked struct {
		rank int
		desc Descriptor
	}
	var found []ranked

	ptr := reflect.PointerTo(t)
	for i := 0; i < ptr.NumMethod(); i++ {
		m := ptr.Method(i)
		if notGetters[m.Name] || m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			continue
		}
		out := m.Type.Out(0)
		if out == errorType {
			continue
		}
		base := getterBase(m.Name, out)

		rank := len(fields) + i
		desc := Descriptor{
			Name:       lowerFirst(base),
			GoName:     m.Name,
			Type:       out,
			Method:     m.Name,
			Collection: isCollection(out),
		}
		if pos, sf, ok := backingField(fields, base); ok {
			if sf.tag.transient {
				continue
			}
			rank = pos
			desc.Index = sf.index
			desc.ID = sf.tag.id
			if sf.tag.name != "" {
				desc.Name = sf.tag.name
			}
		}
		found = append(found, ranked{rank: rank, desc: desc})
	}

	sort.SliceStable(found, func(a, b int) bool { return found[a].rank < found[b].rank })

	props := make([]Descriptor, 0, len(found))
	seen := make(map[string]string)
	for _, r := range found {
		if prev, dup := seen[r.desc.Name]; dup {
			return nil, duplicateName(t, r.desc.Name, prev, r.desc.GoName)
		}
		seen[r.desc.Name] = r.desc.GoName
		props = append(props, r.desc)
	}
	return props, nil
}

func getterBase(name string, out reflect.Type) string {
	if rest, ok := strings.CutPrefix(name, "Get"); ok && isUpperStart(rest) {
		return rest
	}
	if rest, ok := strings.CutPrefix(name, "Is"); ok && isUpperStart(rest) && out.Kind() == reflect.Bool {
		return rest
	}
	return name
}

func backingField(fields []structField, base string) (int, structField, bool) {
	for i, sf := range fields {
		if strings.EqualFold(sf.field.Name, base) {
			return i, sf, true
		}
	}
	return 0, structField{}, false
}

type structField struct {
	field reflect.StructField
	index []int
	tag   tagInfo
}

// walkFields lists every field of t in declaration order, exported or not,
// with anonymous untagged struct fields flattened.
func walkFields(t reflect.Type) []structField {
	var out []structField
	active := make(map[reflect.Type]bool)

	var walk func(t reflect.Type, prefix []int)
	walk = func(t reflect.Type, prefix []int) {
		if active[t] {
			return
		}
		active[t] = true
		defer delete(active, t)

		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			idx := append(append([]int(nil), prefix...), i)
			tag := parseTag(f)
			if f.Anonymous && tag.name == "" && !tag.transient {
				ft := f.Type
				if ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					walk(ft, idx)
					continue
				}
			}
			out = append(out, structField{field: f, index: idx, tag: tag})
		}
	}
	walk(t, nil)
	return out
}

func structType(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, metaerr.InvalidArgument("cannot discover properties of a nil type")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, metaerr.New(metaerr.CodePropertyNotResolvable, t, "only struct types have properties, got kind %s", t.Kind())
	}
	return t, nil
}

func duplicateName(t reflect.Type, name, first, second string) error {
	e := metaerr.New(metaerr.CodePropertyNotResolvable, t, "%s and %s both map to the same property", first, second)
	e.Property = name
	return e
}
