package property

import (
	"fmt"
	"reflect"
)

// Descriptor describes one resolved property of a domain class.
type Descriptor struct {
	// Name is the logical property name used by lookups and codecs.
	Name string
	// GoName is the struct field or method the property is read from.
	GoName string
	// Type is the Go type of the property value.
	Type reflect.Type
	// Index is the field path for field properties, or the backing field
	// of an accessor property. Nil when an accessor has no backing field.
	Index []int
	// Method is set for accessor properties.
	Method string
	// ID marks an identity candidate.
	ID bool
	// Collection is true for slices, arrays and maps other than []byte.
	Collection bool
}

// IsAccessor reports whether the property is read through a method.
func (d Descriptor) IsAccessor() bool {
	return d.Method != ""
}

// Get reads the property from v, which must be a value of the declaring
// struct type or a pointer to one. A nil embedded pointer on the path yields
// the zero value of the property type.
func (d Descriptor) Get(v reflect.Value) (reflect.Value, error) {
	if d.IsAccessor() {
		if v.Kind() != reflect.Pointer {
			ptr := reflect.New(v.Type())
			ptr.Elem().Set(v)
			v = ptr
		}
		m := v.MethodByName(d.Method)
		if !m.IsValid() {
			return reflect.Value{}, fmt.Errorf("property %q: method %s not found on %s", d.Name, d.Method, v.Type())
		}
		return m.Call(nil)[0], nil
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Zero(d.Type), nil
		}
		v = v.Elem()
	}
	f, err := v.FieldByIndexErr(d.Index)
	if err != nil {
		return reflect.Zero(d.Type), nil
	}
	return f, nil
}

// Set writes val into the field behind the property. v must be addressable.
// Nil embedded pointers on the path are allocated.
func (d Descriptor) Set(v reflect.Value, val reflect.Value) error {
	if d.Index == nil {
		return fmt.Errorf("property %q has no backing field", d.Name)
	}
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	for i, x := range d.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	if !v.CanSet() {
		return fmt.Errorf("property %q: field %s is not settable", d.Name, d.GoName)
	}
	v.Set(val)
	return nil
}

func isCollection(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Uint8
	case reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}
