package definition

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type (
	order    struct{ ID string }
	customer struct{ ID string }
	address  struct{ City string }
	currency string
)

var classes = []reflect.Type{
	reflect.TypeFor[order](),
	reflect.TypeFor[customer](),
	reflect.TypeFor[address](),
	reflect.TypeFor[currency](),
}

func TestSet_RedeclaringEntityKeepsLastIDProperty(t *testing.T) {
	testCases := []struct {
		name  string
		first string
		last  string
	}{
		{name: "id then uuid", first: "id", last: "uuid"},
		{name: "uuid then id", first: "uuid", last: "id"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSet()
			s.Put(NewEntity(reflect.TypeFor[order](), tc.first))
			replaced, ok := s.Put(NewEntity(reflect.TypeFor[*order](), tc.last))

			require.True(t, ok)
			assert.Equal(t, tc.first, replaced.(EntityDefinition).IDProperty)
			assert.Equal(t, 1, s.Len())

			def, ok := s.Get(reflect.TypeFor[order]())
			require.True(t, ok)
			assert.Equal(t, tc.last, def.(EntityDefinition).IDProperty)
		})
	}
}

func TestSet_ReplaceAcrossKindsKeepsPosition(t *testing.T) {
	s := NewSet()
	s.Put(NewValueObject(reflect.TypeFor[order]()))
	s.Put(NewValueObject(reflect.TypeFor[address]()))
	s.Put(NewEntity(reflect.TypeFor[order](), ""))

	all := s.All()
	require.Len(t, all, 2)
	assert.IsType(t, EntityDefinition{}, all[0])
	assert.Equal(t, reflect.TypeFor[address](), all[1].Class())
}

// Whatever the order and kind of declarations, the set holds exactly one
// definition per class and it is the last one declared.
func TestSet_LastDeclarationWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")
		s := NewSet()
		last := make(map[reflect.Type]Definition)

		for i := 0; i < n; i++ {
			class := rapid.SampledFrom(classes).Draw(t, "class")
			var def Definition
			switch rapid.IntRange(0, 2).Draw(t, "kind") {
			case 0:
				def = NewEntity(class, rapid.SampledFrom([]string{"", "id", "uuid"}).Draw(t, "id"))
			case 1:
				def = NewValueObject(class)
			default:
				def = NewValueType(class, nil)
			}
			s.Put(def)
			last[class] = def
		}

		if s.Len() != len(last) {
			t.Fatalf("set holds %d definitions, want %d", s.Len(), len(last))
		}
		for class, want := range last {
			got, ok := s.Get(class)
			if !ok || got != want {
				t.Fatalf("class %s: got %#v, want %#v", class, got, want)
			}
		}
	})
}
