package definition

import (
	"reflect"
)

// Set is an insertion-ordered collection of Definitions with at most one
// entry per class. A later Put for the same class replaces the earlier one,
// whatever its kind, and keeps the class's original position.
//
// Set is not safe for concurrent use.
type Set struct {
	index map[reflect.Type]int
	defs  []Definition
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[reflect.Type]int)}
}

// Put inserts def, returning the Definition it replaced, if any.
func (s *Set) Put(def Definition) (replaced Definition, ok bool) {
	class := def.Class()
	if i, exists := s.index[class]; exists {
		replaced = s.defs[i]
		s.defs[i] = def
		return replaced, true
	}
	s.index[class] = len(s.defs)
	s.defs = append(s.defs, def)
	return nil, false
}

// Get returns the Definition for t.
func (s *Set) Get(t reflect.Type) (Definition, bool) {
	i, ok := s.index[Normalize(t)]
	if !ok {
		return nil, false
	}
	return s.defs[i], true
}

// Len returns the number of distinct classes.
func (s *Set) Len() int {
	return len(s.defs)
}

// All returns the Definitions in insertion order.
func (s *Set) All() []Definition {
	out := make([]Definition, len(s.defs))
	copy(out, s.defs)
	return out
}
