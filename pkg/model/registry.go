package model

import "slices"

// ComponentSet is a name-keyed registry of components in insertion order
type ComponentSet[T Component] struct {
	order  []string
	byName map[string]T
}

// NewComponentSet creates an empty registry
func NewComponentSet[T Component]() *ComponentSet[T] {
	return &ComponentSet[T]{byName: make(map[string]T)}
}

func (s *ComponentSet[T]) Get(name string) (T, bool) {
	c, ok := s.byName[name]
	return c, ok
}

func (s *ComponentSet[T]) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Set stores c under name, keeping the original position when replacing
func (s *ComponentSet[T]) Set(name string, c T) {
	if _, exists := s.byName[name]; !exists {
		s.order = append(s.order, name)
	}
	s.byName[name] = c
}

// Delete removes name. It reports whether the name was present.
func (s *ComponentSet[T]) Delete(name string) bool {
	if _, exists := s.byName[name]; !exists {
		return false
	}
	delete(s.byName, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	return true
}

func (s *ComponentSet[T]) Len() int {
	return len(s.order)
}

// Names returns registered names in insertion order
func (s *ComponentSet[T]) Names() []string {
	return slices.Clone(s.order)
}

// Values returns registered components in insertion order
func (s *ComponentSet[T]) Values() []T {
	out := make([]T, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// AsDict returns the document form: name mapped to definition
func (s *ComponentSet[T]) AsDict() map[string]any {
	out := make(map[string]any, len(s.order))
	for _, name := range s.order {
		out[name] = s.byName[name].AsDict()
	}
	return out
}
