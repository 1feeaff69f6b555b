package model

import (
	"maps"
	"slices"
	"strings"
)

// Component is a named model sub-object held in a registry
type Component interface {
	ComponentName() string
	AsDict() map[string]any
}

// Parameter is a named parameter definition. Its type selects the
// validation rules that apply to it.
type Parameter struct {
	Name string
	Data map[string]any
}

// NewParameter creates a parameter with the given definition
func NewParameter(name string, data map[string]any) *Parameter {
	if data == nil {
		data = make(map[string]any)
	}
	return &Parameter{Name: name, Data: data}
}

func (p *Parameter) ComponentName() string { return p.Name }

// Type returns the type field, or "" when absent or not a string
func (p *Parameter) Type() string { return typeOf(p.Data) }

// Attrs returns the definition keys in sorted order
func (p *Parameter) Attrs() []string { return sortedKeys(p.Data) }

// AsDict returns a shallow copy of the definition
func (p *Parameter) AsDict() map[string]any { return maps.Clone(p.Data) }

// Recorder is a named recorder definition
type Recorder struct {
	Name string
	Data map[string]any
}

// NewRecorder creates a recorder with the given definition
func NewRecorder(name string, data map[string]any) *Recorder {
	if data == nil {
		data = make(map[string]any)
	}
	return &Recorder{Name: name, Data: data}
}

func (r *Recorder) ComponentName() string  { return r.Name }
func (r *Recorder) Type() string           { return typeOf(r.Data) }
func (r *Recorder) Attrs() []string        { return sortedKeys(r.Data) }
func (r *Recorder) AsDict() map[string]any { return maps.Clone(r.Data) }

// Table is a named auxiliary data blob. It is opaque to reference resolution.
type Table struct {
	Name string
	Data map[string]any
}

func NewTable(name string, data map[string]any) *Table {
	if data == nil {
		data = make(map[string]any)
	}
	return &Table{Name: name, Data: data}
}

func (t *Table) ComponentName() string  { return t.Name }
func (t *Table) AsDict() map[string]any { return maps.Clone(t.Data) }

// Scenario is a named scenario dimension
type Scenario struct {
	Name string         `json:"name" validate:"required"`
	Size int            `json:"size" validate:"min=1"`
	Data map[string]any `json:"-"`
}

// NewScenario decodes a scenario definition
func NewScenario(data map[string]any) (*Scenario, error) {
	s := &Scenario{Data: data}
	if err := decodeInto(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scenario) ComponentName() string  { return s.Name }
func (s *Scenario) AsDict() map[string]any { return maps.Clone(s.Data) }

// NormalizedType lowercases a component type for rule matching
func NormalizedType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func typeOf(data map[string]any) string {
	t, _ := data[AttrType].(string)
	return t
}

func sortedKeys(data map[string]any) []string {
	return slices.Sorted(maps.Keys(data))
}
