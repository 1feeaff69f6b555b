package model

import (
	"encoding/json"
	"fmt"
	"maps"
)

// DateLayout is the date format used by timestepper start and end
const DateLayout = "2006-01-02"

// Metadata describes the network document. Data keeps the full source
// object so unknown keys survive a round trip.
type Metadata struct {
	Title          string         `json:"title" validate:"required"`
	Description    string         `json:"description"`
	MinimumVersion string         `json:"minimum_version"`
	Data           map[string]any `json:"-"`
}

// NewMetadata decodes the metadata object
func NewMetadata(data map[string]any) (*Metadata, error) {
	m := &Metadata{Data: data}
	if err := decodeInto(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metadata) AsDict() map[string]any { return maps.Clone(m.Data) }

// Timestepper defines the simulated period. Timestep is either a positive
// integer number of days or a frequency string.
type Timestepper struct {
	Start    string         `json:"start" validate:"required,datetime=2006-01-02"`
	End      string         `json:"end" validate:"required,datetime=2006-01-02"`
	Timestep any            `json:"timestep" validate:"required"`
	Data     map[string]any `json:"-"`
}

// NewTimestepper decodes the timestepper object
func NewTimestepper(data map[string]any) (*Timestepper, error) {
	ts := &Timestepper{Data: data}
	if err := decodeInto(data, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (ts *Timestepper) AsDict() map[string]any { return maps.Clone(ts.Data) }

// decodeInto fills the tagged fields of v from a decoded JSON object
func decodeInto(data map[string]any, v any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %T: %w", v, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}
