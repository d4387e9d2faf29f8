package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// RawMapping accumulates the per-year "Dados" payloads into one mapping with
// a single top-level key per year. It remembers insertion order so the
// transformer emits rows in the order years were fetched.
type RawMapping struct {
	years []string
	data  map[string]json.RawMessage
}

// NewRawMapping returns an empty mapping.
func NewRawMapping() *RawMapping {
	return &RawMapping{data: make(map[string]json.RawMessage)}
}

// Add merges one year's payload into the mapping. Adding a year that is
// already present replaces its payload without changing its position.
func (m *RawMapping) Add(year string, payload json.RawMessage) {
	if _, ok := m.data[year]; !ok {
		m.years = append(m.years, year)
	}
	m.data[year] = payload
}

// Years returns the year keys in insertion order.
func (m *RawMapping) Years() []string {
	out := make([]string, len(m.years))
	copy(out, m.years)
	return out
}

// Get returns the payload for a year.
func (m *RawMapping) Get(year string) (json.RawMessage, bool) {
	p, ok := m.data[year]
	return p, ok
}

// Len reports how many years the mapping holds.
func (m *RawMapping) Len() int {
	return len(m.years)
}

// MarshalJSON encodes the mapping as a JSON object with one key per year,
// keys in insertion order.
func (m *RawMapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, year := range m.years {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(year)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.data[year])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a persisted mapping. JSON objects carry no order, so
// re-read years are sorted; year keys are YYYY strings, making sorted order
// chronological and identical to a full run's insertion order.
func (m *RawMapping) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	years := make([]string, 0, len(raw))
	for y := range raw {
		years = append(years, y)
	}
	sort.Strings(years)
	m.years = years
	m.data = raw
	return nil
}
