package domain

import (
	"encoding/json"
	"fmt"
)

// Observation is one leaf record of a year's "Dados" payload: a single
// region/category measurement. Values are kept exactly as the API formats
// them; no numeric coercion happens before the clean file is written.
type Observation struct {
	GeoCode   string `json:"geocod"`
	GeoName   string `json:"geodsg"`
	CrimeCode string `json:"dim_3"`
	CrimeName string `json:"dim_3_t"`
	Value     string `json:"valor"`

	// Convention-flag bookkeeping supplied by the API. Dropped from the
	// clean table; carried here only so the raw payload decodes strictly.
	Flag     string `json:"sinal_conv"`
	FlagDesc string `json:"sinal_conv_desc"`
}

// DecodeObservations parses one year's payload into its leaf observations.
// A payload that is not an array of observation objects is an error; the
// transformer has no tolerance for schema drift.
func DecodeObservations(payload json.RawMessage) ([]Observation, error) {
	var obs []Observation
	if err := json.Unmarshal(payload, &obs); err != nil {
		return nil, fmt.Errorf("decode observations: %w", err)
	}
	return obs, nil
}
