package jsonschema

import (
	j "github.com/goccy/go-json"
)

// Marshal renders s as compact JSON.
func Marshal(s *Schema) ([]byte, error) {
	return j.Marshal(s)
}

// MarshalIndent renders s as human-readable JSON (two-space indent).
func MarshalIndent(s *Schema) ([]byte, error) {
	return j.MarshalIndent(s, "", "  ")
}

// Decode parses a generic JSON Schema document (as produced by Marshal or
// authored by hand) back into a Schema. Unknown keywords are dropped.
func Decode(data []byte) (*Schema, error) {
	var s Schema
	if err := j.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
