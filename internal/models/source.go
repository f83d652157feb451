package models

import "strings"

// Source identifies a monitored source. The display name is derived
// from the opaque id: one trailing underscore is trimmed, remaining
// underscores become spaces ("Great_Barrier_" -> "Great Barrier").
type Source struct {
	ID   string `cbor:"1,keyasint" json:"id"`
	Name string `cbor:"2,keyasint" json:"name"`
}

// NewSource builds a Source with its derived display name.
func NewSource(id string) Source {
	return Source{ID: id, Name: DisplayName(id)}
}

// DisplayName converts a source id to its human-readable form.
func DisplayName(id string) string {
	return strings.ReplaceAll(strings.TrimSuffix(id, "_"), "_", " ")
}
