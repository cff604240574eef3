package model

import "github.com/JKrag/punnett-simulator/internal/genetics"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Pairing is a named pair of parents kept for later crosses.
type Pairing struct {
	VersionedRecord
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Parent1      genetics.Genotype `json:"parent1"`
	Parent2      genetics.Genotype `json:"parent2"`
	CreatedAtUTC string            `json:"created_at_utc"`
}
