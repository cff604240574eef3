package storage

import (
	"encoding/json"
	"errors"

	"github.com/JKrag/punnett-simulator/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// CurrentVersion is the record header new records are written with.
func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodePairing(p model.Pairing) ([]byte, error) {
	return json.Marshal(p)
}

// DecodePairing decodes a pairing payload. Parent genotypes are validated by
// the genotype decoder, so a tampered payload with foreign alleles fails here.
func DecodePairing(data []byte) (model.Pairing, error) {
	var pairing model.Pairing
	if err := json.Unmarshal(data, &pairing); err != nil {
		return model.Pairing{}, err
	}
	if err := checkVersion(pairing.VersionedRecord); err != nil {
		return model.Pairing{}, err
	}
	return pairing, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
