package db

import (
	"encoding/json"
	"fmt"
	"os"
)

// CrsMetadata is the JSON sidecar published next to a lane's shard files
// (spec.md §6): the public parameters a client must agree on before its
// query bytes mean anything against this lane. The key-switching and
// packing matrices themselves travel as part of rlwe.Parameters /
// rlwe.GadgetCiphertext values held by the client and server directly,
// not re-encoded here; CrsMetadata is the identity and shape the two
// sides cross-check before touching any of that.
type CrsMetadata struct {
	PirParamsVersion uint16 `json:"pir_params_version"`
	Lane             string `json:"lane"`
	EntrySize        int    `json:"entry_size"`
	EntryCount       int    `json:"entry_count"`
	BlockNumber      uint64 `json:"block_number"`
}

// LoadCrsMetadata reads and parses a CRS sidecar file.
func LoadCrsMetadata(path string) (CrsMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CrsMetadata{}, fmt.Errorf("db: read crs %s: %w", path, err)
	}
	var m CrsMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return CrsMetadata{}, fmt.Errorf("db: parse crs %s: %w", path, err)
	}
	return m, nil
}

// Save writes m as indented JSON to path.
func (m CrsMetadata) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
