package pir

import (
	"fmt"
	"math/bits"

	"github.com/blocklane/pir/rlwe"
)

// PirParams bundles the RLWE parameters a lane shares with every query
// variant and the grid factorisation of that lane's record count
// (SPEC_FULL §3: "each lane is an independent PIR instance but shares
// protocol parameters").
type PirParams struct {
	Version          uint16
	Rlwe             rlwe.Parameters
	NumRecords       int
	D1, D2           int
	RecordWidthBytes int
}

// NewPirParams validates and builds the grid for a lane holding
// numRecords records, each up to recordWidthBytes bytes. version is the
// parameter-set identity carried on the wire (SPEC_FULL §3): a client
// and server with mismatching versions MUST refuse to interoperate,
// checked by server.Lifecycle before any ring arithmetic runs.
func NewPirParams(rlweParams rlwe.Parameters, version uint16, numRecords, recordWidthBytes int) (PirParams, error) {
	if numRecords <= 0 {
		return PirParams{}, fmt.Errorf("pir: numRecords must be positive, got %d", numRecords)
	}

	d1, d2 := FactorGrid(numRecords)
	if d1 > rlweParams.N() {
		return PirParams{}, fmt.Errorf("pir: grid first dimension %d exceeds ring degree %d", d1, rlweParams.N())
	}

	maxWidth := rlweParams.N() / d2
	if recordWidthBytes <= 0 || recordWidthBytes > maxWidth {
		return PirParams{}, fmt.Errorf("pir: record width %d bytes exceeds the %d bytes available per record at grid (%d,%d)", recordWidthBytes, maxWidth, d1, d2)
	}

	return PirParams{
		Version:          version,
		Rlwe:             rlweParams,
		NumRecords:       numRecords,
		D1:               d1,
		D2:               d2,
		RecordWidthBytes: recordWidthBytes,
	}, nil
}

// LogFanout returns log2(D1), the number of oblivious-expansion rounds
// a Switched query needs (SPEC_FULL §4.2). FactorGrid always returns a
// power-of-two D1, so this is exact.
func (p PirParams) LogFanout() int {
	return bits.TrailingZeros(uint(p.D1))
}

// RowIndex splits a flat record index into its (row, column) grid
// coordinates.
func (p PirParams) RowIndex(index int) (row, col int) {
	return index / p.D2, index % p.D2
}
