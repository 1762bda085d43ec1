package pir

import (
	"testing"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/rlwe"
	"github.com/blocklane/pir/utils/sampling"
	"github.com/stretchr/testify/require"
)

func testRlweParams(t *testing.T) rlwe.Parameters {
	t.Helper()
	params, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		LogN:             6,
		Q:                0xffffffff00001,
		PlaintextModulus: 65537,
		Error:            ring.DiscreteGaussian{Sigma: 3.2, Bound: 19.2},
		Secret:           ring.Ternary{P: 2.0 / 3.0},
		GadgetLog2Basis:  8,
	})
	require.NoError(t, err)
	return params
}

type memRecords struct {
	numRecords int
	rows       []*rlwe.Plaintext
}

func (m *memRecords) NumRecords() int { return m.numRecords }

func newMemRecords(t *testing.T, params PirParams, records [][]byte) *memRecords {
	t.Helper()
	m := &memRecords{numRecords: len(records), rows: make([]*rlwe.Plaintext, params.D1)}
	for row := 0; row < params.D1; row++ {
		start := row * params.D2
		end := start + params.D2
		if end > len(records) {
			end = len(records)
		}
		var rowRecords [][]byte
		if start < len(records) {
			rowRecords = records[start:end]
		}
		pt, err := PackRow(params, rowRecords)
		require.NoError(t, err)
		m.rows[row] = pt
	}
	return m
}

func (m *memRecords) RowPlaintext(row int) (*rlwe.Plaintext, error) {
	return m.rows[row], nil
}

func testRecords(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte{byte(i), byte(i + 1), byte(i + 2), byte(i + 3)}
	}
	return out
}

func TestFactorGrid(t *testing.T) {
	cases := []struct {
		n      int
		d1, d2 int
	}{
		{1, 1, 1},
		{4, 2, 2},
		{5, 2, 4},
		{16, 4, 4},
	}
	for _, c := range cases {
		d1, d2 := FactorGrid(c.n)
		require.Equal(t, c.d1, d1, "n=%d", c.n)
		require.Equal(t, c.d2, d2, "n=%d", c.n)
		require.GreaterOrEqual(t, d1*d2, c.n)
	}
}

func TestPirEndToEndAllVariants(t *testing.T) {
	rlweParams := testRlweParams(t)
	records := testRecords(4)
	params, err := NewPirParams(rlweParams, 1, len(records), 4)
	require.NoError(t, err)
	require.Equal(t, 2, params.D1)
	require.Equal(t, 2, params.D2)

	src := newMemRecords(t, params, records)

	variants := []QueryVariant{Baseline, Seeded, Switched}
	packings := []PackingVariant{OnePacking, InspiRING}

	for _, variant := range variants {
		for _, packing := range packings {
			for idx := range records {
				kg := rlwe.NewKeyGenerator(rlweParams)
				source := sampling.NewSource()
				sk, err := kg.GenSecretKey(source)
				require.NoError(t, err)

				q, state, err := GenerateQuery(params, sk, idx, variant, source)
				require.NoError(t, err)

				resp, err := Respond(params, src, q, packing)
				require.NoError(t, err)

				got, err := Extract(state, resp)
				require.NoError(t, err)
				require.Equal(t, records[idx], got, "variant=%v packing=%v idx=%d", variant, packing, idx)
			}
		}
	}
}

func TestGenerateQueryRejectsOutOfRangeIndex(t *testing.T) {
	rlweParams := testRlweParams(t)
	params, err := NewPirParams(rlweParams, 1, 4, 4)
	require.NoError(t, err)

	kg := rlwe.NewKeyGenerator(rlweParams)
	source := sampling.NewSource()
	sk, err := kg.GenSecretKey(source)
	require.NoError(t, err)

	_, _, err = GenerateQuery(params, sk, 4, Baseline, source)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	_, _, err = GenerateQuery(params, sk, -1, Baseline, source)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestNewPirParamsRejectsOversizedRecordWidth(t *testing.T) {
	rlweParams := testRlweParams(t)
	_, err := NewPirParams(rlweParams, 1, 4, 1000)
	require.Error(t, err)
}
