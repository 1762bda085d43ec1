package pir

import (
	"testing"

	"github.com/blocklane/pir/rlwe"
	"github.com/blocklane/pir/utils/sampling"
	"github.com/stretchr/testify/require"
)

func TestQueryWireRoundTripAllVariants(t *testing.T) {
	rlweParams := testRlweParams(t)
	params, err := NewPirParams(rlweParams, 1, 4, 4)
	require.NoError(t, err)

	kg := rlwe.NewKeyGenerator(rlweParams)
	source := sampling.NewSource()
	sk, err := kg.GenSecretKey(source)
	require.NoError(t, err)

	for _, variant := range []QueryVariant{Baseline, Seeded, Switched} {
		q, _, err := GenerateQuery(params, sk, 2, variant, source)
		require.NoError(t, err, "variant=%v", variant)

		data, err := q.MarshalBinary()
		require.NoError(t, err)

		got, err := DecodeQuery(data, rlweParams)
		require.NoError(t, err)
		require.Equal(t, variant, got.Variant)

		rowCts, err := resolveRowCiphertexts(params, got)
		require.NoError(t, err, "variant=%v", variant)
		require.Len(t, rowCts, params.D1)
	}
}
