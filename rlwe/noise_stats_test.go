package rlwe

import (
	"math"
	"testing"

	"github.com/blocklane/pir/utils/sampling"
	"github.com/stretchr/testify/require"
)

func TestNoiseStatsReportsPositiveEmpiricalBudget(t *testing.T) {
	params := testParams(t)
	kg := NewKeyGenerator(params)
	sk, err := kg.GenSecretKey(sampling.NewSource())
	require.NoError(t, err)

	stats, err := NoiseStats(params, sk, sampling.NewSource(), 64)
	require.NoError(t, err)

	logStd, mean := stats[0], stats[1]
	require.False(t, math.IsNaN(logStd))
	require.False(t, math.IsNaN(mean))
	require.GreaterOrEqual(t, mean, 0.0)

	empiricalBudget := math.Log2(float64(params.Q())) - logStd
	require.Greater(t, empiricalBudget, 0.0)
}
