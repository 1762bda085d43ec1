package rlwe

import (
	"math/big"

	"github.com/blocklane/pir/utils/bignum"
	"github.com/blocklane/pir/utils/sampling"
)

// NoiseStats draws trials independent fresh encryptions of the all-zero
// plaintext, measures each one's NoiseOf magnitude, and aggregates them
// with bignum.Stats at 128-bit precision — enough headroom that summing
// thousands of samples drawn from a modulus near 2^60 never loses the
// precision repeated float64 accumulation would (SPEC_FULL §4.2's
// noise-growth invariant, checked here empirically rather than only by
// Parameters.NoiseBudget's closed-form estimate). Returns
// [log2(stddev), mean] of the sampled noise magnitudes.
func NoiseStats(params Parameters, sk *SecretKey, source *sampling.Source, trials int) ([2]float64, error) {
	enc, err := NewEncryptor(params, sk)
	if err != nil {
		return [2]float64{}, err
	}
	dec := NewDecryptor(params, sk)

	values := make([]big.Int, trials)
	for i := 0; i < trials; i++ {
		pt := NewPlaintext(params)
		pt.MetaData = &MetaData{IsNTT: true, IsMontgomery: true}
		ct := enc.EncryptNew(pt, source)
		values[i].SetUint64(uint64(dec.NoiseOf(ct)))
	}

	return bignum.Stats(values, 128), nil
}
