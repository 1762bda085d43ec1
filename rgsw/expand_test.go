package rgsw

import (
	"testing"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/rlwe"
	"github.com/blocklane/pir/utils/sampling"
	"github.com/stretchr/testify/require"
)

func TestGaloisElementsForExpansionCount(t *testing.T) {
	els := GaloisElementsForExpansion(64, 3)
	require.Len(t, els, 3)
	for _, el := range els {
		require.Equal(t, uint64(1), el&1, "galois elements must be odd")
	}
}

type fixedKeySet map[uint64]*rlwe.GadgetCiphertext

func (s fixedKeySet) GaloisKey(galEl uint64) (*rlwe.GadgetCiphertext, bool) {
	gk, ok := s[galEl]
	return gk, ok
}

func TestExpandRejectsOversizedFanout(t *testing.T) {
	params, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		LogN:             4,
		Q:                0xffffffff00001,
		PlaintextModulus: 257,
		Error:            ring.DiscreteGaussian{Sigma: 3.2, Bound: 19.2},
		Secret:           ring.Ternary{P: 2.0 / 3.0},
		GadgetLog2Basis:  8,
	})
	require.NoError(t, err)

	kg := rlwe.NewKeyGenerator(params)
	source := sampling.NewSource()
	sk, err := kg.GenSecretKey(source)
	require.NoError(t, err)

	enc, err := rlwe.NewEncryptor(params, sk)
	require.NoError(t, err)

	ct := enc.EncryptNew(rlwe.NewPlaintext(params), source)

	ex := NewExpander(params, fixedKeySet{})
	_, err = ex.Expand(ct, 10)
	require.Error(t, err)
}

// TestExpandDoublesIsolatedCoefficient checks the actual decrypted
// values out of Expand, not just their count: each of the logFanout
// automorphism-plus-recombine rounds doubles the isolated coefficient
// (sum = m + sigma(m), diff = m - sigma(m)), so the raw output at
// index `row` carries a factor of 2^logFanout relative to the
// compressed plaintext's coefficient. Callers that want the original
// value back (pir.monomialPlaintext) must pre-scale by the modular
// inverse of that factor.
func TestExpandDoublesIsolatedCoefficient(t *testing.T) {
	params, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		LogN:             6,
		Q:                0xffffffff00001,
		PlaintextModulus: 65537,
		Error:            ring.DiscreteGaussian{Sigma: 3.2, Bound: 19.2},
		Secret:           ring.Ternary{P: 2.0 / 3.0},
		GadgetLog2Basis:  8,
	})
	require.NoError(t, err)

	kg := rlwe.NewKeyGenerator(params)
	source := sampling.NewSource()
	sk, err := kg.GenSecretKey(source)
	require.NoError(t, err)

	const logFanout = 3
	const row = 5

	keys := make(fixedKeySet)
	for _, galEl := range GaloisElementsForExpansion(params.N(), logFanout) {
		gk, err := kg.GenGaloisKey(sk, galEl, source)
		require.NoError(t, err)
		keys[galEl] = gk
	}

	r := params.Ring()
	delta := params.Q() / params.PlaintextModulus()

	pt := rlwe.NewPlaintext(params)
	pt.Value[row] = delta
	r.NTT(pt.Value, pt.Value)
	r.MForm(pt.Value, pt.Value)
	pt.MetaData = &rlwe.MetaData{IsNTT: true, IsMontgomery: true}

	enc, err := rlwe.NewEncryptor(params, sk)
	require.NoError(t, err)
	ct := enc.EncryptNew(pt, source)

	ex := NewExpander(params, keys)
	cts, err := ex.Expand(ct, logFanout)
	require.NoError(t, err)
	require.Len(t, cts, 1<<logFanout)

	dec := rlwe.NewDecryptor(params, sk)
	tolerance := float64(delta) / 4
	for i, c := range cts {
		decoded := dec.DecryptNew(c)
		coeff := r.NewPoly()
		r.IMForm(decoded.Value, coeff)
		r.INTT(coeff, coeff)

		got := float64(ring.CenterModU64(coeff[0], params.Q()))
		if i == row {
			require.InDelta(t, float64(uint64(1)<<logFanout)*float64(delta), got, tolerance)
		} else {
			require.InDelta(t, 0, got, tolerance)
		}
	}
}
