package rlwe

import (
	"testing"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/utils/sampling"
	"github.com/stretchr/testify/require"
)

func testParams(t *testing.T) Parameters {
	t.Helper()
	params, err := NewParametersFromLiteral(ParametersLiteral{
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

func TestEncryptDecryptRoundTrip(t *testing.T) {
	params := testParams(t)
	r := params.Ring()
	kg := NewKeyGenerator(params)

	sk, err := kg.GenSecretKey(sampling.NewSource())
	require.NoError(t, err)

	enc, err := NewEncryptor(params, sk)
	require.NoError(t, err)
	dec := NewDecryptor(params, sk)

	pt := NewPlaintext(params)
	pt.Value[0] = 1234
	r.NTT(pt.Value, pt.Value)
	r.MForm(pt.Value, pt.Value)

	ct := enc.EncryptNew(pt, sampling.NewSource())
	got := dec.DecryptNew(ct)

	gotCoeff := r.NewPoly()
	r.IMForm(got.Value, gotCoeff)
	r.INTT(gotCoeff, gotCoeff)

	// The decrypted coefficient should be close to 1234, within the
	// noise bound, after rounding away the error term's contribution
	// below the plaintext/noise separation margin.
	require.InDelta(t, 1234, ring.CenterModU64(gotCoeff[0], r.Modulus), 1000)
}

func TestNoiseBudgetRejectsUndersizedModulus(t *testing.T) {
	_, err := NewParametersFromLiteral(ParametersLiteral{
		LogN:             6,
		Q:                7681,
		PlaintextModulus: 17,
		Error:            ring.DiscreteGaussian{Sigma: 3.2, Bound: 19.2},
		Secret:           ring.Ternary{P: 2.0 / 3.0},
		GadgetLog2Basis:  4,
	})
	require.Error(t, err)
}

func TestGaloisKeyAutomorphismRoundTrip(t *testing.T) {
	params := testParams(t)
	r := params.Ring()
	kg := NewKeyGenerator(params)
	source := sampling.NewSource()

	sk, err := kg.GenSecretKey(source)
	require.NoError(t, err)

	rowSwap := ring.GaloisElementForRowRotation(r.N)
	gk, err := kg.GenGaloisKey(sk, rowSwap, source)
	require.NoError(t, err)

	keys := staticKeySet{rowSwap: gk}
	ev := NewEvaluator(params, keys)

	enc, err := NewEncryptor(params, sk)
	require.NoError(t, err)
	dec := NewDecryptor(params, sk)

	pt := NewPlaintext(params)
	pt.Value[1] = 77
	r.NTT(pt.Value, pt.Value)
	r.MForm(pt.Value, pt.Value)
	ct := enc.EncryptNew(pt, source)

	rotated, err := ev.Automorphism(ct, rowSwap)
	require.NoError(t, err)

	got := dec.DecryptNew(rotated)
	gotCoeff := r.NewPoly()
	r.IMForm(got.Value, gotCoeff)
	r.INTT(gotCoeff, gotCoeff)

	// x -> x^-1 sends coefficient index 1 to index N-1, with a sign flip.
	require.InDelta(t, -77, ring.CenterModU64(gotCoeff[r.N-1], r.Modulus), 1000)
}

type staticKeySet map[uint64]*GadgetCiphertext

func (s staticKeySet) GaloisKey(galEl uint64) (*GadgetCiphertext, bool) {
	gk, ok := s[galEl]
	return gk, ok
}
