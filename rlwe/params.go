// Package rlwe implements RLWE encryption over a single-modulus ring:
// key generation, symmetric encryption/decryption, plaintext
// multiplication, and the automorphism-plus-keyswitch primitive that
// the pir package composes into switched-query expansion. The teacher
// carries a full RNS modulus chain (for multi-level BFV/BGV/CKKS
// schemes); this spec needs exactly one 60-bit prime and one
// ciphertext level, so Parameters wraps a single *ring.Ring rather
// than a LevelQ/LevelP pair.
package rlwe

import (
	"fmt"
	"math"

	"github.com/blocklane/pir/ring"
)

// DecryptionFailureTarget is the maximum acceptable decryption failure
// probability, 2^-40, per SPEC_FULL §4.1 "noise-budget validation".
const DecryptionFailureTarget = -40.0

// minNoiseBudgetBits is the gate applied to Parameters.NoiseBudget.
// NoiseBudget reports log2(delta/(2*sigma*sqrt(N))), the number of
// doublings of headroom between the rounding half-window and the
// expected noise magnitude. Via the standard Gaussian tail bound, a
// failure probability of 2^DecryptionFailureTarget needs roughly
// z >= sqrt(-2*ln(2)*DecryptionFailureTarget), i.e. a budget of only
// ~3 bits; minNoiseBudgetBits adds a wide conservative margin on top
// of that formal minimum to also catch parameter sets whose real
// noise growth (key-switching, composed operations) the closed form
// here does not model.
const minNoiseBudgetBits = 16.0

// Parameters is a validated RLWE parameter set: a ring, a plaintext
// modulus, the error and secret distributions, and the gadget digit
// width used for key-switching.
type Parameters struct {
	ring             *ring.Ring
	plaintextModulus uint64
	errorDist        ring.DiscreteGaussian
	secretDist       ring.Ternary
	gadgetLog2Basis  int
	gadgetLevels     int
}

// NewParametersFromLiteral validates lit and builds the Parameters it
// describes, returning an error if the ring cannot be constructed, if
// gcd(plaintextModulus, N) != 1 (§9 Open Question 1: required for the
// CRT-free plaintext packing this spec uses), or if the resulting
// noise budget falls short of minNoiseBudgetBits.
func NewParametersFromLiteral(lit ParametersLiteral) (Parameters, error) {
	r, err := ring.NewRing(1<<lit.LogN, lit.Q)
	if err != nil {
		return Parameters{}, fmt.Errorf("rlwe: %w", err)
	}

	if lit.PlaintextModulus == 0 {
		return Parameters{}, fmt.Errorf("rlwe: plaintext modulus must be nonzero")
	}
	if gcd(uint64(r.N), lit.PlaintextModulus) != 1 {
		return Parameters{}, fmt.Errorf("rlwe: plaintext modulus %d shares a factor with N=%d", lit.PlaintextModulus, r.N)
	}

	if lit.GadgetLog2Basis <= 0 || lit.GadgetLog2Basis > 62 {
		return Parameters{}, fmt.Errorf("rlwe: gadget log2 basis %d out of range", lit.GadgetLog2Basis)
	}

	params := Parameters{
		ring:             r,
		plaintextModulus: lit.PlaintextModulus,
		errorDist:        lit.Error,
		secretDist:       lit.Secret,
		gadgetLog2Basis:  lit.GadgetLog2Basis,
		gadgetLevels:     ring.GadgetLevels(bitLen(lit.Q), lit.GadgetLog2Basis),
	}

	if budget := params.NoiseBudget(); budget < minNoiseBudgetBits {
		return Parameters{}, fmt.Errorf("rlwe: parameter set has noise budget %.1f bits, below the %.0f-bit minimum", budget, minNoiseBudgetBits)
	}

	return params, nil
}

func bitLen(x uint64) int {
	n := 0
	for x > 0 {
		n++
		x >>= 1
	}
	return n
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (p Parameters) Ring() *ring.Ring                { return p.ring }
func (p Parameters) N() int                          { return p.ring.N }
func (p Parameters) Q() uint64                        { return p.ring.Modulus }
func (p Parameters) PlaintextModulus() uint64        { return p.plaintextModulus }
func (p Parameters) ErrorDistribution() ring.DiscreteGaussian { return p.errorDist }
func (p Parameters) SecretDistribution() ring.Ternary { return p.secretDist }
func (p Parameters) GadgetLog2Basis() int            { return p.gadgetLog2Basis }
func (p Parameters) GadgetLevels() int               { return p.gadgetLevels }

// NoiseBudget estimates, in bits, log2(delta/(2*sigma*sqrt(N))) where
// delta is the scaling factor q/plaintextModulus: a conservative
// bound on how far decryption's (b - a*s) noise term can grow before
// rounding to the nearest plaintext-modulus multiple picks the wrong
// value. The rounding half-window is delta/2, so the margin is the
// half-window divided by the expected noise magnitude, not q divided
// by it. This is evaluated when a parameter set is built
// (NewParametersFromLiteral), not per query.
func (p Parameters) NoiseBudget() float64 {
	q := float64(p.ring.Modulus)
	t := float64(p.plaintextModulus)
	delta := q / t
	sigma := p.errorDist.Sigma
	if sigma <= 0 {
		sigma = 1
	}
	n := float64(p.ring.N)
	noiseBound := 2 * sigma * math.Sqrt(n)
	return math.Log2(delta / noiseBound)
}
