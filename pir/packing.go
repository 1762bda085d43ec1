package pir

import (
	"fmt"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/rlwe"
)

// scalarPlaintext returns the degree-0 plaintext encrypting bit
// (0 or 1) scaled by delta = floor(q/t), in NTT Montgomery
// representation. A ciphertext encrypting this plaintext behaves, under
// ring multiplication, as scalar multiplication by bit: a degree-0
// polynomial's NTT transform is the constant vector (bit*delta,
// bit*delta, ...), so MulCoeffsMontgomery against a database row's full
// plaintext polynomial yields bit*row, coefficient by coefficient, with
// no cross-term convolution (SPEC_FULL §4.3).
func scalarPlaintext(params rlwe.Parameters, bit uint64) *rlwe.Plaintext {
	r := params.Ring()
	delta := params.Q() / params.PlaintextModulus()

	pt := rlwe.NewPlaintext(params)
	pt.Value[0] = (bit % params.PlaintextModulus()) * delta % params.Q()
	r.NTT(pt.Value, pt.Value)
	r.MForm(pt.Value, pt.Value)
	pt.MetaData = &rlwe.MetaData{IsNTT: true, IsMontgomery: true}
	return pt
}

// monomialPlaintext returns the plaintext used by a Switched query's
// compressed selector: a single coefficient at `at`, scaled by delta,
// all other coefficients zero. Expanding this polynomial
// coefficient-by-coefficient (rgsw.Expander.Expand) isolates it into D1
// separate scalarPlaintext-equivalent ciphertexts, but each round of
// that expansion (sum = m + sigma(m), diff = m - sigma(m)) doubles the
// isolated coefficient, for a net factor of 2^logFanout across all
// logFanout rounds. Pre-scaling delta by the modular inverse of
// 2^logFanout here cancels that factor, so the expanded ciphertext
// ends up encrypting exactly bit*delta rather than 2^logFanout times
// that.
func monomialPlaintext(params rlwe.Parameters, at, logFanout int) *rlwe.Plaintext {
	r := params.Ring()
	q := params.Q()
	delta := q / params.PlaintextModulus()

	coeff := delta % q
	if logFanout > 0 {
		invPow2 := ring.ModExp(2, q-1-uint64(logFanout), q)
		coeff = ring.BRed(coeff, invPow2, q, r.BRedConstant)
	}

	pt := rlwe.NewPlaintext(params)
	pt.Value[at] = coeff
	r.NTT(pt.Value, pt.Value)
	r.MForm(pt.Value, pt.Value)
	pt.MetaData = &rlwe.MetaData{IsNTT: true, IsMontgomery: true}
	return pt
}

// PackRow builds the plaintext for one grid row: records[col] occupies
// coefficients [col*RecordWidthBytes, (col+1)*RecordWidthBytes) of the
// row's polynomial, one byte per coefficient. Unused trailing columns
// and unused trailing bytes within a record are left zero.
func PackRow(params PirParams, records [][]byte) (*rlwe.Plaintext, error) {
	if len(records) > params.D2 {
		return nil, fmt.Errorf("pir: row holds at most %d records, got %d", params.D2, len(records))
	}

	r := params.Rlwe.Ring()
	pt := rlwe.NewPlaintext(params.Rlwe)

	for col, rec := range records {
		if len(rec) > params.RecordWidthBytes {
			return nil, fmt.Errorf("pir: record %d is %d bytes, exceeds record width %d", col, len(rec), params.RecordWidthBytes)
		}
		offset := col * params.RecordWidthBytes
		for i, b := range rec {
			pt.Value[offset+i] = uint64(b)
		}
	}

	r.NTT(pt.Value, pt.Value)
	r.MForm(pt.Value, pt.Value)
	pt.MetaData = &rlwe.MetaData{IsNTT: true, IsMontgomery: true}
	return pt, nil
}

// maskPlaintextHalf returns a copy of pt with every coefficient outside
// [lo, hi) zeroed, in coefficient representation. Used to split a row's
// plaintext into the two independently-accumulated halves an InspiRING
// response packs (SPEC_FULL §4.3, Component C3 packing variants).
func maskPlaintextHalf(params PirParams, pt *rlwe.Plaintext, lo, hi int) *rlwe.Plaintext {
	r := params.Rlwe.Ring()

	coeff := r.NewPoly()
	r.IMForm(pt.Value, coeff)
	r.INTT(coeff, coeff)

	masked := r.NewPoly()
	for i := lo; i < hi; i++ {
		masked[i] = coeff[i]
	}

	r.NTT(masked, masked)
	r.MForm(masked, masked)
	return &rlwe.Plaintext{Value: masked, MetaData: &rlwe.MetaData{IsNTT: true, IsMontgomery: true}}
}

// decodeCoeffs decrypts-equivalent: given an already-decrypted
// plaintext, scales each coefficient down by delta = floor(q/t) and
// rounds to the nearest integer, recovering the raw record bytes packed
// by PackRow (SPEC_FULL §4.3 "extract").
func decodeCoeffs(params PirParams, pt *rlwe.Plaintext) []int64 {
	r := params.Rlwe.Ring()
	delta := int64(params.Rlwe.Q() / params.Rlwe.PlaintextModulus())

	coeff := r.NewPoly()
	r.IMForm(pt.Value, coeff)
	r.INTT(coeff, coeff)

	out := make([]int64, len(coeff))
	for i, c := range coeff {
		centered := ring.CenterModU64(c, params.Rlwe.Q())
		out[i] = roundDiv(centered, delta)
	}
	return out
}

// roundDiv divides num by den, rounding to the nearest integer with
// ties away from zero.
func roundDiv(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	neg := (num < 0) != (den < 0)
	if num < 0 {
		num = -num
	}
	if den < 0 {
		den = -den
	}
	q := (num + den/2) / den
	if neg {
		return -q
	}
	return q
}

// UnpackRecord extracts column col's raw bytes from a row's decoded
// coefficients.
func UnpackRecord(params PirParams, coeffs []int64, col int) []byte {
	t := int64(params.Rlwe.PlaintextModulus())
	offset := col * params.RecordWidthBytes

	out := make([]byte, params.RecordWidthBytes)
	for i := 0; i < params.RecordWidthBytes; i++ {
		v := coeffs[offset+i] % t
		if v < 0 {
			v += t
		}
		out[i] = byte(v)
	}
	return out
}
