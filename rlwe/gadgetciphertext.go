package rlwe

import (
	"io"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/utils/buffer"
)

// GadgetCiphertext is a row of ciphertexts, one per gadget digit,
// each encrypting B^k * sourceSecret under destSecret. It backs both
// galois keys (sourceSecret = sk(X^galEl), destSecret = sk(X)) and
// relinearization-style key switching in general. The teacher's
// rgsw.Ciphertext wraps a 2x2 matrix of these for full RGSW external
// products; this spec only ever key-switches one ring element at a
// time (SPEC_FULL §4.2 "Switched" query expansion uses automorphisms,
// not a full external product), so GadgetCiphertext here is the matrix
// row directly rather than the full matrix.
type GadgetCiphertext struct {
	Value []Ciphertext
}

// NewGadgetCiphertext allocates a zero gadget ciphertext with one row
// per gadget level.
func NewGadgetCiphertext(params Parameters) *GadgetCiphertext {
	levels := params.GadgetLevels()
	gct := &GadgetCiphertext{Value: make([]Ciphertext, levels)}
	for k := range gct.Value {
		gct.Value[k] = *NewCiphertext(params)
	}
	return gct
}

// gadgetLogBasis recovers the digit width a gadget ciphertext with
// len(gk.Value) levels was built with, given the ring modulus.
// GadgetCiphertext itself carries no Parameters reference, so
// KeySwitch derives it the same way NewParametersFromLiteral derived
// the level count in the first place.
func gadgetLogBasis(modulusBits, levels int) int {
	logBasis := modulusBits / levels
	if modulusBits%levels != 0 {
		logBasis++
	}
	return logBasis
}

// KeySwitch homomorphically re-encrypts sourcePoly (evaluation,
// Montgomery representation, encrypted under gk's sourceSecret) as a
// fresh two-component ciphertext (d0, d1) encrypted under gk's
// destSecret: d0 + d1*destSecret ≈ sourcePoly * sourceSecret.
//
// Callers that want to key-switch a ciphertext component c1 call this
// directly on c1 and then fold d0 into c0 (Evaluator.Automorphism
// does exactly this).
func (gk *GadgetCiphertext) KeySwitch(r *ring.Ring, sourcePoly ring.Poly) (d0, d1 ring.Poly) {
	levels := len(gk.Value)
	logBasis := gadgetLogBasis(bitLen(r.Modulus), levels)

	coeff := r.NewPoly()
	r.IMForm(sourcePoly, coeff)
	r.INTT(coeff, coeff)

	digits := make([]ring.Poly, levels)
	for k := range digits {
		digits[k] = r.NewPoly()
	}
	r.DecomposeSigned(coeff, logBasis, digits)

	d0 = r.NewPoly()
	d1 = r.NewPoly()
	for k, digit := range digits {
		r.NTT(digit, digit)
		r.MForm(digit, digit)
		r.MulCoeffsMontgomeryThenAdd(digit, gk.Value[k].Value[0], d0)
		r.MulCoeffsMontgomeryThenAdd(digit, gk.Value[k].Value[1], d1)
	}
	return
}

// BinarySize returns the serialized size of gk.
func (gk *GadgetCiphertext) BinarySize() int {
	n := 0
	for _, ct := range gk.Value {
		n += ct.BinarySize()
	}
	return n
}

// WriteTo serializes gk, one ciphertext row after another.
func (gk *GadgetCiphertext) WriteTo(w io.Writer) (n int64, err error) {
	for i := range gk.Value {
		inc, err := gk.Value[i].WriteTo(w)
		n += inc
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadFrom deserializes into gk, which must already be sized.
func (gk *GadgetCiphertext) ReadFrom(r io.Reader) (n int64, err error) {
	for i := range gk.Value {
		inc, err := gk.Value[i].ReadFrom(r)
		n += inc
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// MarshalBinary serializes gk.
func (gk *GadgetCiphertext) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(gk.BinarySize())
	_, err := gk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary deserializes into gk, which must already be sized.
func (gk *GadgetCiphertext) UnmarshalBinary(data []byte) error {
	_, err := gk.ReadFrom(buffer.NewBuffer(data))
	return err
}
