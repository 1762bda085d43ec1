package rlwe

import "github.com/blocklane/pir/ring"

// Decryptor recovers a plaintext from a ciphertext under a secret key.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
}

// NewDecryptor returns a Decryptor for params and sk.
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {
	return &Decryptor{params: params, sk: sk}
}

// DecryptNew returns c0 + c1*sk, in NTT Montgomery representation: the
// plaintext plus noise. Extracting an integer record value from the
// result (scaling down by q/t and rounding) is pir.Extract's job, not
// this package's, since the scaling factor depends on how the record
// was packed.
func (dec *Decryptor) DecryptNew(ct *Ciphertext) *Plaintext {
	r := dec.params.Ring()

	tmp := r.NewPoly()
	r.MulCoeffsMontgomery(ct.Value[1], dec.sk.Value, tmp)

	pt := NewPlaintext(dec.params)
	r.Add(ct.Value[0], tmp, pt.Value)
	pt.MetaData = &MetaData{IsNTT: true, IsMontgomery: true}
	return pt
}

// NoiseOf returns an estimate of the noise magnitude in ct relative to
// the all-zero plaintext, used by tests asserting the noise budget
// invariant (SPEC_FULL §8, property "Noise budget holds").
func (dec *Decryptor) NoiseOf(ct *Ciphertext) float64 {
	r := dec.params.Ring()
	pt := dec.DecryptNew(ct)

	coeff := r.NewPoly()
	r.IMForm(pt.Value, coeff)
	r.INTT(coeff, coeff)

	var max uint64
	for _, c := range coeff {
		v := ring.CenterModU64(c, r.Modulus)
		if v < 0 {
			v = -v
		}
		if uint64(v) > max {
			max = uint64(v)
		}
	}
	return float64(max)
}
