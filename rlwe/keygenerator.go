package rlwe

import (
	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/utils/sampling"
)

// KeyGenerator generates secret keys and galois (automorphism)
// keys for a fixed Parameters.
type KeyGenerator struct {
	params Parameters
}

// NewKeyGenerator returns a KeyGenerator for params.
func NewKeyGenerator(params Parameters) *KeyGenerator {
	return &KeyGenerator{params: params}
}

// GenSecretKey draws a fresh ternary secret key from source and
// returns it in NTT, Montgomery representation.
func (kg *KeyGenerator) GenSecretKey(source *sampling.Source) (*SecretKey, error) {
	r := kg.params.Ring()
	secretDist := kg.params.SecretDistribution()
	sampler, err := ring.NewSampler(r, &secretDist)
	if err != nil {
		return nil, err
	}

	sk := NewSecretKey(kg.params)
	sampler.Read(source, sk.Value)
	r.NTT(sk.Value, sk.Value)
	r.MForm(sk.Value, sk.Value)
	return sk, nil
}

// GenGaloisKey generates the GadgetCiphertext that lets Evaluator
// apply the automorphism x -> x^galEl to a ciphertext encrypted under
// sk and key-switch the result back to an encryption under sk. This
// is the only key material the "Switched" query variant needs
// (SPEC_FULL §4.2): the server never learns sk, only this key.
func (kg *KeyGenerator) GenGaloisKey(sk *SecretKey, galEl uint64, source *sampling.Source) (*GadgetCiphertext, error) {
	r := kg.params.Ring()

	skCoeff := r.NewPoly()
	r.IMForm(sk.Value, skCoeff)
	r.INTT(skCoeff, skCoeff)

	skRotated := r.NewPoly()
	r.Automorphism(skCoeff, galEl, skRotated)
	r.NTT(skRotated, skRotated)
	r.MForm(skRotated, skRotated)

	return kg.genGadgetCiphertext(sk, skRotated, source)
}

// genGadgetCiphertext encrypts, row by row, B^k * sourceSecret under
// destSk, for k = 0..levels-1.
func (kg *KeyGenerator) genGadgetCiphertext(destSk *SecretKey, sourceSecret ring.Poly, source *sampling.Source) (*GadgetCiphertext, error) {
	params := kg.params
	r := params.Ring()

	uniform, err := ring.NewSampler(r, &ring.Uniform{})
	if err != nil {
		return nil, err
	}
	gaussian, err := ring.NewSampler(r, &params.errorDist)
	if err != nil {
		return nil, err
	}

	gk := NewGadgetCiphertext(params)
	logBasis := params.GadgetLog2Basis()

	scale := r.NewPoly()
	copy(scale, sourceSecret)
	scalar := uint64(1)

	for k := range gk.Value {
		a := r.NewPoly()
		uniform.Read(source, a)

		e := r.NewPoly()
		gaussian.Read(source, e)
		r.NTT(e, e)
		r.MForm(e, e)

		b := r.NewPoly()
		r.MulCoeffsMontgomery(a, destSk.Value, b)
		r.Neg(b, b)
		r.Add(b, e, b)

		scaled := r.NewPoly()
		r.MulScalar(scale, scalar, scaled)
		r.Add(b, scaled, b)

		gk.Value[k] = Ciphertext{
			Value:    [2]ring.Poly{b, a},
			MetaData: &MetaData{IsNTT: true, IsMontgomery: true},
		}

		if k < len(gk.Value)-1 {
			scalar <<= uint(logBasis)
		}
	}

	return gk, nil
}
