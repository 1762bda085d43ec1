package rlwe

import (
	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/utils/sampling"
)

// Encryptor performs symmetric-key RLWE encryption: PIR clients
// encrypt queries under their own secret key, so there is no public
// key in this package (SPEC_FULL §3 never describes a server-issued
// public key; only galois keys cross the wire, for the Switched
// variant).
type Encryptor struct {
	params   Parameters
	sk       *SecretKey
	uniform  ring.Sampler
	gaussian ring.Sampler
}

// NewEncryptor returns an Encryptor for params and sk.
func NewEncryptor(params Parameters, sk *SecretKey) (*Encryptor, error) {
	r := params.Ring()
	uniform, err := ring.NewSampler(r, &ring.Uniform{})
	if err != nil {
		return nil, err
	}
	errDist := params.ErrorDistribution()
	gaussian, err := ring.NewSampler(r, &errDist)
	if err != nil {
		return nil, err
	}
	return &Encryptor{params: params, sk: sk, uniform: uniform, gaussian: gaussian}, nil
}

// EncryptNew encrypts pt, drawing "a" and the error term from source,
// and always returns the full two-component ciphertext. pir's Seeded
// query (generateSeededQuery) replaces "a" with a seed-derived
// polynomial and adjusts "b" to match, keeping only "b" for the wire.
func (enc *Encryptor) EncryptNew(pt *Plaintext, source *sampling.Source) *Ciphertext {
	r := enc.params.Ring()

	a := r.NewPoly()
	enc.uniform.Read(source, a)

	e := r.NewPoly()
	enc.gaussian.Read(source, e)
	r.NTT(e, e)
	r.MForm(e, e)

	b := r.NewPoly()
	r.MulCoeffsMontgomery(a, enc.sk.Value, b)
	r.Neg(b, b)
	r.Add(b, e, b)
	if pt != nil {
		r.Add(b, pt.Value, b)
	}

	return &Ciphertext{
		Value:    [2]ring.Poly{b, a},
		MetaData: &MetaData{IsNTT: true, IsMontgomery: true},
	}
}
