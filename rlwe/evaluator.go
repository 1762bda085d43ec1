package rlwe

import (
	"fmt"

	"github.com/blocklane/pir/ring"
)

// GaloisKeySet resolves a galois element to the GadgetCiphertext that
// lets Evaluator apply it. pir.Query implements it over the galois keys
// a Switched query carries, so expansion needs no separate key store.
type GaloisKeySet interface {
	GaloisKey(galEl uint64) (*GadgetCiphertext, bool)
}

// Evaluator performs the two ciphertext operations the PIR protocol
// needs on the server side: multiplying a query ciphertext by a
// plaintext database record, and applying an automorphism (with
// key-switch) to expand a Switched query into its constituent
// per-index ciphertexts.
type Evaluator struct {
	params Parameters
	keys   GaloisKeySet
}

// NewEvaluator returns an Evaluator for params. keys may be nil if the
// caller never evaluates a Switched query.
func NewEvaluator(params Parameters, keys GaloisKeySet) *Evaluator {
	return &Evaluator{params: params, keys: keys}
}

// MulPlaintextNew returns ct * pt: multiplying by a plaintext, rather
// than a second ciphertext, never increases the ciphertext degree, so
// this is the entire per-record evaluation cost of a PIR query
// (SPEC_FULL §4.2, C3 "evaluate").
func (ev *Evaluator) MulPlaintextNew(ct *Ciphertext, pt *Plaintext) *Ciphertext {
	r := ev.params.Ring()
	out := NewCiphertext(ev.params)
	r.MulCoeffsMontgomery(ct.Value[0], pt.Value, out.Value[0])
	r.MulCoeffsMontgomery(ct.Value[1], pt.Value, out.Value[1])
	return out
}

// MulPlaintextThenAdd sets acc += ct * pt, accumulating in place. The
// evaluation loop in pir.Respond calls this once per grid row in each
// worker's row range rather than allocating a fresh ciphertext each
// time.
func (ev *Evaluator) MulPlaintextThenAdd(ct *Ciphertext, pt *Plaintext, acc *Ciphertext) {
	r := ev.params.Ring()
	r.MulCoeffsMontgomeryThenAdd(ct.Value[0], pt.Value, acc.Value[0])
	r.MulCoeffsMontgomeryThenAdd(ct.Value[1], pt.Value, acc.Value[1])
}

// AddNew returns ct1 + ct2.
func (ev *Evaluator) AddNew(ct1, ct2 *Ciphertext) *Ciphertext {
	r := ev.params.Ring()
	out := NewCiphertext(ev.params)
	r.Add(ct1.Value[0], ct2.Value[0], out.Value[0])
	r.Add(ct1.Value[1], ct2.Value[1], out.Value[1])
	return out
}

// Automorphism returns sigma_galEl(ct), key-switched back to an
// encryption under the original secret using the registered galois
// key for galEl. This is the primitive the Switched query variant
// composes log2(packingFanout) times to obliviously expand one
// ciphertext into many (SPEC_FULL §4.2).
func (ev *Evaluator) Automorphism(ct *Ciphertext, galEl uint64) (*Ciphertext, error) {
	gk, ok := ev.keys.GaloisKey(galEl)
	if !ok {
		return nil, fmt.Errorf("rlwe: no galois key registered for element %d", galEl)
	}
	r := ev.params.Ring()

	rotate := func(p ring.Poly) ring.Poly {
		coeff := r.NewPoly()
		r.IMForm(p, coeff)
		r.INTT(coeff, coeff)
		rotated := r.NewPoly()
		r.Automorphism(coeff, galEl, rotated)
		r.NTT(rotated, rotated)
		r.MForm(rotated, rotated)
		return rotated
	}

	sigmaC0 := rotate(ct.Value[0])
	sigmaC1 := rotate(ct.Value[1])

	d0, d1 := gk.KeySwitch(r, sigmaC1)
	out := NewCiphertext(ev.params)
	r.Add(sigmaC0, d0, out.Value[0])
	out.Value[1] = d1
	return out, nil
}
