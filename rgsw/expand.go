// Package rgsw implements oblivious ciphertext expansion: turning one
// compressed RLWE ciphertext into the 2^logFanout per-index selection
// ciphertexts it encodes, using repeated automorphism-and-recombine
// steps. The teacher's rgsw package builds full RGSW ciphertexts (2x2
// matrices of gadget ciphertexts) for a general external product
// RLWE x RGSW -> RLWE; this spec's Switched query variant (SPEC_FULL
// §3, §4.2) only ever needs the specific external-product-free
// expansion algorithm used by single-server PIR systems such as
// SealPIR, so that is what this package implements, grounded on the
// teacher's rgsw.Ciphertext/evaluator.go external-product structure
// but built from rlwe.GadgetCiphertext rows directly rather than full
// RGSW matrices.
package rgsw

import (
	"fmt"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/rlwe"
)

// Expander expands a single "Switched" query ciphertext into the
// individual selection ciphertexts it packs.
type Expander struct {
	params Parameters
	ev     *rlwe.Evaluator
}

// Parameters bundles what Expander needs from rlwe.Parameters plus the
// ring it acts on.
type Parameters struct {
	Ring *ring.Ring
}

// NewExpander returns an Expander that uses keys for the automorphism
// key-switches the expansion algorithm performs.
func NewExpander(rlweParams rlwe.Parameters, keys rlwe.GaloisKeySet) *Expander {
	return &Expander{
		params: Parameters{Ring: rlweParams.Ring()},
		ev:     rlwe.NewEvaluator(rlweParams, keys),
	}
}

// GaloisElementsForExpansion returns the galois elements a client must
// generate keys for before the server can expand a ciphertext packing
// 2^logFanout slots. pir generates one galois key per returned element
// for every Switched query.
func GaloisElementsForExpansion(N, logFanout int) []uint64 {
	els := make([]uint64, logFanout)
	for i := 0; i < logFanout; i++ {
		els[i] = uint64(N>>i) + 1
	}
	return els
}

// Expand returns the 2^logFanout ciphertexts packed into ct: ct must
// encrypt a polynomial whose coefficient i (for i in [0, 2^logFanout))
// is the i-th selection value, all other coefficients zero. Expand
// isolates coefficient i into the constant term of output ciphertext
// i, still encrypted, via logFanout rounds of automorphism + add/sub
// (SPEC_FULL §4.2 "Switched query evaluation").
func (ex *Expander) Expand(ct *rlwe.Ciphertext, logFanout int) ([]*rlwe.Ciphertext, error) {
	r := ex.params.Ring
	if 1<<logFanout > r.N {
		return nil, fmt.Errorf("rgsw: fanout 2^%d exceeds ring degree %d", logFanout, r.N)
	}

	cts := []*rlwe.Ciphertext{ct}
	for i := 0; i < logFanout; i++ {
		galEl := uint64(r.N>>i) + 1
		next := make([]*rlwe.Ciphertext, 2*len(cts))

		for j, c := range cts {
			rotated, err := ex.ev.Automorphism(c, galEl)
			if err != nil {
				return nil, err
			}

			sum := ex.ev.AddNew(c, rotated)
			diff := ex.subNew(c, rotated)
			diff = ex.monomialMul(diff, -(1 << i))

			// sum keeps the inputs whose bit i is 0, diff those whose
			// bit i is 1, so index j+2^i receives the latter.
			next[j] = sum
			next[j+len(cts)] = diff
		}
		cts = next
	}
	return cts[:1<<logFanout], nil
}

func (ex *Expander) subNew(a, b *rlwe.Ciphertext) *rlwe.Ciphertext {
	r := ex.params.Ring
	out := &rlwe.Ciphertext{
		Value:    [2]ring.Poly{r.NewPoly(), r.NewPoly()},
		MetaData: a.MetaData.Clone(),
	}
	r.Sub(a.Value[0], b.Value[0], out.Value[0])
	r.Sub(a.Value[1], b.Value[1], out.Value[1])
	return out
}

func (ex *Expander) monomialMul(ct *rlwe.Ciphertext, power int) *rlwe.Ciphertext {
	r := ex.params.Ring

	rotate := func(p ring.Poly) ring.Poly {
		coeff := r.NewPoly()
		r.IMForm(p, coeff)
		r.INTT(coeff, coeff)
		shifted := r.NewPoly()
		r.MulMonomial(coeff, power, shifted)
		r.NTT(shifted, shifted)
		r.MForm(shifted, shifted)
		return shifted
	}

	return &rlwe.Ciphertext{
		Value:    [2]ring.Poly{rotate(ct.Value[0]), rotate(ct.Value[1])},
		MetaData: ct.MetaData.Clone(),
	}
}
