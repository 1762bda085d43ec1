package ring

import (
	"fmt"
	"math/bits"
)

// NTTTable holds the precomputed twiddle factors for the forward and
// backward number theoretic transforms over a Ring. The teacher keeps
// one NTTTable per modulus in the RNS chain behind a pluggable
// NumberTheoreticTransformer interface (to support a custom NTT per
// prime); since this spec has exactly one prime and one NTT variant,
// the interface collapses to the two methods on Ring below.
type NTTTable struct {
	NthRoot       uint64
	PrimitiveRoot uint64
	RootsForward  []uint64 // Montgomery form, bit-reversed order
	RootsBackward []uint64 // Montgomery form, bit-reversed order
	NInv          uint64   // Montgomery form of N^-1 mod q
}

// genNTTTable builds the twiddle tables for r. q must already have been
// checked NTT-friendly (q ≡ 1 mod 2N) by NewRing.
func genNTTTable(r *Ring) (*NTTTable, error) {
	N := r.N
	q := r.Modulus
	logN := bits.Len64(uint64(N)) - 1

	g, err := primitiveRoot(q)
	if err != nil {
		return nil, err
	}

	psi := ModExp(g, (q-1)/uint64(2*N), q)
	if ModExp(psi, uint64(N), q) != q-1 {
		return nil, fmt.Errorf("ring: %d is not a primitive %d-th root of unity mod %d", psi, 2*N, q)
	}
	psiInv := ModExp(psi, q-2, q)

	forward := make([]uint64, N)
	backward := make([]uint64, N)
	forward[0] = MForm(1, q, r.BRedConstant)
	backward[0] = forward[0]
	for i := 1; i < N; i++ {
		k := bitReverse(uint64(i), logN)
		forward[i] = MForm(ModExp(psi, k, q), q, r.BRedConstant)
		backward[i] = MForm(ModExp(psiInv, k, q), q, r.BRedConstant)
	}

	return &NTTTable{
		NthRoot:       uint64(2 * N),
		PrimitiveRoot: g,
		RootsForward:  forward,
		RootsBackward: backward,
		NInv:          MForm(ModExp(uint64(N), q-2, q), q, r.BRedConstant),
	}, nil
}

func bitReverse(x uint64, bitLen int) uint64 {
	var y uint64
	for i := 0; i < bitLen; i++ {
		y |= ((x >> i) & 1) << (bitLen - 1 - i)
	}
	return y
}

// primitiveRoot returns a generator of (Z/qZ)^*. q is assumed prime.
// Parameter primes are fixed at a handful of known values (SPEC_FULL
// §9), so the Ring for each is built once at process startup and the
// cost of the trial-division factorisation of q-1 below is paid once,
// not per query.
func primitiveRoot(q uint64) (uint64, error) {
	factors := distinctPrimeFactors(q - 1)
	for g := uint64(2); g < q; g++ {
		isRoot := true
		for _, p := range factors {
			if ModExp(g, (q-1)/p, q) == 1 {
				isRoot = false
				break
			}
		}
		if isRoot {
			return g, nil
		}
	}
	return 0, fmt.Errorf("ring: no primitive root found mod %d", q)
}

func distinctPrimeFactors(n uint64) []uint64 {
	var factors []uint64
	for p := uint64(2); p*p <= n; p++ {
		if n%p == 0 {
			factors = append(factors, p)
			for n%p == 0 {
				n /= p
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// NTT maps p1 from coefficient representation to evaluation
// representation, writing the result to p2 (p1 and p2 may be the same
// slice). This is the in-place, bit-reversal-free Cooley-Tukey
// negacyclic NTT: RootsForward is already stored in bit-reversed order,
// so no separate permutation pass is needed.
func (r *Ring) NTT(p1, p2 Poly) {
	if &p1[0] != &p2[0] {
		copy(p2, p1)
	}
	N := r.N
	Q := r.Modulus
	QInv := r.MRedConstant
	roots := r.RootsForward

	t := N
	for m := 1; m < N; m <<= 1 {
		t >>= 1
		for i := 0; i < m; i++ {
			psi := roots[m+i]
			j1 := 2 * i * t
			j2 := j1 + t
			for j := j1; j < j2; j++ {
				U := p2[j]
				V := MRed(p2[j+t], psi, Q, QInv)
				p2[j] = CRed(U+V, Q)
				p2[j+t] = CRed(U+Q-V, Q)
			}
		}
	}
}

// INTT maps p1 from evaluation representation back to coefficient
// representation, writing the result to p2 (p1 and p2 may be the same
// slice). This is the matching Gentleman-Sande inverse transform.
func (r *Ring) INTT(p1, p2 Poly) {
	if &p1[0] != &p2[0] {
		copy(p2, p1)
	}
	N := r.N
	Q := r.Modulus
	QInv := r.MRedConstant
	roots := r.RootsBackward

	t := 1
	for m := N; m > 1; m >>= 1 {
		h := m >> 1
		j1 := 0
		for i := 0; i < h; i++ {
			psi := roots[h+i]
			j2 := j1 + t
			for j := j1; j < j2; j++ {
				U := p2[j]
				V := p2[j+t]
				p2[j] = CRed(U+V, Q)
				p2[j+t] = MRed(CRed(U+Q-V, Q), psi, Q, QInv)
			}
			j1 += 2 * t
		}
		t <<= 1
	}

	NInv := r.NInv
	for j := 0; j < N; j++ {
		p2[j] = MRed(p2[j], NInv, Q, QInv)
	}
}
