// Package ring implements arithmetic over the negacyclic ring
// R_q = Z_q[x]/(x^N+1) for a single NTT-friendly prime q. The teacher's
// ring package carries an RNS chain of such primes (Q0, Q1, ...) to
// support multi-level homomorphic schemes; this spec only ever needs one
// 60-bit prime (SPEC_FULL §4.1), so the chain collapses to a single
// Ring with a single Modulus, and Point/RNSPoly become a plain Poly.
package ring

import (
	"fmt"
	"math/bits"
)

// Poly is a polynomial in R_q, stored as N coefficients. Depending on
// context it holds either the coefficient representation or, after
// Ring.NTT, the evaluation (NTT) representation — callers are
// responsible for tracking which, exactly as in the teacher's ring
// package.
type Poly []uint64

// NewPoly allocates a zero polynomial of degree N.
func NewPoly(N int) Poly {
	return make(Poly, N)
}

// CopyNew returns an independent copy of p.
func (p Poly) CopyNew() Poly {
	q := make(Poly, len(p))
	copy(q, p)
	return q
}

// Ring is the degree-N negacyclic ring modulo a single prime Modulus.
type Ring struct {
	N            int
	Modulus      uint64
	BRedConstant [2]uint64
	MRedConstant uint64
	*NTTTable
}

// NewRing constructs the ring Z_q[x]/(x^N+1). N must be a power of two
// and q must be an NTT-friendly prime, i.e. q ≡ 1 mod 2N (so that a
// primitive 2N-th root of unity exists in Z_q^*). Parameter validation
// beyond this (noise budget, security level) lives in rlwe.Parameters.
func NewRing(N int, q uint64) (*Ring, error) {
	if N < 2 || N&(N-1) != 0 {
		return nil, fmt.Errorf("ring: N=%d is not a power of two", N)
	}
	if q%2 == 0 {
		return nil, fmt.Errorf("ring: modulus %d is even", q)
	}
	if bits.Len64(q) > 62 {
		return nil, fmt.Errorf("ring: modulus %d exceeds 62 bits", q)
	}
	if (q-1)%uint64(2*N) != 0 {
		return nil, fmt.Errorf("ring: modulus %d is not NTT-friendly for N=%d: q-1 must be divisible by 2N", q, N)
	}

	r := &Ring{
		N:            N,
		Modulus:      q,
		BRedConstant: GetBRedConstant(q),
		MRedConstant: GetMRedConstant(q),
	}

	table, err := genNTTTable(r)
	if err != nil {
		return nil, err
	}
	r.NTTTable = table
	return r, nil
}

// NewPoly allocates a zero polynomial sized for this ring.
func (r *Ring) NewPoly() Poly {
	return NewPoly(r.N)
}

// Equal reports whether two rings share the same degree and modulus.
func (r *Ring) Equal(s *Ring) bool {
	return r.N == s.N && r.Modulus == s.Modulus
}
