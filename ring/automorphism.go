package ring

// Automorphism sets p2 = sigma_galEl(p1), the ring automorphism
// x -> x^galEl, applied in coefficient representation. galEl must be
// odd and in [1, 2N): automorphisms of R_q = Z_q[x]/(x^N+1) correspond
// exactly to the odd residues mod 2N, since x^N = -1 forces every
// other exponent to fold back with a sign flip.
//
// This operates in coefficient form rather than permuting the NTT
// representation directly (as the teacher's AutomorphismNTTWithIndex
// does for its RNS chain); callers that need it on an NTT-domain
// ciphertext first call INTT, then Automorphism, then NTT. SPEC_FULL
// §4.2 only applies automorphisms during switched-query expansion,
// which is not on the hot per-query path, so the extra transform pair
// is an acceptable simplification.
func (r *Ring) Automorphism(p1 Poly, galEl uint64, p2 Poly) {
	N := uint64(r.N)
	Q := r.Modulus
	modTwoN := 2*N - 1
	modN := N - 1

	for i := uint64(0); i < N; i++ {
		e := (galEl * i) & modTwoN
		idx := e & modN
		if e&N != 0 {
			if p1[i] == 0 {
				p2[idx] = 0
			} else {
				p2[idx] = Q - p1[i]
			}
		} else {
			p2[idx] = p1[i]
		}
	}
}

// GaloisElementForColumnRotationBy returns the Galois element
// implementing a cyclic rotation of the packed-slot view of a
// ciphertext by k positions in the first packing dimension, following
// the same convention as RLWE column rotations: 5^k mod 2N. 5 generates
// a subgroup of index 2 in (Z/2NZ)^*. The pir packing code does not
// call it.
func GaloisElementForColumnRotationBy(N, k int) uint64 {
	twoN := uint64(2 * N)
	mask := twoN - 1
	const gen = uint64(5)

	kk := k
	if kk < 0 {
		kk = -kk
	}
	el := uint64(1)
	for i := 0; i < kk; i++ {
		el = (el * gen) & mask
	}
	if k < 0 {
		el = modInverseOdd(el, twoN)
	}
	return el | 1
}

// modInverseOdd returns x^-1 mod m for odd x and power-of-two m, via
// the same Newton iteration used for the Montgomery constant.
func modInverseOdd(x, m uint64) uint64 {
	inv := x
	for i := 0; i < 6; i++ {
		inv = inv * (2 - x*inv)
	}
	return inv & (m - 1)
}

// GaloisElementForRowRotation returns the Galois element that swaps the
// two "rows" of a 2-row packed plaintext, i.e. x -> x^-1, equivalently
// galEl = 2N-1.
func GaloisElementForRowRotation(N int) uint64 {
	return uint64(2*N - 1)
}

// MulMonomial sets p2 = p1 * x^power mod (x^N+1), in coefficient
// representation. Used by the oblivious-expansion step of a Switched
// query to re-center each half of a split ciphertext (SPEC_FULL
// §4.2).
func (r *Ring) MulMonomial(p1 Poly, power int, p2 Poly) {
	N := r.N
	Q := r.Modulus

	k := power % (2 * N)
	if k < 0 {
		k += 2 * N
	}

	sign := false
	if k >= N {
		sign = true
		k -= N
	}

	for i := 0; i < N; i++ {
		j := i + k
		s := sign
		if j >= N {
			j -= N
			s = !s
		}
		if s {
			if p1[i] == 0 {
				p2[j] = 0
			} else {
				p2[j] = Q - p1[i]
			}
		} else {
			p2[j] = p1[i]
		}
	}
}
