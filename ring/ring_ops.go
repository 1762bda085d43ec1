package ring

import (
	"fmt"
	"math/bits"
)

// Add sets p3 = p1+p2 mod q, coefficient-wise. Valid in both
// representations.
func (r *Ring) Add(p1, p2, p3 Poly) {
	Q := r.Modulus
	for i := 0; i < r.N; i++ {
		p3[i] = CRed(p1[i]+p2[i], Q)
	}
}

// Sub sets p3 = p1-p2 mod q, coefficient-wise.
func (r *Ring) Sub(p1, p2, p3 Poly) {
	Q := r.Modulus
	for i := 0; i < r.N; i++ {
		p3[i] = CRed(p1[i]+Q-p2[i], Q)
	}
}

// Neg sets p2 = -p1 mod q.
func (r *Ring) Neg(p1, p2 Poly) {
	Q := r.Modulus
	for i := 0; i < r.N; i++ {
		if p1[i] == 0 {
			p2[i] = 0
		} else {
			p2[i] = Q - p1[i]
		}
	}
}

// Reduce sets p2[i] = p1[i] mod q for p1[i] possibly in [0, 2q).
func (r *Ring) Reduce(p1, p2 Poly) {
	Q := r.Modulus
	for i := 0; i < r.N; i++ {
		p2[i] = CRed(p1[i], Q)
	}
}

// MulCoeffs sets p3 = p1*p2 pointwise, mod q: this is the ring
// multiplication when p1 and p2 are both in evaluation (NTT)
// representation.
func (r *Ring) MulCoeffs(p1, p2, p3 Poly) {
	Q := r.Modulus
	bredc := r.BRedConstant
	for i := 0; i < r.N; i++ {
		p3[i] = BRed(p1[i], p2[i], Q, bredc)
	}
}

// MulCoeffsMontgomery sets p3 = p1*p2*2^-64 pointwise, used when one of
// p1, p2 is already carrying a spare factor of 2^64 (i.e. is the output
// of MForm), so that the result lands back in normal form.
func (r *Ring) MulCoeffsMontgomery(p1, p2, p3 Poly) {
	Q := r.Modulus
	mredc := r.MRedConstant
	for i := 0; i < r.N; i++ {
		p3[i] = MRed(p1[i], p2[i], Q, mredc)
	}
}

// MulCoeffsMontgomeryThenAdd sets p3 += p1*p2*2^-64 pointwise. Used by
// the external-product inner loop to accumulate partial products across
// gadget digits without an intermediate buffer.
func (r *Ring) MulCoeffsMontgomeryThenAdd(p1, p2, p3 Poly) {
	Q := r.Modulus
	mredc := r.MRedConstant
	for i := 0; i < r.N; i++ {
		p3[i] = CRed(p3[i]+MRed(p1[i], p2[i], Q, mredc), Q)
	}
}

// AddScalar sets p2[i] = p1[i]+scalar mod q.
func (r *Ring) AddScalar(p1 Poly, scalar uint64, p2 Poly) {
	Q := r.Modulus
	s := scalar % Q
	for i := 0; i < r.N; i++ {
		p2[i] = CRed(p1[i]+s, Q)
	}
}

// MulScalar sets p2[i] = p1[i]*scalar mod q.
func (r *Ring) MulScalar(p1 Poly, scalar uint64, p2 Poly) {
	Q := r.Modulus
	bredc := r.BRedConstant
	s := scalar % Q
	for i := 0; i < r.N; i++ {
		p2[i] = BRed(p1[i], s, Q, bredc)
	}
}

// MForm maps every coefficient of p1 into the Montgomery domain.
func (r *Ring) MForm(p1, p2 Poly) {
	Q := r.Modulus
	bredc := r.BRedConstant
	for i := 0; i < r.N; i++ {
		p2[i] = MForm(p1[i], Q, bredc)
	}
}

// IMForm maps every coefficient of p1 out of the Montgomery domain.
func (r *Ring) IMForm(p1, p2 Poly) {
	Q := r.Modulus
	mredc := r.MRedConstant
	for i := 0; i < r.N; i++ {
		p2[i] = IMForm(p1[i], Q, mredc)
	}
}

// Equal reports whether p1 and p2 hold identical coefficients.
func (r *Ring) Equal(p1, p2 Poly) bool {
	if len(p1) != len(p2) {
		return false
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			return false
		}
	}
	return true
}

// Zero sets every coefficient of p1 to zero.
func (r *Ring) Zero(p1 Poly) {
	for i := range p1 {
		p1[i] = 0
	}
}

// CenterModU64 returns x mod q, centered in (-q/2, q/2], as a signed
// int64. Used when interpreting a decrypted record coefficient as a
// signed plaintext value.
func CenterModU64(x, q uint64) int64 {
	x %= q
	if x > q>>1 {
		return int64(x) - int64(q)
	}
	return int64(x)
}

// CheckModulus reports whether q is an admissible single-prime modulus
// for this package: odd and within the 62-bit budget the Barrett and
// Montgomery reductions above were written for.
func CheckModulus(q uint64) error {
	if q%2 == 0 {
		return fmt.Errorf("ring: modulus %d must be odd", q)
	}
	if bits.Len64(q) > 62 {
		return fmt.Errorf("ring: modulus %d exceeds 62 bits", q)
	}
	return nil
}
