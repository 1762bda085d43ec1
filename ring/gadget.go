package ring

// DecomposeSigned fills decomp with the signed-balanced base-2^logBasis
// digit decomposition of p1, coefficient-wise: for each coefficient c,
// interpreted as a signed value in (-q/2, q/2], DecomposeSigned finds
// digits d_0..d_{levels-1}, each in [-2^logBasis/2, 2^logBasis/2),
// such that c = sum_k d_k * 2^(logBasis*k) (mod q). levels is
// len(decomp).
//
// This is the gadget decomposition behind key-switching and the
// external product (SPEC_FULL §4.2): a ciphertext component is
// decomposed this way, each digit is multiplied against one row of a
// gadget/RGSW ciphertext, and the results are summed. Balanced digits
// keep |d_k| small, which is what keeps the noise growth of a gadget
// product additive in levels rather than multiplicative in the
// modulus.
func (r *Ring) DecomposeSigned(p1 Poly, logBasis int, decomp []Poly) {
	Q := r.Modulus
	base := int64(1) << logBasis
	half := base >> 1
	levels := len(decomp)

	for i := 0; i < r.N; i++ {
		v := CenterModU64(p1[i], Q)
		for k := 0; k < levels; k++ {
			d := v & (base - 1)
			if d >= half {
				d -= base
			}
			v = (v - d) >> uint(logBasis)
			if d < 0 {
				decomp[k][i] = Q + uint64(d)
			} else {
				decomp[k][i] = uint64(d)
			}
		}
	}
}

// GadgetLevels returns the number of digits needed to cover a modulus
// of bitLen bits at the given digit width logBasis.
func GadgetLevels(bitLen, logBasis int) int {
	levels := bitLen / logBasis
	if bitLen%logBasis != 0 {
		levels++
	}
	return levels
}
