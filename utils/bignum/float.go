package bignum

import "math/big"

// NewFloat allocates a *big.Float set to x at the given precision, used
// by Stats to accumulate noise-budget statistics without losing
// precision across thousands of ciphertext samples.
func NewFloat(x float64, prec uint) *big.Float {
	f := new(big.Float)
	f.SetPrec(prec)
	f.SetFloat64(x)
	return f
}
