package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testRing(t *testing.T) *Ring {
	t.Helper()
	r, err := NewRing(64, 0xffffffff00001)
	require.NoError(t, err)
	return r
}

func TestNTTRoundTrip(t *testing.T) {
	r := testRing(t)

	p1 := r.NewPoly()
	for i := range p1 {
		p1[i] = uint64(i)
	}

	p2 := p1.CopyNew()
	r.NTT(p2, p2)
	r.INTT(p2, p2)

	require.True(t, r.Equal(p1, p2))
}

func TestMulCoeffsAgreesWithSchoolbook(t *testing.T) {
	r := testRing(t)

	a := r.NewPoly()
	b := r.NewPoly()
	a[0], a[1] = 3, 1 // a = 1 + 3x... interpreted low-to-high, a[1]x+a[0]
	b[0] = 5

	want := r.NewPoly()
	r.MulScalar(a, 5, want)

	aNTT := a.CopyNew()
	bNTT := b.CopyNew()
	r.NTT(aNTT, aNTT)
	r.NTT(bNTT, bNTT)

	got := r.NewPoly()
	r.MulCoeffs(aNTT, bNTT, got)
	r.INTT(got, got)

	require.True(t, r.Equal(want, got))
}

func TestAutomorphismIsInvolutionOnRowSwap(t *testing.T) {
	r := testRing(t)
	rowSwap := GaloisElementForRowRotation(r.N)

	p1 := r.NewPoly()
	for i := range p1 {
		p1[i] = uint64(i + 1)
	}

	p2 := r.NewPoly()
	r.Automorphism(p1, rowSwap, p2)

	p3 := r.NewPoly()
	r.Automorphism(p2, rowSwap, p3)

	require.True(t, r.Equal(p1, p3))
}

func TestDecomposeSignedReconstructs(t *testing.T) {
	r := testRing(t)
	const logBasis = 8
	levels := GadgetLevels(52, logBasis)

	p1 := r.NewPoly()
	p1[0] = 123456789
	p1[1] = r.Modulus - 42

	decomp := make([]Poly, levels)
	for i := range decomp {
		decomp[i] = r.NewPoly()
	}
	r.DecomposeSigned(p1, logBasis, decomp)

	got := r.NewPoly()
	scale := uint64(1)
	for k := 0; k < levels; k++ {
		scaled := r.NewPoly()
		r.MulScalar(decomp[k], scale, scaled)
		r.Add(got, scaled, got)
		scale <<= logBasis
	}

	require.True(t, r.Equal(p1, got))
}
