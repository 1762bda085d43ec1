package ring

import (
	"math"

	"github.com/blocklane/pir/utils/sampling"
)

// GaussianSampler draws coefficients from a discretized Gaussian of
// standard deviation Sigma, rejecting and re-drawing any sample whose
// magnitude exceeds Bound. This trades the teacher's precomputed
// cumulative-distribution-table sampler (built once per Sigma and
// reused across every noise draw) for a direct Box-Muller draw per
// coefficient; both produce the same distribution, and noise sampling
// is off the query-serving hot path (it only runs at key generation
// and at encryption time), so the simpler approach was kept.
type GaussianSampler struct {
	r    *Ring
	dist DiscreteGaussian
}

// Read fills pol with N discretized Gaussian samples.
func (s *GaussianSampler) Read(source *sampling.Source, pol Poly) {
	Q := s.r.Modulus
	sigma := s.dist.Sigma
	bound := s.dist.Bound
	if bound == 0 {
		bound = 6 * sigma
	}

	for i := 0; i < s.r.N; i++ {
		for {
			z := boxMuller(source) * sigma
			if math.Abs(z) <= bound {
				v := math.Round(z)
				pol[i] = signedToField(int64(v), Q)
				break
			}
		}
	}
}

// boxMuller draws one standard-normal sample from two uniform draws in
// [0, 1); a zero first draw is nudged up to keep the logarithm finite.
func boxMuller(source *sampling.Source) float64 {
	u1 := uniformUnitFloat(source)
	u2 := uniformUnitFloat(source)
	if u1 <= 0 {
		u1 = 1e-300
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// uniformUnitFloat draws a uniform value in [0, 1) from 53 bits of
// source randomness, or returns 1 if the source fails.
func uniformUnitFloat(source *sampling.Source) float64 {
	v, err := source.Uint64()
	if err != nil {
		return 1
	}
	return float64(v>>11) / float64(uint64(1)<<53)
}

func signedToField(v int64, q uint64) uint64 {
	if v >= 0 {
		return uint64(v) % q
	}
	return q - (uint64(-v) % q)
}
