package ring

import (
	"fmt"

	"github.com/blocklane/pir/utils/sampling"
)

// Sampler draws a polynomial in coefficient representation from a
// ring according to some DistributionParameters, reading randomness
// from a caller-owned sampling.Source. Each of the three
// DistributionParameters implementations below has a matching
// sampler; NewSampler dispatches on the concrete type, mirroring the
// teacher's ring.NewSampler.
type Sampler interface {
	Read(source *sampling.Source, pol Poly)
}

// NewSampler returns the Sampler for the given distribution over r.
func NewSampler(r *Ring, dist DistributionParameters) (Sampler, error) {
	switch d := dist.(type) {
	case *Uniform:
		return &UniformSampler{r: r}, nil
	case *Ternary:
		return &TernarySampler{r: r, dist: *d}, nil
	case *DiscreteGaussian:
		return &GaussianSampler{r: r, dist: *d}, nil
	default:
		return nil, fmt.Errorf("ring: unsupported distribution type %T", dist)
	}
}
