package ring

import "github.com/blocklane/pir/utils/sampling"

// TernarySampler draws coefficients from {-1, 0, 1}, either by density
// (dist.P: each of -1 and 1 has probability P/2) or by exact Hamming
// weight (dist.H: exactly H coefficients are nonzero, uniformly placed
// and uniformly signed).
type TernarySampler struct {
	r    *Ring
	dist Ternary
}

// Read fills pol with N ternary coefficients.
func (s *TernarySampler) Read(source *sampling.Source, pol Poly) {
	if s.dist.H > 0 {
		s.readFixedWeight(source, pol)
		return
	}
	s.readByDensity(source, pol)
}

func (s *TernarySampler) readByDensity(source *sampling.Source, pol Poly) {
	Q := s.r.Modulus
	p := s.dist.P
	if p == 0 {
		p = 2.0 / 3.0
	}
	for i := 0; i < s.r.N; i++ {
		u := uniformUnitFloat(source)
		switch {
		case u < p/2:
			pol[i] = Q - 1
		case u < p:
			pol[i] = 1
		default:
			pol[i] = 0
		}
	}
}

func (s *TernarySampler) readFixedWeight(source *sampling.Source, pol Poly) {
	Q := s.r.Modulus
	N := s.r.N
	for i := range pol {
		pol[i] = 0
	}

	placed := 0
	for placed < s.dist.H && placed < N {
		idx, err := source.Uint64()
		if err != nil {
			break
		}
		i := int(idx % uint64(N))
		if pol[i] != 0 {
			continue
		}
		sign, err := source.Uint64()
		if err != nil {
			break
		}
		if sign&1 == 0 {
			pol[i] = 1
		} else {
			pol[i] = Q - 1
		}
		placed++
	}
}
