package ring

import (
	"encoding/binary"
	"math/bits"

	"github.com/blocklane/pir/utils/sampling"
)

// UniformSampler draws coefficients uniformly from [0, q) by rejection
// sampling 64-bit words against the smallest power-of-two mask that
// covers q, discarding draws that land in [q, mask].
type UniformSampler struct {
	r *Ring
}

// Read fills pol with N uniform coefficients drawn from source. When
// source is seed-derived, two Read calls against Sources built from
// the same seed produce identical output: this is what lets a
// SeededCiphertext's "a" component be regenerated on the server from
// the 32-byte seed alone (SPEC_FULL §3).
func (s *UniformSampler) Read(source *sampling.Source, pol Poly) {
	Q := s.r.Modulus
	mask := uint64(1)<<bits.Len64(Q-1) - 1

	var buf [8]byte
	for i := 0; i < s.r.N; i++ {
		for {
			if _, err := source.Read(buf[:]); err != nil {
				pol[i] = 0
				break
			}
			v := binary.LittleEndian.Uint64(buf[:]) & mask
			if v < Q {
				pol[i] = v
				break
			}
		}
	}
}
