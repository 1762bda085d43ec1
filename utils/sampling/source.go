// Package sampling provides the randomness sources used throughout ring,
// rlwe and pir: a CSPRNG-backed Source for fresh randomness (key
// generation, Gaussian noise) and a deterministic, seed-derived Source
// for the XOF expansion used by seeded queries and seeded ciphertexts
// (spec §3 "SeededCiphertext", §4.1 "XOF-seeded uniform sampler").
//
// Each goroutine that needs randomness MUST own its own Source: sharing
// one across goroutines reintroduces the desynchronization bug spec §5
// calls out by name ("historical bug: sharing a sampler between two setup
// paths silently desynchronized them").
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// SeedSize is the width in bytes of a deterministic expansion seed.
const SeedSize = 32

// Seed is a 32-byte seed for deterministic XOF expansion.
type Seed [SeedSize]byte

// NewSeed draws a fresh random seed from the system CSPRNG.
func NewSeed() (s Seed, err error) {
	_, err = io.ReadFull(rand.Reader, s[:])
	return
}

// Source is a randomness source. It is either:
//   - fresh: backed directly by crypto/rand, used for noise and for
//     generating a seed to hand to a peer.
//   - seeded: backed by a blake3 XOF keyed on a 32-byte seed, used to
//     deterministically regenerate the "a" component of each row
//     ciphertext of a seeded query on both sides of the wire.
//
// A Source is not safe for concurrent use; each goroutine must create
// its own.
type Source struct {
	seed   *Seed
	xof    *blake3.Hasher
	reader io.Reader
}

// NewSource returns a Source backed by the system CSPRNG.
func NewSource() *Source {
	return &Source{reader: rand.Reader}
}

// NewSourceFromSeed returns a Source whose output is the deterministic
// blake3 XOF expansion of seed. Two Sources constructed from the same
// seed produce bit-identical output, which is the correctness property
// spec §8 calls "Idempotence of seeded expansion".
func NewSourceFromSeed(seed Seed) *Source {
	h := blake3.New()
	_, _ = h.Write(seed[:])
	s := seed
	return &Source{seed: &s, xof: h, reader: h.Digest()}
}

// IsDeterministic reports whether the Source is seed-derived.
func (s *Source) IsDeterministic() bool {
	return s.seed != nil
}

// GetSeed returns the seed backing a deterministic Source, or the zero
// seed and false for a CSPRNG-backed Source.
func (s *Source) GetSeed() (Seed, bool) {
	if s.seed == nil {
		return Seed{}, false
	}
	return *s.seed, true
}

// Read fills p with output from the underlying randomness source. For a
// deterministic Source, repeated calls continue the same XOF stream, so
// callers that need to re-derive the same coefficients from scratch must
// construct a fresh Source from the seed rather than re-read an
// in-progress one.
func (s *Source) Read(p []byte) (int, error) {
	return io.ReadFull(s.reader, p)
}

// Uint64 draws a uniform, unmasked 64-bit value.
func (s *Source) Uint64() (uint64, error) {
	var b [8]byte
	if _, err := s.Read(b[:]); err != nil {
		return 0, fmt.Errorf("sampling.Source.Uint64: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Fork derives an independent child Source. For a CSPRNG source this is
// just a new CSPRNG source (the system pool is already thread-safe and
// inexhaustible). For a deterministic source, the child is seeded from
// label||seed, so that distinct purposes (e.g. row i vs. row i+1 of a
// seeded query) never observe the same stream
// without requiring the caller to thread an offset through by hand.
func (s *Source) Fork(label string) *Source {
	if s.seed == nil {
		return NewSource()
	}
	h := blake3.New()
	_, _ = h.Write([]byte(label))
	_, _ = h.Write(s.seed[:])
	var child Seed
	_, _ = io.ReadFull(h.Digest(), child[:])
	return NewSourceFromSeed(child)
}
