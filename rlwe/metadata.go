package rlwe

// MetaData tracks the representation a Ciphertext or Plaintext is
// currently in. Query variants (baseline/seeded/switched, SPEC_FULL §3)
// only ever differ in how the wire encodes the "a" component; once
// decoded, every ciphertext carries the same two flags the teacher's
// MetaData carries, minus the scale and 2D-dimension fields that only
// applied to the batched CKKS/BFV encodings this spec does not use.
type MetaData struct {
	// IsNTT reports whether Value holds evaluation-representation
	// coefficients.
	IsNTT bool

	// IsMontgomery reports whether Value's coefficients carry a spare
	// factor of 2^64 (Montgomery form).
	IsMontgomery bool
}

// Clone returns a copy of m.
func (m *MetaData) Clone() *MetaData {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// Equal reports whether m and other carry the same flags.
func (m *MetaData) Equal(other *MetaData) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.IsNTT == other.IsNTT && m.IsMontgomery == other.IsMontgomery
}
