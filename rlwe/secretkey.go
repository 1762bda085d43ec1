package rlwe

import (
	"io"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/utils/buffer"
)

// SecretKey holds a ternary secret in NTT, Montgomery representation,
// ready to be used directly by Encryptor, Decryptor and the
// automorphism key-switch in Evaluator.
type SecretKey struct {
	Value ring.Poly
}

// NewSecretKey allocates a zero secret key over params.
func NewSecretKey(params Parameters) *SecretKey {
	return &SecretKey{Value: params.Ring().NewPoly()}
}

// BinarySize returns the serialized size of sk.
func (sk *SecretKey) BinarySize() int { return len(sk.Value) * 8 }

// WriteTo serializes sk.
func (sk *SecretKey) WriteTo(w io.Writer) (int64, error) { return sk.Value.WriteTo(w) }

// ReadFrom deserializes into sk, which must already be sized.
func (sk *SecretKey) ReadFrom(r io.Reader) (int64, error) { return sk.Value.ReadFrom(r) }

// MarshalBinary serializes sk. Callers handling a real secret key must
// treat the result as key material, not a cache-friendly blob.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(sk.BinarySize())
	_, err := sk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary deserializes into sk, which must already be sized.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	_, err := sk.ReadFrom(buffer.NewBuffer(data))
	return err
}
