package rlwe

import (
	"io"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/utils/buffer"
)

// Plaintext is a single ring element carrying metadata about its
// current representation. The pir package builds one Plaintext per
// database grid row (D2 records packed into a shard row's NTT-form
// coefficients, loaded at lane build time) and multiplies the client's query ciphertext
// against it directly, so Plaintext here is deliberately just a
// named Poly rather than the teacher's element.go abstraction shared
// with Ciphertext.
type Plaintext struct {
	Value ring.Poly
	*MetaData
}

// NewPlaintext allocates a zero plaintext over params.
func NewPlaintext(params Parameters) *Plaintext {
	return &Plaintext{
		Value:    params.Ring().NewPoly(),
		MetaData: &MetaData{},
	}
}

// BinarySize returns the serialized size of pt.
func (pt *Plaintext) BinarySize() int {
	return len(pt.Value) * 8
}

// WriteTo serializes pt.
func (pt *Plaintext) WriteTo(w io.Writer) (int64, error) {
	return pt.Value.WriteTo(w)
}

// ReadFrom deserializes into pt, which must already be sized.
func (pt *Plaintext) ReadFrom(r io.Reader) (int64, error) {
	return pt.Value.ReadFrom(r)
}

// MarshalBinary serializes pt.
func (pt *Plaintext) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(pt.BinarySize())
	_, err := pt.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary deserializes into pt, which must already be sized.
func (pt *Plaintext) UnmarshalBinary(data []byte) error {
	_, err := pt.ReadFrom(buffer.NewBuffer(data))
	return err
}
