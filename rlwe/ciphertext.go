package rlwe

import (
	"fmt"
	"io"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/utils/buffer"
)

// Ciphertext is an RLWE ciphertext (c0, c1) such that c0 + c1*s
// decrypts to the encoded plaintext under secret s. Every query
// variant in SPEC_FULL §3 (Baseline, Seeded, Switched) decodes to this
// same in-memory shape; only the wire encoding of the c1 ("a")
// component differs before decoding.
type Ciphertext struct {
	Value [2]ring.Poly
	*MetaData
}

// NewCiphertext allocates a zero ciphertext over params.
func NewCiphertext(params Parameters) *Ciphertext {
	r := params.Ring()
	return &Ciphertext{
		Value:    [2]ring.Poly{r.NewPoly(), r.NewPoly()},
		MetaData: &MetaData{IsNTT: true},
	}
}

// CopyNew returns an independent copy of ct.
func (ct *Ciphertext) CopyNew() *Ciphertext {
	return &Ciphertext{
		Value:    [2]ring.Poly{ct.Value[0].CopyNew(), ct.Value[1].CopyNew()},
		MetaData: ct.MetaData.Clone(),
	}
}

// BinarySize returns the serialized size of ct.
func (ct *Ciphertext) BinarySize() int {
	return len(ct.Value[0])*8 + len(ct.Value[1])*8
}

// WriteTo serializes ct as its two polynomials back to back.
func (ct *Ciphertext) WriteTo(w io.Writer) (n int64, err error) {
	var inc int64
	if inc, err = ct.Value[0].WriteTo(w); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = ct.Value[1].WriteTo(w); err != nil {
		return n + inc, err
	}
	n += inc
	return n, nil
}

// ReadFrom deserializes into ct, which must already be sized.
func (ct *Ciphertext) ReadFrom(r io.Reader) (n int64, err error) {
	var inc int64
	if inc, err = ct.Value[0].ReadFrom(r); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = ct.Value[1].ReadFrom(r); err != nil {
		return n + inc, err
	}
	n += inc
	return n, nil
}

// MarshalBinary serializes ct.
func (ct *Ciphertext) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(ct.BinarySize())
	_, err := ct.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary deserializes into ct, which must already be sized.
func (ct *Ciphertext) UnmarshalBinary(data []byte) error {
	_, err := ct.ReadFrom(buffer.NewBuffer(data))
	return err
}

// Equal reports whether ct and other hold identical values, used by
// tests asserting round-trip correctness.
func (ct *Ciphertext) Equal(r *ring.Ring, other *Ciphertext) bool {
	return r.Equal(ct.Value[0], other.Value[0]) && r.Equal(ct.Value[1], other.Value[1])
}

func (ct *Ciphertext) String() string {
	return fmt.Sprintf("Ciphertext{N=%d, IsNTT=%v}", len(ct.Value[0]), ct.IsNTT)
}
