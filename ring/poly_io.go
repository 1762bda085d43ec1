package ring

import (
	"bufio"
	"io"

	"github.com/blocklane/pir/utils/buffer"
)

// BinarySize returns the serialized size of a polynomial over this
// ring, in bytes.
func (r *Ring) BinarySize() int {
	return r.N * 8
}

// WriteTo writes p, coefficient-wise, as big-endian uint64s.
func (p Poly) WriteTo(w io.Writer) (int64, error) {
	if bw, ok := w.(buffer.Writer); ok {
		return buffer.WriteUint64Slice(bw, p)
	}
	return p.WriteTo(bufio.NewWriter(w))
}

// ReadFrom reads len(p) coefficients into p.
func (p Poly) ReadFrom(r io.Reader) (int64, error) {
	if br, ok := r.(buffer.Reader); ok {
		return buffer.ReadUint64Slice(br, p)
	}
	return p.ReadFrom(bufio.NewReader(r))
}

// MarshalBinary serializes p.
func (p Poly) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(len(p) * 8)
	_, err := p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary deserializes into p, which must already be sized.
func (p Poly) UnmarshalBinary(data []byte) error {
	_, err := p.ReadFrom(buffer.NewBuffer(data))
	return err
}
