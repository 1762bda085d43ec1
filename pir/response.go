package pir

import (
	"fmt"
	"io"

	"github.com/blocklane/pir/rlwe"
	"github.com/blocklane/pir/utils/buffer"
)

// Wire layout (SPEC_FULL §3, Open Question 3): one byte packing-variant
// tag, one big-endian uint16 ciphertext count, then each ciphertext as
// a uint32 byte-length prefix followed by its WriteTo output.
func (resp *Response) WriteTo(w io.Writer) (n int64, err error) {
	bw := buffer.WrapWriter(w)

	inc, err := buffer.WriteUint8(bw, uint8(resp.Packing))
	n += inc
	if err != nil {
		return n, err
	}

	inc, err = buffer.WriteUint16(bw, uint16(len(resp.Ciphertexts)))
	n += inc
	if err != nil {
		return n, err
	}

	for _, ct := range resp.Ciphertexts {
		inc, err = buffer.WriteUint32(bw, uint32(ct.BinarySize()))
		n += inc
		if err != nil {
			return n, err
		}
		inc, err = ct.WriteTo(bw)
		n += inc
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// MarshalBinary serializes resp.
func (resp *Response) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(64)
	_, err := resp.WriteTo(buf)
	return buf.Bytes(), err
}

// DecodeResponse deserializes a Response, allocating ciphertexts sized
// to params.
func DecodeResponse(data []byte, params rlwe.Parameters) (*Response, error) {
	r := buffer.WrapReader(buffer.NewBuffer(data))

	var tag uint8
	if _, err := buffer.ReadUint8(r, &tag); err != nil {
		return nil, fmt.Errorf("pir: decode response: %w", err)
	}

	var count uint16
	if _, err := buffer.ReadUint16(r, &count); err != nil {
		return nil, fmt.Errorf("pir: decode response: %w", err)
	}

	resp := &Response{Packing: PackingVariant(tag), Ciphertexts: make([]*rlwe.Ciphertext, count)}
	for i := range resp.Ciphertexts {
		var size uint32
		if _, err := buffer.ReadUint32(r, &size); err != nil {
			return nil, fmt.Errorf("pir: decode response: %w", err)
		}
		ct := rlwe.NewCiphertext(params)
		if _, err := ct.ReadFrom(r); err != nil {
			return nil, fmt.Errorf("pir: decode response: %w", err)
		}
		if int(size) != ct.BinarySize() {
			return nil, fmt.Errorf("pir: decode response: ciphertext %d declared %d bytes, read %d", i, size, ct.BinarySize())
		}
		resp.Ciphertexts[i] = ct
	}
	return resp, nil
}
