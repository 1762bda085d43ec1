package pir

import (
	"fmt"
	"io"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/rlwe"
	"github.com/blocklane/pir/utils/buffer"
)

// WriteTo serializes q. The wire layout mirrors Response's (tag byte,
// then variant-specific fields), one instance of the same length-
// prefixing convention used throughout ring/rlwe/rgsw/pir.
func (q *Query) WriteTo(w io.Writer) (n int64, err error) {
	bw := buffer.WrapWriter(w)

	inc, err := buffer.WriteUint8(bw, uint8(q.Variant))
	n += inc
	if err != nil {
		return n, err
	}

	switch q.Variant {
	case Baseline:
		inc, err = buffer.WriteUint16(bw, uint16(len(q.RowCiphertexts)))
		n += inc
		if err != nil {
			return n, err
		}
		for _, ct := range q.RowCiphertexts {
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

	case Seeded:
		m, err := bw.Write(q.Seed[:])
		n += int64(m)
		if err != nil {
			return n, err
		}
		inc, err = buffer.WriteUint16(bw, uint16(len(q.RowB)))
		n += inc
		if err != nil {
			return n, err
		}
		for _, b := range q.RowB {
			inc, err = b.WriteTo(bw)
			n += inc
			if err != nil {
				return n, err
			}
		}

	case Switched:
		inc, err = buffer.WriteUint32(bw, uint32(q.Compressed.BinarySize()))
		n += inc
		if err != nil {
			return n, err
		}
		inc, err = q.Compressed.WriteTo(bw)
		n += inc
		if err != nil {
			return n, err
		}
		inc, err = buffer.WriteUint16(bw, uint16(len(q.GaloisKeys)))
		n += inc
		if err != nil {
			return n, err
		}
		for galEl, gk := range q.GaloisKeys {
			inc, err = buffer.WriteUint64(bw, galEl)
			n += inc
			if err != nil {
				return n, err
			}
			inc, err = buffer.WriteUint32(bw, uint32(gk.BinarySize()))
			n += inc
			if err != nil {
				return n, err
			}
			inc, err = gk.WriteTo(bw)
			n += inc
			if err != nil {
				return n, err
			}
		}

	default:
		return n, fmt.Errorf("pir: write query: unknown variant %v", q.Variant)
	}

	return n, bw.Flush()
}

// MarshalBinary serializes q.
func (q *Query) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(64)
	_, err := q.WriteTo(buf)
	return buf.Bytes(), err
}

// DecodeQuery deserializes a Query, sized against params.
func DecodeQuery(data []byte, params rlwe.Parameters) (*Query, error) {
	r := buffer.WrapReader(buffer.NewBuffer(data))

	var tag uint8
	if _, err := buffer.ReadUint8(r, &tag); err != nil {
		return nil, fmt.Errorf("pir: decode query: %w", err)
	}
	q := &Query{Variant: QueryVariant(tag)}

	switch q.Variant {
	case Baseline:
		var count uint16
		if _, err := buffer.ReadUint16(r, &count); err != nil {
			return nil, fmt.Errorf("pir: decode query: %w", err)
		}
		q.RowCiphertexts = make([]*rlwe.Ciphertext, count)
		for i := range q.RowCiphertexts {
			var size uint32
			if _, err := buffer.ReadUint32(r, &size); err != nil {
				return nil, fmt.Errorf("pir: decode query: %w", err)
			}
			ct := rlwe.NewCiphertext(params)
			if _, err := ct.ReadFrom(r); err != nil {
				return nil, fmt.Errorf("pir: decode query: %w", err)
			}
			if int(size) != ct.BinarySize() {
				return nil, fmt.Errorf("pir: decode query: ciphertext %d declared %d bytes, read %d", i, size, ct.BinarySize())
			}
			q.RowCiphertexts[i] = ct
		}

	case Seeded:
		if _, err := io.ReadFull(r, q.Seed[:]); err != nil {
			return nil, fmt.Errorf("pir: decode query: %w", err)
		}
		var count uint16
		if _, err := buffer.ReadUint16(r, &count); err != nil {
			return nil, fmt.Errorf("pir: decode query: %w", err)
		}
		q.RowB = make([]ring.Poly, count)
		for i := range q.RowB {
			p := ring.NewPoly(params.N())
			if _, err := p.ReadFrom(r); err != nil {
				return nil, fmt.Errorf("pir: decode query: %w", err)
			}
			q.RowB[i] = p
		}

	case Switched:
		var size uint32
		if _, err := buffer.ReadUint32(r, &size); err != nil {
			return nil, fmt.Errorf("pir: decode query: %w", err)
		}
		ct := rlwe.NewCiphertext(params)
		if _, err := ct.ReadFrom(r); err != nil {
			return nil, fmt.Errorf("pir: decode query: %w", err)
		}
		q.Compressed = ct

		var count uint16
		if _, err := buffer.ReadUint16(r, &count); err != nil {
			return nil, fmt.Errorf("pir: decode query: %w", err)
		}
		q.GaloisKeys = make(map[uint64]*rlwe.GadgetCiphertext, count)
		for i := 0; i < int(count); i++ {
			var galEl uint64
			if _, err := buffer.ReadUint64(r, &galEl); err != nil {
				return nil, fmt.Errorf("pir: decode query: %w", err)
			}
			var gkSize uint32
			if _, err := buffer.ReadUint32(r, &gkSize); err != nil {
				return nil, fmt.Errorf("pir: decode query: %w", err)
			}
			gk := rlwe.NewGadgetCiphertext(params)
			if _, err := gk.ReadFrom(r); err != nil {
				return nil, fmt.Errorf("pir: decode query: %w", err)
			}
			q.GaloisKeys[galEl] = gk
		}

	default:
		return nil, ErrMalformedQuery
	}

	return q, nil
}
