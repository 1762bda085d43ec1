// Package buffer provides small length-prefixed binary encoding helpers
// shared by the WriteTo/ReadFrom/MarshalBinary triplets across ring, rlwe,
// rgsw, pir and db. It plays the role of the teacher's internal
// lattigo/utils/buffer package (not present in the retrieved reference
// pack) so that the rest of the module can keep the teacher's
// buffer.Writer/buffer.Reader calling convention.
package buffer

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer is the interface satisfied by types that can be written to
// without an intermediate bufio.Writer allocation.
type Writer interface {
	io.Writer
	Flush() error
}

// Reader is the interface satisfied by types that can be read from
// without an intermediate bufio.Reader allocation.
type Reader interface {
	io.Reader
	io.ByteReader
}

// Buffer is a Writer and Reader backed by an in-memory byte slice.
type Buffer struct {
	buf []byte
	pos int
}

// NewBuffer wraps an existing slice for reading or appends-on-write.
func NewBuffer(p []byte) *Buffer {
	return &Buffer{buf: p}
}

// NewBufferSize allocates a new, empty Buffer with the given capacity hint.
func NewBufferSize(size int) *Buffer {
	return &Buffer{buf: make([]byte, 0, size)}
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= len(b.buf) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.pos:])
	b.pos += n
	return n, nil
}

func (b *Buffer) ReadByte() (byte, error) {
	if b.pos >= len(b.buf) {
		return 0, io.EOF
	}
	c := b.buf[b.pos]
	b.pos++
	return c, nil
}

// Flush is a no-op: Buffer writes directly into its backing slice.
func (b *Buffer) Flush() error { return nil }

// Bytes returns the backing slice written so far.
func (b *Buffer) Bytes() []byte { return b.buf }

// bufioWriter adapts a bufio.Writer to the Writer interface.
type bufioWriter struct{ *bufio.Writer }

func wrapWriter(w io.Writer) Writer {
	if bw, ok := w.(Writer); ok {
		return bw
	}
	return bufioWriter{bufio.NewWriter(w)}
}

func wrapReader(r io.Reader) Reader {
	if br, ok := r.(Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// WrapWriter exposes wrapWriter for callers outside the package that need
// the same fallback as the WriteTo methods in ring/rlwe/rgsw/pir/db.
func WrapWriter(w io.Writer) Writer { return wrapWriter(w) }

// WrapReader exposes wrapReader, see WrapWriter.
func WrapReader(r io.Reader) Reader { return wrapReader(r) }

// WriteUint8 writes a single byte and returns the number of bytes written.
func WriteUint8(w Writer, v uint8) (int64, error) {
	n, err := w.Write([]byte{v})
	return int64(n), err
}

// ReadUint8 reads a single byte.
func ReadUint8(r Reader, v *uint8) (int64, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	*v = b
	return 1, nil
}

// WriteUint16 writes a big-endian uint16.
func WriteUint16(w Writer, v uint16) (int64, error) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	n, err := w.Write(b[:])
	return int64(n), err
}

// ReadUint16 reads a big-endian uint16.
func ReadUint16(r Reader, v *uint16) (int64, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	*v = binary.BigEndian.Uint16(b[:])
	return 2, nil
}

// WriteUint32 writes a big-endian uint32.
func WriteUint32(w Writer, v uint32) (int64, error) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	n, err := w.Write(b[:])
	return int64(n), err
}

// ReadUint32 reads a big-endian uint32.
func ReadUint32(r Reader, v *uint32) (int64, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	*v = binary.BigEndian.Uint32(b[:])
	return 4, nil
}

// WriteUint64 writes a big-endian uint64.
func WriteUint64(w Writer, v uint64) (int64, error) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	n, err := w.Write(b[:])
	return int64(n), err
}

// ReadUint64 reads a big-endian uint64.
func ReadUint64(r Reader, v *uint64) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	*v = binary.BigEndian.Uint64(b[:])
	return 8, nil
}

// WriteAsUint64 writes v, of any integer-like type, as a big-endian uint64.
func WriteAsUint64[T ~int | ~int64 | ~uint64 | ~uint](w Writer, v T) (int64, error) {
	return WriteUint64(w, uint64(v))
}

// ReadAsUint64 reads a big-endian uint64 into v.
func ReadAsUint64[T ~int | ~int64 | ~uint64 | ~uint](r Reader, v *T) (int64, error) {
	var u uint64
	n, err := ReadUint64(r, &u)
	*v = T(u)
	return n, err
}

// WriteFloat64 writes a big-endian float64.
func WriteFloat64(w Writer, v float64) (int64, error) {
	return WriteUint64(w, math.Float64bits(v))
}

// ReadFloat64 reads a big-endian float64.
func ReadFloat64(r Reader, v *float64) (int64, error) {
	var u uint64
	n, err := ReadUint64(r, &u)
	*v = math.Float64frombits(u)
	return n, err
}

// WriteUint64Slice writes len(p) uint64s, big-endian, with no length prefix.
func WriteUint64Slice(w Writer, p []uint64) (int64, error) {
	var n int64
	for _, v := range p {
		inc, err := WriteUint64(w, v)
		n += inc
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadUint64Slice reads len(p) uint64s, big-endian, into p.
func ReadUint64Slice(r Reader, p []uint64) (int64, error) {
	var n int64
	for i := range p {
		inc, err := ReadUint64(r, &p[i])
		n += inc
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteBytes writes a length-prefixed byte slice.
func WriteBytes(w Writer, p []byte) (int64, error) {
	n, err := WriteAsUint64(w, len(p))
	if err != nil {
		return n, err
	}
	m, err := w.Write(p)
	return n + int64(m), err
}

// ReadBytes reads a length-prefixed byte slice, allocating dst if needed.
func ReadBytes(r Reader, dst *[]byte) (int64, error) {
	var size int
	n, err := ReadAsUint64(r, &size)
	if err != nil {
		return n, err
	}
	if cap(*dst) < size {
		*dst = make([]byte, size)
	}
	*dst = (*dst)[:size]
	m, err := io.ReadFull(r, *dst)
	return n + int64(m), err
}

// WriteString writes a length-prefixed UTF-8 string.
func WriteString(w Writer, s string) (int64, error) {
	return WriteBytes(w, []byte(s))
}

// ReadString reads a length-prefixed UTF-8 string.
func ReadString(r Reader, s *string) (int64, error) {
	var b []byte
	n, err := ReadBytes(r, &b)
	*s = string(b)
	return n, err
}

// RequireEOF returns an error if r has unread trailing bytes, used by
// UnmarshalBinary implementations that want to reject trailing garbage.
func RequireEOF(r Reader) error {
	var b [1]byte
	if _, err := r.Read(b[:]); err != io.EOF {
		return fmt.Errorf("buffer: unexpected trailing bytes")
	}
	return nil
}
