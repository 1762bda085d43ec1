package db

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/blocklane/pir/ring"
)

// Shard file format, fixed exactly as spec.md §6 (unlike pir/response.go's
// internally-chosen wire layout, this one is an external interop format
// and mandates little-endian integers throughout, header and body alike).
const (
	shardMagic      = uint32(0x50495232) // "PIR2"
	ShardVersion    = uint16(1)
	shardHeaderSize = 32
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

type shardHeader struct {
	version     uint16
	recordWidth uint16
	rowCount    uint64
	checksum    uint32
}

func (h shardHeader) encode() [shardHeaderSize]byte {
	var buf [shardHeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], shardMagic)
	binary.LittleEndian.PutUint16(buf[4:6], h.version)
	binary.LittleEndian.PutUint16(buf[6:8], h.recordWidth)
	binary.LittleEndian.PutUint64(buf[8:16], h.rowCount)
	binary.LittleEndian.PutUint32(buf[16:20], h.checksum)
	return buf
}

func decodeShardHeader(buf []byte) (shardHeader, error) {
	if len(buf) < shardHeaderSize {
		return shardHeader{}, fmt.Errorf("db: shard header truncated: %d bytes", len(buf))
	}
	if magic := binary.LittleEndian.Uint32(buf[0:4]); magic != shardMagic {
		return shardHeader{}, ErrShardMagic
	}
	h := shardHeader{
		version:     binary.LittleEndian.Uint16(buf[4:6]),
		recordWidth: binary.LittleEndian.Uint16(buf[6:8]),
		rowCount:    binary.LittleEndian.Uint64(buf[8:16]),
		checksum:    binary.LittleEndian.Uint32(buf[16:20]),
	}
	if h.version != ShardVersion {
		return shardHeader{}, ErrShardVersion
	}
	return h, nil
}

// encodeRows serializes rows as n little-endian uint64 coefficients each,
// concatenated in row order. Every row must already be in NTT+Montgomery
// form (pir.PackRow's output): the shard stores the server-side
// representation directly, per spec.md §4.4.
func encodeRows(rows []ring.Poly) []byte {
	if len(rows) == 0 {
		return nil
	}
	n := len(rows[0])
	body := make([]byte, len(rows)*n*8)
	for i, row := range rows {
		off := i * n * 8
		for j, c := range row {
			binary.LittleEndian.PutUint64(body[off+j*8:off+j*8+8], c)
		}
	}
	return body
}

// decodeRow extracts the local'th row (0-based within a shard body) as a
// ring.Poly of degree n.
func decodeRow(body []byte, n, local int) (ring.Poly, error) {
	off := local * n * 8
	if off < 0 || off+n*8 > len(body) {
		return nil, fmt.Errorf("db: row %d out of bounds for shard body of %d bytes", local, len(body))
	}
	row := ring.NewPoly(n)
	for j := range row {
		row[j] = binary.LittleEndian.Uint64(body[off+j*8 : off+j*8+8])
	}
	return row, nil
}

// WriteShardFile writes rows, each already NTT+Montgomery encoded by
// pir.PackRow, to path as a single shard file.
func WriteShardFile(path string, recordWidth int, rows []ring.Poly) error {
	body := encodeRows(rows)
	h := shardHeader{
		version:     ShardVersion,
		recordWidth: uint16(recordWidth),
		rowCount:    uint64(len(rows)),
		checksum:    crc32.Checksum(body, crc32cTable),
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("db: create shard %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	header := h.encode()
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if _, err := bw.Write(body); err != nil {
		return err
	}
	return bw.Flush()
}

// verifyShard checks the header-declared checksum against body and
// returns the parsed header.
func verifyShard(raw []byte) (shardHeader, []byte, error) {
	if len(raw) < shardHeaderSize {
		return shardHeader{}, nil, fmt.Errorf("db: shard file truncated: %d bytes", len(raw))
	}
	h, err := decodeShardHeader(raw[:shardHeaderSize])
	if err != nil {
		return shardHeader{}, nil, err
	}
	body := raw[shardHeaderSize:]
	if crc32.Checksum(body, crc32cTable) != h.checksum {
		return shardHeader{}, nil, ErrShardChecksum
	}
	return h, body, nil
}
