package db

import (
	"sort"

	"github.com/blocklane/pir/pir"
	"github.com/blocklane/pir/rlwe"
)

// loadedShard is one shard's row range and bytes, however they were
// brought into memory.
type loadedShard struct {
	startRow int
	rowCount int
	body     []byte
	release  func() error
}

// LaneSnapshot is one lane's immutable, loaded database: params.D1
// row-plaintexts tiled across one or more shard files (spec.md §4.4).
// It implements pir.RecordSource, so pir.Respond evaluates directly
// against it.
type LaneSnapshot struct {
	Name        string
	BlockNumber uint64
	Params      pir.PirParams
	CRS         CrsMetadata
	shards      []loadedShard
}

var _ pir.RecordSource = (*LaneSnapshot)(nil)

// NumRecords implements pir.RecordSource.
func (l *LaneSnapshot) NumRecords() int {
	return l.Params.NumRecords
}

// RowPlaintext implements pir.RecordSource, decoding row's N
// coefficients out of whichever shard covers it.
func (l *LaneSnapshot) RowPlaintext(row int) (*rlwe.Plaintext, error) {
	if row < 0 || row >= l.Params.D1 {
		return nil, ErrRowOutOfRange
	}

	idx := sort.Search(len(l.shards), func(i int) bool {
		return l.shards[i].startRow+l.shards[i].rowCount > row
	})
	if idx == len(l.shards) {
		return nil, ErrRowOutOfRange
	}

	sh := l.shards[idx]
	n := l.Params.Rlwe.N()
	poly, err := decodeRow(sh.body, n, row-sh.startRow)
	if err != nil {
		return nil, err
	}
	return &rlwe.Plaintext{Value: poly, MetaData: &rlwe.MetaData{IsNTT: true, IsMontgomery: true}}, nil
}

// Close releases every shard's backing memory (unmapping it, for
// LoadMode Mmap). It does not mutate or invalidate in-flight
// RowPlaintext reads still in progress against this snapshot —
// rcu.Cell is what sequences Close against the last reader dropping.
func (l *LaneSnapshot) Close() error {
	var first error
	for _, s := range l.shards {
		if s.release == nil {
			continue
		}
		if err := s.release(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
