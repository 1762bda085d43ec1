package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/blocklane/pir/pir"
	"golang.org/x/sys/unix"
)

// LoadMode selects how shard file bytes are brought into the process's
// address space (spec.md §4.4: "(a) read-into-memory ... (b) mmap").
type LoadMode int

const (
	ReadIntoMemory LoadMode = iota
	Mmap
)

// loadShardBytes returns the full shard file contents (header included)
// and a release function. For Mmap it maps MAP_PRIVATE with no mlock, so
// the OS is free to page the mapping in on demand and evict it under
// memory pressure, per §4.4's "MUST NOT lock pages".
func loadShardBytes(path string, mode LoadMode) ([]byte, func() error, error) {
	if mode == ReadIntoMemory {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("db: read shard %s: %w", path, err)
		}
		return data, func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("db: open shard %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("db: stat shard %s: %w", path, err)
	}
	size := int(info.Size())
	if size == 0 {
		return nil, func() error { return nil }, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("db: mmap shard %s: %w", path, err)
	}
	return data, func() error { return unix.Munmap(data) }, nil
}

// Build constructs a LaneSnapshot from every "*.shard" file in dir, in
// filename order, checking that their row ranges tile [0, params.D1)
// exactly with no gap or overlap (spec.md §4.4: "shards are append-only
// and immutable once published"; construction itself is idempotent —
// the same files and CRS always yield a structurally identical result).
// Row placement is entirely positional: file N's rows start immediately
// after file N-1's, in lexicographic filename order, so a lane builder
// MUST zero-pad shard filenames (shard-000000.shard, shard-000001.shard,
// ...) wide enough that sort order matches row order.
func Build(dir string, params pir.PirParams, crs CrsMetadata, mode LoadMode) (*LaneSnapshot, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.shard"))
	if err != nil {
		return nil, fmt.Errorf("db: glob %s: %w", dir, err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("db: no shard files in %s", dir)
	}

	shards := make([]loadedShard, 0, len(matches))
	row := 0
	for _, path := range matches {
		raw, release, err := loadShardBytes(path, mode)
		if err != nil {
			return nil, err
		}
		h, body, err := verifyShard(raw)
		if err != nil {
			release()
			return nil, fmt.Errorf("db: shard %s: %w", path, err)
		}
		if int(h.recordWidth) != params.RecordWidthBytes {
			release()
			return nil, fmt.Errorf("db: shard %s record width %d, lane expects %d", path, h.recordWidth, params.RecordWidthBytes)
		}

		shards = append(shards, loadedShard{
			startRow: row,
			rowCount: int(h.rowCount),
			body:     body,
			release:  release,
		})
		row += int(h.rowCount)
	}

	if row != params.D1 {
		for _, s := range shards {
			_ = s.release()
		}
		return nil, fmt.Errorf("%w: shard files cover %d rows, lane grid needs %d", ErrRowGap, row, params.D1)
	}

	return &LaneSnapshot{
		Name:        crs.Lane,
		BlockNumber: crs.BlockNumber,
		Params:      params,
		CRS:         crs,
		shards:      shards,
	}, nil
}
