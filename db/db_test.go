package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blocklane/pir/pir"
	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/rlwe"
	"github.com/blocklane/pir/utils/sampling"
	"github.com/stretchr/testify/require"
)

func testParams(t *testing.T) pir.PirParams {
	t.Helper()
	rlweParams, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		LogN:             6,
		Q:                0xffffffff00001,
		PlaintextModulus: 65537,
		Error:            ring.DiscreteGaussian{Sigma: 3.2, Bound: 19.2},
		Secret:           ring.Ternary{P: 2.0 / 3.0},
		GadgetLog2Basis:  8,
	})
	require.NoError(t, err)

	params, err := pir.NewPirParams(rlweParams, 1, 4, 4)
	require.NoError(t, err)
	require.Equal(t, 2, params.D1)
	require.Equal(t, 2, params.D2)
	return params
}

func testRecords() [][]byte {
	return [][]byte{
		{0, 1, 2, 3},
		{4, 5, 6, 7},
		{8, 9, 10, 11},
		{12, 13, 14, 15},
	}
}

// writeLaneShards packs records into params.D1 rows and writes each row
// as its own single-row shard file, exercising the multi-shard path of
// Build.
func writeLaneShards(t *testing.T, dir string, params pir.PirParams, records [][]byte) {
	t.Helper()
	for row := 0; row < params.D1; row++ {
		start := row * params.D2
		end := start + params.D2
		if end > len(records) {
			end = len(records)
		}
		var rowRecords [][]byte
		if start < len(records) {
			rowRecords = records[start:end]
		}
		pt, err := pir.PackRow(params, rowRecords)
		require.NoError(t, err)
		path := filepath.Join(dir, fmtShardName(row))
		require.NoError(t, WriteShardFile(path, params.RecordWidthBytes, []ring.Poly{pt.Value}))
	}
}

func fmtShardName(row int) string {
	return "shard-" + string(rune('0'+row)) + ".shard"
}

func TestBuildAndRowPlaintextRoundTrip(t *testing.T) {
	dir := t.TempDir()
	params := testParams(t)
	records := testRecords()
	writeLaneShards(t, dir, params, records)

	crs := CrsMetadata{PirParamsVersion: 1, Lane: "hot", EntrySize: 4, EntryCount: 4, BlockNumber: 7}
	snap, err := Build(dir, params, crs, ReadIntoMemory)
	require.NoError(t, err)
	defer snap.Close()

	require.Equal(t, 4, snap.NumRecords())
	require.Equal(t, uint64(7), snap.BlockNumber)

	for row := 0; row < params.D1; row++ {
		start := row * params.D2
		end := start + params.D2
		if end > len(records) {
			end = len(records)
		}
		var rowRecords [][]byte
		if start < len(records) {
			rowRecords = records[start:end]
		}
		want, err := pir.PackRow(params, rowRecords)
		require.NoError(t, err)

		got, err := snap.RowPlaintext(row)
		require.NoError(t, err)
		require.Equal(t, []uint64(want.Value), []uint64(got.Value))
	}

	_, err = snap.RowPlaintext(params.D1)
	require.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestBuildMmapEndToEnd(t *testing.T) {
	dir := t.TempDir()
	params := testParams(t)
	records := testRecords()
	writeLaneShards(t, dir, params, records)

	crs := CrsMetadata{PirParamsVersion: 1, Lane: "hot", EntrySize: 4, EntryCount: 4}
	snap, err := Build(dir, params, crs, Mmap)
	require.NoError(t, err)
	defer snap.Close()

	kg := rlwe.NewKeyGenerator(params.Rlwe)
	source := sampling.NewSource()
	sk, err := kg.GenSecretKey(source)
	require.NoError(t, err)

	for idx, want := range records {
		q, state, err := pir.GenerateQuery(params, sk, idx, pir.Baseline, source)
		require.NoError(t, err)

		resp, err := pir.Respond(params, snap, q, pir.OnePacking)
		require.NoError(t, err)

		got, err := pir.Extract(state, resp)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestBuildRejectsRowGap(t *testing.T) {
	dir := t.TempDir()
	params := testParams(t)
	records := testRecords()
	writeLaneShards(t, dir, params, records)

	// Remove one shard so the remaining files no longer tile [0, D1).
	matches, err := filepath.Glob(filepath.Join(dir, "*.shard"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(matches[0]))

	crs := CrsMetadata{PirParamsVersion: 1, Lane: "hot"}
	_, err = Build(dir, params, crs, ReadIntoMemory)
	require.ErrorIs(t, err, ErrRowGap)
}

func TestBuildRejectsBadChecksum(t *testing.T) {
	dir := t.TempDir()
	params := testParams(t)
	writeLaneShards(t, dir, params, testRecords())

	matches, err := filepath.Glob(filepath.Join(dir, "*.shard"))
	require.NoError(t, err)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	data[shardHeaderSize] ^= 0xff
	require.NoError(t, os.WriteFile(matches[0], data, 0o644))

	crs := CrsMetadata{PirParamsVersion: 1, Lane: "hot"}
	_, err = Build(dir, params, crs, ReadIntoMemory)
	require.ErrorIs(t, err, ErrShardChecksum)
}

func TestCrsMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crs.json")
	want := CrsMetadata{PirParamsVersion: 3, Lane: "cold", EntrySize: 32, EntryCount: 1 << 20, BlockNumber: 123456}
	require.NoError(t, want.Save(path))

	got, err := LoadCrsMetadata(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
