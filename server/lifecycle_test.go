package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/blocklane/pir/db"
	"github.com/blocklane/pir/lane"
	"github.com/blocklane/pir/pir"
	"github.com/blocklane/pir/rcu"
	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/rlwe"
	"github.com/blocklane/pir/utils/sampling"
	"github.com/stretchr/testify/require"
)

func testRlweParams(t *testing.T) rlwe.Parameters {
	t.Helper()
	params, err := rlwe.NewParametersFromLiteral(rlwe.ParametersLiteral{
		LogN:             6,
		Q:                0xffffffff00001,
		PlaintextModulus: 65537,
		Error:            ring.DiscreteGaussian{Sigma: 3.2, Bound: 19.2},
		Secret:           ring.Ternary{P: 2.0 / 3.0},
		GadgetLog2Basis:  8,
	})
	require.NoError(t, err)
	return params
}

func testRecords() [][]byte {
	return [][]byte{{0, 1, 2, 3}, {4, 5, 6, 7}, {8, 9, 10, 11}, {12, 13, 14, 15}}
}

func buildHotLane(t *testing.T, version uint16) *db.LaneSnapshot {
	t.Helper()
	rlweParams := testRlweParams(t)
	params, err := pir.NewPirParams(rlweParams, version, 4, 4)
	require.NoError(t, err)

	dir := t.TempDir()
	records := testRecords()
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
		path := filepath.Join(dir, "shard-"+string(rune('0'+row))+".shard")
		require.NoError(t, db.WriteShardFile(path, params.RecordWidthBytes, []ring.Poly{pt.Value}))
	}

	crs := db.CrsMetadata{PirParamsVersion: version, Lane: "hot", EntrySize: 4, EntryCount: 4}
	snap, err := db.Build(dir, params, crs, db.ReadIntoMemory)
	require.NoError(t, err)
	return snap
}

func newRouter(t *testing.T, lanes map[string]*db.LaneSnapshot) *lane.Router {
	t.Helper()
	snap := db.NewServerSnapshot(lanes)
	cell := rcu.NewCell(snap, nil)
	return lane.NewRouter(cell)
}

func TestLifecycleServesQuery(t *testing.T) {
	hot := buildHotLane(t, 1)
	r := newRouter(t, map[string]*db.LaneSnapshot{"hot": hot})
	lc := &Lifecycle{Router: r}

	kg := rlwe.NewKeyGenerator(hot.Params.Rlwe)
	source := sampling.NewSource()
	sk, err := kg.GenSecretKey(source)
	require.NoError(t, err)

	q, state, err := pir.GenerateQuery(hot.Params, sk, 2, pir.Baseline, source)
	require.NoError(t, err)
	qBytes, err := q.MarshalBinary()
	require.NoError(t, err)

	resp, err := lc.Handle(context.Background(), Envelope{
		Lane:       "hot",
		Variant:    pir.Baseline,
		Packing:    pir.OnePacking,
		Version:    1,
		QueryBytes: qBytes,
	})
	require.NoError(t, err)

	got, err := pir.Extract(state, resp)
	require.NoError(t, err)
	require.Equal(t, testRecords()[2], got)
}

func TestLifecycleRejectsLaneNotLoaded(t *testing.T) {
	hot := buildHotLane(t, 1)
	r := newRouter(t, map[string]*db.LaneSnapshot{"hot": hot})
	lc := &Lifecycle{Router: r}

	_, err := lc.Handle(context.Background(), Envelope{Lane: "cold", Version: 1})
	require.ErrorIs(t, err, lane.ErrNotLoaded)
}

func TestLifecycleRejectsVersionMismatchBeforeDecodingQuery(t *testing.T) {
	hot := buildHotLane(t, 1)
	r := newRouter(t, map[string]*db.LaneSnapshot{"hot": hot})
	lc := &Lifecycle{Router: r}

	_, err := lc.Handle(context.Background(), Envelope{
		Lane:       "hot",
		Version:    2,
		QueryBytes: []byte("not a real query"),
	})
	require.ErrorIs(t, err, pir.ErrVersionMismatch)
}

func TestLifecycleRejectsMalformedQueryBytes(t *testing.T) {
	hot := buildHotLane(t, 1)
	r := newRouter(t, map[string]*db.LaneSnapshot{"hot": hot})
	lc := &Lifecycle{Router: r}

	_, err := lc.Handle(context.Background(), Envelope{
		Lane:       "hot",
		Variant:    pir.Baseline,
		Version:    1,
		QueryBytes: []byte{0xff, 0x01, 0x02},
	})
	require.ErrorIs(t, err, pir.ErrMalformedQuery)
}
