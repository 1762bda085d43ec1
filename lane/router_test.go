package lane

import (
	"testing"

	"github.com/blocklane/pir/db"
	"github.com/blocklane/pir/rcu"
	"github.com/stretchr/testify/require"
)

func TestRouteReturnsLoadedLane(t *testing.T) {
	hot := &db.LaneSnapshot{Name: "hot"}
	snap := db.NewServerSnapshot(map[string]*db.LaneSnapshot{"hot": hot})
	cell := rcu.NewCell(snap, nil)
	r := NewRouter(cell)

	got, release, err := r.Route("hot")
	require.NoError(t, err)
	require.Same(t, hot, got)
	release()
}

func TestRouteReturnsNotLoadedForMissingLane(t *testing.T) {
	snap := db.NewServerSnapshot(map[string]*db.LaneSnapshot{"hot": {Name: "hot"}})
	cell := rcu.NewCell(snap, nil)
	r := NewRouter(cell)

	_, _, err := r.Route("cold")
	require.ErrorIs(t, err, ErrNotLoaded)
}

func TestRouteReturnsNotLoadedWhenCellIsEmpty(t *testing.T) {
	cell := rcu.NewCell[*db.ServerSnapshot](nil, nil)
	r := NewRouter(cell)

	_, _, err := r.Route("hot")
	require.ErrorIs(t, err, ErrNotLoaded)
}

func TestRouteSeesNewSnapshotAfterSwap(t *testing.T) {
	snap1 := db.NewServerSnapshot(map[string]*db.LaneSnapshot{"hot": {Name: "hot", BlockNumber: 1}})
	cell := rcu.NewCell(snap1, nil)
	r := NewRouter(cell)

	snap2 := db.NewServerSnapshot(map[string]*db.LaneSnapshot{"hot": {Name: "hot", BlockNumber: 2}})
	cell.Swap(snap2, nil)

	got, release, err := r.Route("hot")
	require.NoError(t, err)
	require.Equal(t, uint64(2), got.BlockNumber)
	release()
}
