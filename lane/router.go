// Package lane routes a (lane name, query) pair to the correct lane's
// snapshot (spec.md §4.6). It owns no mutable state of its own: it reads
// whatever rcu.Cell currently publishes and hands back a release
// closure, so the caller never holds a bare reference past its use.
package lane

import (
	"errors"

	"github.com/blocklane/pir/db"
	"github.com/blocklane/pir/rcu"
)

// ErrNotLoaded is returned when name has no snapshot in the currently
// published ServerSnapshot.
var ErrNotLoaded = errors.New("lane: not loaded")

// Router is a thin, stateless wrapper around the cell publishing the
// current ServerSnapshot.
type Router struct {
	cell *rcu.Cell[*db.ServerSnapshot]
}

// NewRouter wraps cell.
func NewRouter(cell *rcu.Cell[*db.ServerSnapshot]) *Router {
	return &Router{cell: cell}
}

// Route acquires the current snapshot and returns name's lane within
// it, plus a release closure the caller MUST call exactly once when
// done. On ErrNotLoaded the snapshot reference is already released
// before Route returns — the caller has nothing to clean up.
func (r *Router) Route(name string) (*db.LaneSnapshot, func(), error) {
	snap, release, ok := r.cell.Acquire()
	if !ok || snap == nil {
		release()
		return nil, nil, ErrNotLoaded
	}

	l, ok := snap.Lane(name)
	if !ok {
		release()
		return nil, nil, ErrNotLoaded
	}

	return l, release, nil
}
