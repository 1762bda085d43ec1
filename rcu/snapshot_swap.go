// Package rcu implements a generic read-copy-update cell: lock-free
// reader acquisition, a single serialised writer, and deferred
// reclamation once the last reference to a superseded value drops
// (spec.md §4.5/§9, realisation (a) — an atomic pointer to a
// shared-ownership handle, not a reader-writer lock, since a writer must
// never stall behind a long-running reader).
package rcu

import (
	"sync"
	"sync/atomic"
)

// refcounted pairs a value with the reference count gating its closer.
// refs starts at 1, owned by whichever Cell currently publishes it; an
// Acquire adds a share, a release removes one; the closer runs exactly
// once, when the count reaches zero.
type refcounted[T any] struct {
	value  T
	closer func(T)
	refs   atomic.Int64
}

// acquire adds a reader share, failing if the value has already lost
// every share (the Cell moved on and the last prior reader already
// released it) — CompareAndSwap-retried rather than a plain Add because
// a value at zero must never become resurrected.
func (r *refcounted[T]) acquire() bool {
	for {
		n := r.refs.Load()
		if n <= 0 {
			return false
		}
		if r.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (r *refcounted[T]) release() {
	if r.refs.Add(-1) == 0 && r.closer != nil {
		r.closer(r.value)
	}
}

// Cell is an atomically-swappable reference to a value of type T.
type Cell[T any] struct {
	mu  sync.Mutex
	ptr atomic.Pointer[refcounted[T]]
}

// NewCell publishes value as the cell's initial contents. closer, if
// non-nil, runs once no reader (and no later Swap's predecessor-release)
// holds a share of value anymore.
func NewCell[T any](value T, closer func(T)) *Cell[T] {
	rc := &refcounted[T]{value: value, closer: closer}
	rc.refs.Store(1)
	c := &Cell[T]{}
	c.ptr.Store(rc)
	return c
}

// Acquire returns the currently published value and a release func the
// caller MUST invoke exactly once when done with it. It never blocks
// and never observes a partially-constructed value: the atomic load
// either sees the old pointer in full or the new one in full, never a
// mix (spec.md §4.5 ordering guarantees).
func (c *Cell[T]) Acquire() (value T, release func(), ok bool) {
	for {
		rc := c.ptr.Load()
		if rc == nil {
			var zero T
			return zero, func() {}, false
		}
		if rc.acquire() {
			return rc.value, rc.release, true
		}
		// rc dropped its last share between the load and our acquire
		// attempt — a concurrent Swap already moved the cell past it.
		// Retry against whatever is current now.
	}
}

// Swap publishes newValue and returns once the cell no longer holds the
// old value's owning share. Swap does not wait for outstanding readers:
// if any Acquire from before this call is still live, the old value's
// closer runs later, when that reader's release finally drops the count
// to zero (spec.md §4.5 "writers MUST NOT wait for readers"). Swaps are
// serialised against each other by an internal mutex; Acquire never
// contends with it.
func (c *Cell[T]) Swap(newValue T, closer func(T)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rc := &refcounted[T]{value: newValue, closer: closer}
	rc.refs.Store(1)
	old := c.ptr.Swap(rc)
	if old != nil {
		old.release()
	}
}

// Close drops the cell's own share of whatever is currently published,
// without publishing a replacement. Any reader already holding a share
// keeps the value alive until its own release.
func (c *Cell[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old := c.ptr.Swap(nil); old != nil {
		old.release()
	}
}
