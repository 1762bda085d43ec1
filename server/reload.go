package server

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blocklane/pir/db"
	"github.com/blocklane/pir/rcu"
)

// BuildFunc constructs a fresh ServerSnapshot off to the side — e.g.
// db.Build run once per configured lane, bundled via db.NewServerSnapshot.
type BuildFunc func() (*db.ServerSnapshot, error)

// Reloader implements the reload discipline of spec.md §5: at most one
// build in flight, a debounce window that coalesces rapid triggers, and
// a failed build leaves the prior snapshot current.
type Reloader struct {
	Cell     *rcu.Cell[*db.ServerSnapshot]
	Build    BuildFunc
	Debounce time.Duration
	Log      *logrus.Logger

	mu      sync.Mutex
	pending bool
}

// Trigger schedules a reload after the debounce window, or is a no-op
// if one is already pending or in flight.
func (r *Reloader) Trigger() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending {
		return
	}
	r.pending = true

	debounce := r.Debounce
	if debounce <= 0 {
		debounce = time.Second
	}
	time.AfterFunc(debounce, r.run)
}

func (r *Reloader) run() {
	snap, err := r.Build()

	r.mu.Lock()
	r.pending = false
	r.mu.Unlock()

	if err != nil {
		r.logger().WithError(err).Warn("snapshot build failed, keeping prior snapshot")
		return
	}

	r.Cell.Swap(snap, func(old *db.ServerSnapshot) {
		if old != nil {
			_ = old.Close()
		}
	})
}

func (r *Reloader) logger() *logrus.Logger {
	if r.Log != nil {
		return r.Log
	}
	return logrus.StandardLogger()
}
