package server

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blocklane/pir/db"
	"github.com/blocklane/pir/rcu"
	"github.com/stretchr/testify/require"
)

func TestReloaderSwapsInFreshSnapshotAfterDebounce(t *testing.T) {
	initial := db.NewServerSnapshot(nil)
	cell := rcu.NewCell(initial, nil)

	fresh := db.NewServerSnapshot(nil)
	var builds atomic.Int32
	r := &Reloader{
		Cell:     cell,
		Debounce: 10 * time.Millisecond,
		Build: func() (*db.ServerSnapshot, error) {
			builds.Add(1)
			return fresh, nil
		},
	}

	r.Trigger()
	require.Eventually(t, func() bool {
		snap, release, ok := cell.Acquire()
		defer release()
		return ok && snap == fresh
	}, time.Second, time.Millisecond)

	require.EqualValues(t, 1, builds.Load())
}

func TestReloaderCoalescesRapidTriggersIntoOneBuild(t *testing.T) {
	initial := db.NewServerSnapshot(nil)
	cell := rcu.NewCell(initial, nil)

	var builds atomic.Int32
	r := &Reloader{
		Cell:     cell,
		Debounce: 50 * time.Millisecond,
		Build: func() (*db.ServerSnapshot, error) {
			builds.Add(1)
			return db.NewServerSnapshot(nil), nil
		},
	}

	for i := 0; i < 5; i++ {
		r.Trigger()
		time.Sleep(time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	require.EqualValues(t, 1, builds.Load())
}

func TestReloaderKeepsPriorSnapshotOnBuildFailure(t *testing.T) {
	initial := db.NewServerSnapshot(nil)
	cell := rcu.NewCell(initial, nil)

	r := &Reloader{
		Cell:     cell,
		Debounce: 5 * time.Millisecond,
		Build: func() (*db.ServerSnapshot, error) {
			return nil, errors.New("simulated build failure")
		},
	}

	r.Trigger()
	time.Sleep(100 * time.Millisecond)

	snap, release, ok := cell.Acquire()
	defer release()
	require.True(t, ok)
	require.Same(t, initial, snap)
}

func TestReloaderAllowsANewTriggerAfterPriorBuildCompletes(t *testing.T) {
	initial := db.NewServerSnapshot(nil)
	cell := rcu.NewCell(initial, nil)

	var builds atomic.Int32
	r := &Reloader{
		Cell:     cell,
		Debounce: 5 * time.Millisecond,
		Build: func() (*db.ServerSnapshot, error) {
			builds.Add(1)
			return db.NewServerSnapshot(nil), nil
		},
	}

	r.Trigger()
	time.Sleep(50 * time.Millisecond)
	r.Trigger()
	time.Sleep(50 * time.Millisecond)

	require.EqualValues(t, 2, builds.Load())
}
