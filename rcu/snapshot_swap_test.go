package rcu

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAcquireReturnsCurrentValue(t *testing.T) {
	c := NewCell(1, nil)
	v, release, ok := c.Acquire()
	require.True(t, ok)
	require.Equal(t, 1, v)
	release()
}

func TestSwapDefersReclamationUntilLastReaderReleases(t *testing.T) {
	closed := make(chan int, 1)
	c := NewCell(1, func(v int) { closed <- v })

	v, release, ok := c.Acquire()
	require.True(t, ok)
	require.Equal(t, 1, v)

	// Swap publishes 2 while the reader above still holds a share of 1.
	c.Swap(2, nil)

	select {
	case <-closed:
		t.Fatal("closer ran before the outstanding reader released")
	case <-time.After(20 * time.Millisecond):
	}

	release()

	select {
	case got := <-closed:
		require.Equal(t, 1, got)
	case <-time.After(time.Second):
		t.Fatal("closer never ran after the last reader released")
	}
}

func TestAcquireAfterSwapSeesNewValue(t *testing.T) {
	c := NewCell(1, nil)
	c.Swap(2, nil)

	v, release, ok := c.Acquire()
	require.True(t, ok)
	require.Equal(t, 2, v)
	release()
}

func TestConcurrentReadersDuringSwapEachSeeOneConsistentValue(t *testing.T) {
	c := NewCell(1, nil)

	const readers = 64
	var wg sync.WaitGroup
	results := make([]int, readers)
	start := make(chan struct{})

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			v, release, ok := c.Acquire()
			require.True(t, ok)
			results[i] = v
			release()
		}(i)
	}

	close(start)
	c.Swap(2, nil)
	wg.Wait()

	for _, v := range results {
		require.True(t, v == 1 || v == 2, "reader observed value %d, neither pre- nor post-swap", v)
	}
}

func TestCloseReleasesOwnerShareOnly(t *testing.T) {
	closed := make(chan struct{})
	c := NewCell(1, func(int) { close(closed) })

	v, release, ok := c.Acquire()
	require.True(t, ok)
	require.Equal(t, 1, v)

	c.Close()

	select {
	case <-closed:
		t.Fatal("closer ran while a reader still held a share")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("closer never ran")
	}

	_, _, ok = c.Acquire()
	require.False(t, ok)
}
