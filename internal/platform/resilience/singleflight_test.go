package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var execs atomic.Int32

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]any, 2)
	errs := make([]error, 2)
	shared := make([]bool, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0], shared[0] = g.Do("key", func() (any, error) {
			close(started)
			<-release
			execs.Add(1)
			return "value", nil
		})
	}()

	<-started
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1], shared[1] = g.Do("key", func() (any, error) {
			execs.Add(1)
			return "value", nil
		})
	}()

	// Give the second caller a moment to join the in-flight call, then let
	// the first one finish.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, execs.Load(), "function should run once per in-flight key")
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Equal(t, "value", results[0])
	require.Equal(t, "value", results[1])
	require.True(t, shared[0] != shared[1], "exactly one caller should report a shared result")
}

func TestSingleFlight_SequentialCallsRunSeparately(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var execs atomic.Int32

	for i := 0; i < 2; i++ {
		val, err, sh := g.Do("key", func() (any, error) {
			execs.Add(1)
			return execs.Load(), nil
		})
		require.NoError(t, err)
		require.EqualValues(t, i+1, val)
		require.False(t, sh)
	}
}

func TestSingleFlight_DistinctKeys(t *testing.T) {
	t.Parallel()

	var g SingleFlight

	a, err, _ := g.Do("a", func() (any, error) { return "a", nil })
	require.NoError(t, err)
	b, err, _ := g.Do("b", func() (any, error) { return "b", nil })
	require.NoError(t, err)

	require.Equal(t, "a", a)
	require.Equal(t, "b", b)
}
