package blockpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoReturnsResult(t *testing.T) {
	p := New(4)

	got, err := Do(context.Background(), p, func() ([]string, error) {
		return []string{"o1", "o2"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o2"}, got)
}

func TestDoPropagatesError(t *testing.T) {
	p := New(4)
	boom := errors.New("query failed")

	_, err := Do(context.Background(), p, func() (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

// TestPoolBoundsConcurrency verifies that no more than maxWorkers blocking
// calls run at the same time, however many are submitted.
func TestPoolBoundsConcurrency(t *testing.T) {
	const maxWorkers = 2
	p := New(maxWorkers)

	var current, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Do(context.Background(), p, func() (struct{}, error) {
				n := atomic.AddInt32(&current, 1)
				for {
					old := atomic.LoadInt32(&peak)
					if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&current, -1)
				return struct{}{}, nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(maxWorkers))
}

// TestSubmitCancelledWhileQueued verifies that a unit waiting for a worker
// seat completes with the context error once the caller gives up.
func TestSubmitCancelledWhileQueued(t *testing.T) {
	p := New(1)

	started := make(chan struct{})
	release := make(chan struct{})
	occupying := Submit(context.Background(), p, func() (int, error) {
		close(started)
		<-release
		return 1, nil
	})
	<-started // 唯一的席位已被占用

	ctx, cancel := context.WithCancel(context.Background())
	queued := Submit(ctx, p, func() (int, error) { return 2, nil })

	cancel()
	_, err := queued.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	v, err := occupying.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
