package flight

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

// TestDoExecutesOncePerKey verifies that concurrent consumers of the same key
// trigger a single underlying fetch and all observe the same value.
func TestDoExecutesOncePerKey(t *testing.T) {
	var g Group[string, int]
	var calls int32

	const consumers = 50
	results := make([]int, consumers)
	var wg sync.WaitGroup
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := g.Do(context.Background(), "p1", func(ctx context.Context) (int, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(10 * time.Millisecond)
				return 42, nil
			})
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, g.Keys())
}

// TestDoReplaysToLateConsumers verifies the replay semantics: a consumer that
// joins after the call completed still gets the full result without a refetch.
func TestDoReplaysToLateConsumers(t *testing.T) {
	var g Group[string, string]
	var calls int32
	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "stock-record", nil
	}

	first, err := g.Do(context.Background(), "p1", fetch)
	require.NoError(t, err)

	late, err := g.Do(context.Background(), "p1", fetch)
	require.NoError(t, err)

	assert.Equal(t, first, late)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// TestDoSharesFailure verifies that all consumers of a failed key observe the
// same error and no retry happens at this layer.
func TestDoSharesFailure(t *testing.T) {
	var g Group[string, int]
	var calls int32
	boom := errors.New("upstream exploded")
	fetch := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, boom
	}

	_, err1 := g.Do(context.Background(), "p1", fetch)
	_, err2 := g.Do(context.Background(), "p1", fetch)

	assert.ErrorIs(t, err1, boom)
	assert.ErrorIs(t, err2, boom)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

// TestWaiterHonorsContextCancel verifies that a waiting consumer unblocks when
// its own context is cancelled while the fetch is still in flight.
func TestWaiterHonorsContextCancel(t *testing.T) {
	var g Group[string, int]
	release := make(chan struct{})

	go func() {
		_, _ = g.Do(context.Background(), "p1", func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})
	}()

	// 等到执行方注册完 key 再发起等待方
	require.Eventually(t, func() bool { return g.Keys() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := g.Do(ctx, "p1", func(ctx context.Context) (int, error) { return 0, nil })
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("waiter did not unblock on context cancel")
	}
	close(release)
}
