package exec

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestPoolRunsTasks(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(4)
	defer pool.Close()

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			count.Add(1)
		})
		require.NoError(t, err)
	}
	wg.Wait()
	assert.Equal(t, int64(100), count.Load())
}

func TestPoolSubmitAfterClose(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	pool.Close() // idempotent

	err := pool.Submit(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPoolSubmitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool(1)
	defer pool.Close()

	// Block the single worker and fill the queue so Submit must wait.
	release := make(chan struct{})
	_ = pool.Submit(context.Background(), func() { <-release })
	for i := 0; i < cap(pool.workCh); i++ {
		_ = pool.Submit(context.Background(), func() {})
	}

	err := pool.Submit(ctx, func() {})
	assert.ErrorIs(t, err, context.Canceled)
	close(release)
}

func TestPoolRateLimit(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(2, WithRateLimit(rate.Every(10*time.Millisecond), 1))
	defer pool.Close()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(ctx, func() { wg.Done() }))
	}
	wg.Wait()

	// Burst of 1 plus three waits of ~10ms each.
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}
