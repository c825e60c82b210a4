package exec

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("exec: pool closed")

// Pool manages a fixed set of goroutines for partition tasks. A fixed pool
// keeps the goroutine count constant under query load instead of spawning
// one goroutine per partition per query.
type Pool struct {
	numWorkers int
	workCh     chan func()
	stopCh     chan struct{}
	wg         sync.WaitGroup
	closed     atomic.Bool
	submitMu   sync.RWMutex
	limiter    *rate.Limiter
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithRateLimit bounds the rate at which tasks are dispatched. Hosting
// engines that re-execute or speculatively duplicate tasks can use this to
// bound re-dispatch pressure. Zero or negative limits disable throttling.
func WithRateLimit(r rate.Limit, burst int) PoolOption {
	return func(p *Pool) {
		if r <= 0 {
			p.limiter = nil
			return
		}
		p.limiter = rate.NewLimiter(r, burst)
	}
}

// NewPool creates a pool with numWorkers goroutines. Non-positive sizes
// default to GOMAXPROCS.
func NewPool(numWorkers int, optFns ...PoolOption) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workCh:     make(chan func(), numWorkers*2),
		stopCh:     make(chan struct{}),
	}

	for _, fn := range optFns {
		if fn != nil {
			fn(p)
		}
	}

	p.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			// Drain remaining work before exiting.
			for {
				select {
				case task, ok := <-p.workCh:
					if !ok {
						return
					}
					task()
				default:
					return
				}
			}
		case task, ok := <-p.workCh:
			if !ok {
				return
			}
			task()
		}
	}
}

// Submit enqueues a task and returns once it is accepted. It fails if the
// pool is closed or the context ends before the task is accepted.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.closed.Load() {
		return ErrPoolClosed
	}

	select {
	case p.workCh <- task:
		return nil
	case <-p.stopCh:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts down the pool, waiting for in-flight tasks. Idempotent.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}

	p.submitMu.Lock()
	close(p.stopCh)
	close(p.workCh)
	p.submitMu.Unlock()

	p.wg.Wait()
}
