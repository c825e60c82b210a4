package exec

import (
	"context"
	"fmt"

	"github.com/skmbw/stark/model"
)

// MapPartitions runs fn once per partition in parallel and returns the
// per-partition results indexed by partition id. It blocks until every
// task has completed (a full barrier) and aggregates task errors.
//
// A nil pool runs on a transient pool sized to the machine.
func MapPartitions[V, R any](ctx context.Context, pool *Pool, c *Collection[V], fn func(pid int, recs []model.Record[V]) ([]R, error)) ([][]R, error) {
	selected := make([]int, c.NumPartitions())
	for i := range selected {
		selected[i] = i
	}
	return MapSelected(ctx, pool, c, selected, func(_ int, pid int, recs []model.Record[V]) ([]R, error) {
		return fn(pid, recs)
	})
}

// MapSelected runs fn once per selected original partition, in parallel.
// taskID is the dense index of the partition within selected; pid is the
// original partition id whose records are passed. Results are indexed by
// taskID. Like MapPartitions it is a barrier: no result is visible until
// every task has finished.
func MapSelected[V, R any](ctx context.Context, pool *Pool, c *Collection[V], selected []int, fn func(taskID, pid int, recs []model.Record[V]) ([]R, error)) ([][]R, error) {
	if len(selected) == 0 {
		return nil, nil
	}

	if pool == nil {
		pool = NewPool(0)
		defer pool.Close()
	}

	type taskResult struct {
		taskID int
		out    []R
		err    error
	}
	resultsCh := make(chan taskResult, len(selected))

	for i, pid := range selected {
		taskID, pid := i, pid
		recs := c.Partition(pid)
		err := pool.Submit(ctx, func() {
			out, err := fn(taskID, pid, recs)
			select {
			case resultsCh <- taskResult{taskID: taskID, out: out, err: err}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return nil, fmt.Errorf("exec: submit partition %d: %w", pid, err)
		}
	}

	results := make([][]R, len(selected))
	var errs []error
	for i := 0; i < len(selected); i++ {
		select {
		case res := <-resultsCh:
			if res.err != nil {
				errs = append(errs, fmt.Errorf("partition %d: %w", selected[res.taskID], res.err))
			} else {
				results[res.taskID] = res.out
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("exec: cancelled: %w", ctx.Err())
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("exec: %d/%d partition tasks failed: %v", len(errs), len(selected), errs)
	}
	return results, nil
}
