package query

import (
	"context"

	"github.com/skmbw/stark/exec"
	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/index/rtree"
	"github.com/skmbw/stark/model"
)

// knnTreeOrder is the fan-out of the ephemeral per-partition index built
// during phase 1 when the caller did not configure one.
const knnTreeOrder = 16

// KNN returns the k records of c nearest to q under dist, ascending by
// distance with a deterministic tie-break (partition order, then arrival
// order).
//
// Execution is an explicit two-phase pipeline. Phase 1 runs one task per
// participating partition: build an ephemeral spatial index over the
// partition's records and take its local top k under dist. Phase 2 starts
// only after every phase-1 task has finished (a synchronization barrier),
// collects the at most k * partitions candidates, recomputes their true
// distance to q and keeps the global top k.
//
// Partitions participate if their bounds intersect q's envelope, or
// unconditionally without spatial partitioner metadata. That
// participation test is a heuristic: a true neighbor in a partition whose
// envelope misses q's envelope, yet closer than the kth candidate found,
// is missed. The result is exact when all partitions participate (no
// partitioner, or a sufficient WithKNNMargin); otherwise it is an
// approximation. This limitation is deliberate and documented rather than
// silently papered over.
func KNN[V any](ctx context.Context, c *exec.Collection[V], q geom.STObject, k int, dist geom.DistanceFunc, optFns ...Option) ([]model.Neighbor[V], error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	o, err := buildOptions(optFns)
	if err != nil {
		return nil, err
	}

	order := o.treeOrder
	if order <= 0 {
		order = knnTreeOrder
	}

	cells := pruneForKNN(c.NumPartitions(), q, c.Partitioner(), o.knnMargin)
	o.logger.DebugContext(ctx, "knn phase 1",
		"k", k,
		"participating", len(cells),
		"total", c.NumPartitions(),
	)

	selected := make([]int, len(cells))
	for i, cell := range cells {
		selected[i] = cell.OriginalID
	}

	// Phase 1: local top k per partition. MapSelected returns only after
	// every task has completed, which is the barrier phase 2 needs.
	parts, err := exec.MapSelected(ctx, o.pool, c, selected, func(_, _ int, recs []model.Record[V]) ([]model.Neighbor[V], error) {
		idx, err := rtree.New[V](order)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			idx.Insert(r.Key, r.Value)
		}
		idx.Build()
		return idx.KNN(q, k, dist), nil
	})
	if err != nil {
		return nil, err
	}

	// Phase 2: centralized merge. Candidates arrive in partition order
	// with ascending local distance, so the stable top-k keeps ties
	// deterministic. Distances are recomputed against q rather than
	// trusted from phase 1.
	var candidates []model.Neighbor[V]
	for _, part := range parts {
		for _, n := range part {
			n.Distance = dist(n.Record.Key, q)
			candidates = append(candidates, n)
		}
	}
	o.logger.DebugContext(ctx, "knn merge", "candidates", len(candidates))

	return exec.TakeOrdered(candidates, k, func(a, b model.Neighbor[V]) bool {
		return a.Distance < b.Distance
	}), nil
}
