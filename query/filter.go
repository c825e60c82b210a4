package query

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/skmbw/stark/exec"
	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/index"
	"github.com/skmbw/stark/model"
)

// Filter returns the records r of c for which pred(r.Key, q) holds, in
// partition-then-arrival order. Partitions whose bounds exclude a match
// are pruned; the surviving partitions are filtered exactly in parallel.
//
// The result is identical for every index kind; WithIndexKind changes
// only how each partition is searched, never the answer.
func Filter[V any](ctx context.Context, c *exec.Collection[V], q geom.STObject, pred geom.Predicate, optFns ...Option) ([]model.Record[V], error) {
	o, err := buildOptions(optFns)
	if err != nil {
		return nil, err
	}
	if !pred.Valid() {
		return nil, fmt.Errorf("query: invalid predicate %v", pred)
	}

	cells := PrunePartitions(c.NumPartitions(), q, pred, c.Partitioner())
	o.logger.DebugContext(ctx, "filter pruned",
		"predicate", pred.String(),
		"surviving", len(cells),
		"total", c.NumPartitions(),
	)

	selected := make([]int, len(cells))
	for i, cell := range cells {
		selected[i] = cell.OriginalID
	}

	parts, err := exec.MapSelected(ctx, o.pool, c, selected, func(_, _ int, recs []model.Record[V]) ([]model.Record[V], error) {
		return filterPartition(recs, q, pred.Func(), o.indexKind, o.treeOrder)
	})
	if err != nil {
		return nil, err
	}
	return slices.Concat(parts...), nil
}

// FilterFunc filters with an arbitrary caller-supplied predicate. No
// pruning rule or coarse index query is sound for an opaque predicate, so
// every partition is scanned in a streaming pass.
func FilterFunc[V any](ctx context.Context, c *exec.Collection[V], q geom.STObject, fn geom.PredicateFunc, optFns ...Option) ([]model.Record[V], error) {
	o, err := buildOptions(optFns)
	if err != nil {
		return nil, err
	}

	parts, err := exec.MapPartitions(ctx, o.pool, c, func(_ int, recs []model.Record[V]) ([]model.Record[V], error) {
		return filterPartition(recs, q, fn, index.KindNone, 0)
	})
	if err != nil {
		return nil, err
	}
	return slices.Concat(parts...), nil
}

// filterPartition is the per-partition filter executor. With
// index.KindNone it streams over the records once. Otherwise it builds an
// ephemeral index over the partition, runs a coarse query for a candidate
// superset, and re-applies the exact predicate in arrival order. The
// index lives only for the duration of this call.
func filterPartition[V any](recs []model.Record[V], q geom.STObject, fn geom.PredicateFunc, kind index.Kind, treeOrder int) ([]model.Record[V], error) {
	if kind == index.KindNone {
		var out []model.Record[V]
		for _, r := range recs {
			if fn(r.Key, q) {
				out = append(out, r)
			}
		}
		return out, nil
	}

	idx, err := index.New[int](kind, treeOrder)
	if err != nil {
		return nil, err
	}
	for i, r := range recs {
		idx.Insert(r.Key, i)
	}
	idx.Build()

	candidates := idx.Query(q)
	positions := make([]int, 0, len(candidates))
	for _, cand := range candidates {
		positions = append(positions, cand.Value)
	}
	sort.Ints(positions)

	var out []model.Record[V]
	for _, i := range positions {
		if r := recs[i]; fn(r.Key, q) {
			out = append(out, r)
		}
	}
	return out, nil
}
