package query

import (
	"context"
	"fmt"
	"slices"

	"github.com/skmbw/stark/exec"
	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/index"
	"github.com/skmbw/stark/model"
	"github.com/skmbw/stark/partition"
)

// Join pairs every left record with every right record satisfying
// pred(left.Key, right.Key).
//
// With a non-nil partitioner both sides are repartitioned by it and
// candidate pairs are generated per partition, so only co-resident
// records are ever compared. Correctness therefore depends on the
// partitioner placing every matching pair in the same partition; the
// single-assignment partitioners in package partition do not guarantee
// that for records straddling cell boundaries, and pairs they separate
// are silently missed. Callers needing exact results across arbitrary
// data pass a partitioner that co-locates all candidates, or nil.
//
// With a nil partitioner the join degrades to the exhaustive cross
// product, exact but quadratic.
func Join[L, R any](ctx context.Context, left *exec.Collection[L], right *exec.Collection[R], pred geom.Predicate, p partition.Partitioner, optFns ...Option) ([]model.Pair[L, R], error) {
	if !pred.Valid() {
		return nil, fmt.Errorf("query: invalid predicate %v", pred)
	}
	if p == nil {
		return JoinFunc(ctx, left, right, pred.Func(), optFns...)
	}
	o, err := buildOptions(optFns)
	if err != nil {
		return nil, err
	}

	left = left.PartitionBy(p)
	right = right.PartitionBy(p)
	fn := pred.Func()

	o.logger.DebugContext(ctx, "partitioned join",
		"predicate", pred.String(),
		"partitions", p.NumPartitions(),
		"left", left.Count(),
		"right", right.Count(),
	)

	parts, err := exec.MapPartitions(ctx, o.pool, left, func(pid int, lrecs []model.Record[L]) ([]model.Pair[L, R], error) {
		return joinPartition(lrecs, right.Partition(pid), fn, o.indexKind, o.treeOrder)
	})
	if err != nil {
		return nil, err
	}

	return slices.Concat(parts...), nil
}

// JoinFunc pairs every left record with every right record satisfying
// fn(left.Key, right.Key). The predicate is opaque, so no partition
// co-residence can be assumed: the full cross product is evaluated. The
// result is exact and the cost is len(left) * len(right) predicate calls,
// spread over one task per left partition.
func JoinFunc[L, R any](ctx context.Context, left *exec.Collection[L], right *exec.Collection[R], fn geom.PredicateFunc, optFns ...Option) ([]model.Pair[L, R], error) {
	o, err := buildOptions(optFns)
	if err != nil {
		return nil, err
	}

	rrecs := right.Records()

	o.logger.DebugContext(ctx, "cross join",
		"left", left.Count(),
		"right", len(rrecs),
	)

	parts, err := exec.MapPartitions(ctx, o.pool, left, func(_ int, lrecs []model.Record[L]) ([]model.Pair[L, R], error) {
		var out []model.Pair[L, R]
		for _, l := range lrecs {
			for _, r := range rrecs {
				if fn(l.Key, r.Key) {
					out = append(out, model.Pair[L, R]{Left: l, Right: r})
				}
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return slices.Concat(parts...), nil
}

// joinPartition matches one co-resident partition pair. With an index
// kind configured the right side is indexed once and each left key probes
// it for candidates; the exact predicate is re-applied either way, so the
// index only narrows the comparisons.
func joinPartition[L, R any](lrecs []model.Record[L], rrecs []model.Record[R], fn geom.PredicateFunc, kind index.Kind, treeOrder int) ([]model.Pair[L, R], error) {
	var out []model.Pair[L, R]

	if kind == index.KindNone || len(rrecs) == 0 {
		for _, l := range lrecs {
			for _, r := range rrecs {
				if fn(l.Key, r.Key) {
					out = append(out, model.Pair[L, R]{Left: l, Right: r})
				}
			}
		}
		return out, nil
	}

	idx, err := index.New[int](kind, treeOrder)
	if err != nil {
		return nil, err
	}
	for i, r := range rrecs {
		idx.Insert(r.Key, i)
	}
	idx.Build()

	for _, l := range lrecs {
		candidates := idx.Query(l.Key)
		positions := make([]int, len(candidates))
		for i, cand := range candidates {
			positions[i] = cand.Value
		}
		slices.Sort(positions)
		for _, i := range positions {
			if fn(l.Key, rrecs[i].Key) {
				out = append(out, model.Pair[L, R]{Left: l, Right: rrecs[i]})
			}
		}
	}
	return out, nil
}
