package query

import (
	"context"
	"slices"

	"github.com/skmbw/stark/exec"
	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/index/rtree"
	"github.com/skmbw/stark/model"
)

// WithinDistance returns every record of c whose distance to q under dist
// is at most maxDist. Unlike Filter, no partitions are pruned: dist is
// opaque, so spatial partition bounds say nothing about which partitions
// can hold qualifying records. Every partition is scanned and the result
// is exact.
func WithinDistance[V any](ctx context.Context, c *exec.Collection[V], q geom.STObject, dist geom.DistanceFunc, maxDist float64, optFns ...Option) ([]model.Record[V], error) {
	o, err := buildOptions(optFns)
	if err != nil {
		return nil, err
	}

	order := o.treeOrder
	if order <= 0 {
		order = knnTreeOrder
	}

	o.logger.DebugContext(ctx, "within-distance scan",
		"max_dist", maxDist,
		"partitions", c.NumPartitions(),
	)

	parts, err := exec.MapPartitions(ctx, o.pool, c, func(_ int, recs []model.Record[V]) ([]model.Record[V], error) {
		idx, err := rtree.New[V](order)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			idx.Insert(r.Key, r.Value)
		}
		idx.Build()
		return idx.WithinDistance(q, dist, maxDist), nil
	})
	if err != nil {
		return nil, err
	}

	return slices.Concat(parts...), nil
}
