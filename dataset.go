package stark

import (
	"context"

	"github.com/skmbw/stark/blobstore"
	"github.com/skmbw/stark/exec"
	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/model"
	"github.com/skmbw/stark/query"
)

// Dataset bundles a partitioned record collection with the query
// configuration it is searched under. It is immutable and safe for
// concurrent use.
type Dataset[V any] struct {
	coll *exec.Collection[V]
	cfg  config
}

// NewDataset materializes records as a dataset with numPartitions
// partitions. With WithPartitioner the records are laid out under that
// partitioner instead, enabling partition pruning.
func NewDataset[V any](records []model.Record[V], numPartitions int, optFns ...Option) *Dataset[V] {
	var cfg config
	for _, fn := range optFns {
		if fn != nil {
			fn(&cfg)
		}
	}

	coll := exec.Parallelize(records, numPartitions)
	if cfg.partitioner != nil {
		coll = coll.PartitionBy(cfg.partitioner)
	}
	return &Dataset[V]{coll: coll, cfg: cfg}
}

// fromCollection wraps an existing collection under the given options.
func fromCollection[V any](coll *exec.Collection[V], optFns []Option) *Dataset[V] {
	var cfg config
	for _, fn := range optFns {
		if fn != nil {
			fn(&cfg)
		}
	}
	if cfg.partitioner != nil {
		coll = coll.PartitionBy(cfg.partitioner)
	}
	return &Dataset[V]{coll: coll, cfg: cfg}
}

// Collection returns the underlying partitioned collection.
func (d *Dataset[V]) Collection() *exec.Collection[V] { return d.coll }

// Count returns the number of records.
func (d *Dataset[V]) Count() int { return d.coll.Count() }

// NumPartitions returns the number of partitions.
func (d *Dataset[V]) NumPartitions() int { return d.coll.NumPartitions() }

// Filter returns the records related to q by the given predicate kind.
func (d *Dataset[V]) Filter(ctx context.Context, q geom.STObject, pred geom.Predicate) ([]model.Record[V], error) {
	return query.Filter(ctx, d.coll, q, pred, d.cfg.queryOptions()...)
}

// FilterFunc filters with an arbitrary predicate over every partition.
func (d *Dataset[V]) FilterFunc(ctx context.Context, q geom.STObject, fn geom.PredicateFunc) ([]model.Record[V], error) {
	return query.FilterFunc(ctx, d.coll, q, fn, d.cfg.queryOptions()...)
}

// KNN returns the k records nearest to q under dist.
func (d *Dataset[V]) KNN(ctx context.Context, q geom.STObject, k int, dist geom.DistanceFunc) ([]model.Neighbor[V], error) {
	return query.KNN(ctx, d.coll, q, k, dist, d.cfg.queryOptions()...)
}

// WithinDistance returns every record within maxDist of q under dist.
func (d *Dataset[V]) WithinDistance(ctx context.Context, q geom.STObject, dist geom.DistanceFunc, maxDist float64) ([]model.Record[V], error) {
	return query.WithinDistance(ctx, d.coll, q, dist, maxDist, d.cfg.queryOptions()...)
}

// Cluster groups records by spatial proximity. It currently fails with
// query.ErrNotImplemented.
func (d *Dataset[V]) Cluster(ctx context.Context) ([][]model.Record[V], error) {
	return query.Cluster(ctx, d.coll, d.cfg.queryOptions()...)
}

// Skyline returns the spatio-temporally non-dominated records. It
// currently fails with query.ErrNotImplemented.
func (d *Dataset[V]) Skyline(ctx context.Context) ([]model.Record[V], error) {
	return query.Skyline(ctx, d.coll, d.cfg.queryOptions()...)
}

// Save persists the dataset under name in store.
func (d *Dataset[V]) Save(ctx context.Context, store blobstore.BlobStore, name string, optFns ...exec.SnapshotOption) error {
	return exec.SaveSnapshot(ctx, store, name, d.coll, optFns...)
}

// Load restores a dataset saved under name in store. The partition layout
// is restored as saved; pass WithPartitioner to re-partition on load.
func Load[V any](ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Dataset[V], error) {
	coll, err := exec.LoadSnapshot[V](ctx, store, name)
	if err != nil {
		return nil, err
	}
	return fromCollection(coll, optFns), nil
}

// Join pairs the records of two datasets under the given predicate kind.
// The left dataset's configuration (index kind, pool, logger) drives
// execution; its partitioner, if any, provides join co-residence.
func Join[L, R any](ctx context.Context, left *Dataset[L], right *Dataset[R], pred geom.Predicate) ([]model.Pair[L, R], error) {
	return query.Join(ctx, left.coll, right.coll, pred, left.cfg.partitioner, left.cfg.queryOptions()...)
}

// JoinFunc pairs the records of two datasets under an arbitrary
// predicate, evaluating the full cross product.
func JoinFunc[L, R any](ctx context.Context, left *Dataset[L], right *Dataset[R], fn geom.PredicateFunc) ([]model.Pair[L, R], error) {
	return query.JoinFunc(ctx, left.coll, right.coll, fn, left.cfg.queryOptions()...)
}
