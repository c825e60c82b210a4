package stark

import (
	"log/slog"

	"github.com/skmbw/stark/exec"
	"github.com/skmbw/stark/index"
	"github.com/skmbw/stark/partition"
	"github.com/skmbw/stark/query"
)

type config struct {
	partitioner partition.Partitioner
	indexKind   index.Kind
	treeOrder   int
	pool        *exec.Pool
	logger      *slog.Logger
	knnMargin   float64
}

// Option configures a Dataset.
type Option func(*config)

// WithPartitioner lays the dataset out under p. Spatial and temporal
// partitioners additionally enable partition pruning for queries.
func WithPartitioner(p partition.Partitioner) Option {
	return func(c *config) { c.partitioner = p }
}

// WithIndexKind selects the ephemeral per-partition index used by Filter
// and Join. The default is index.KindNone, a streaming pass.
func WithIndexKind(k index.Kind) Option {
	return func(c *config) { c.indexKind = k }
}

// WithTreeOrder sets the R-tree fan-out for spatial ephemeral indexes.
// Required with index.KindSpatial.
func WithTreeOrder(order int) Option {
	return func(c *config) { c.treeOrder = order }
}

// WithPool runs all query tasks of the dataset on the given pool. The
// caller keeps ownership and closes it. Without a pool each operation
// spins up a transient one.
func WithPool(p *exec.Pool) Option {
	return func(c *config) { c.pool = p }
}

// WithLogger enables structured logging of query execution.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithKNNMargin widens the envelope used to pick kNN participant
// partitions; see query.WithKNNMargin.
func WithKNNMargin(margin float64) Option {
	return func(c *config) { c.knnMargin = margin }
}

// queryOptions translates the dataset configuration into per-operation
// query options.
func (c *config) queryOptions() []query.Option {
	opts := []query.Option{
		query.WithIndexKind(c.indexKind),
		query.WithTreeOrder(c.treeOrder),
	}
	if c.pool != nil {
		opts = append(opts, query.WithPool(c.pool))
	}
	if c.logger != nil {
		opts = append(opts, query.WithLogger(c.logger))
	}
	if c.knnMargin > 0 {
		opts = append(opts, query.WithKNNMargin(c.knnMargin))
	}
	return opts
}
