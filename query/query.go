// Package query implements the partition-pruned query execution core:
// pruning, exact per-partition filtering with optional ephemeral index
// acceleration, two-phase k-nearest-neighbor search, bounded-distance
// scans, and join strategies.
//
// Every operation follows the same shape: prune the partition set where a
// sound rule exists, run one independent task per surviving partition, and
// merge the partial results. Task bodies are idempotent and build any
// index they need from scratch, so a hosting scheduler may retry or
// duplicate them freely.
package query

import (
	"errors"
	"io"
	"log/slog"

	"github.com/skmbw/stark/exec"
	"github.com/skmbw/stark/index"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("query: k must be positive")

	// ErrNotImplemented marks operations the core intentionally does not
	// implement. Callers get this error, never a silently empty result.
	ErrNotImplemented = errors.New("query: not implemented")
)

type options struct {
	indexKind index.Kind
	treeOrder int
	pool      *exec.Pool
	logger    *slog.Logger
	knnMargin float64
}

// Option configures a query operation.
type Option func(*options)

// WithIndexKind selects the ephemeral per-partition index used during
// filtering and joins. The default is index.KindNone (streaming pass).
// index.KindSpatial additionally requires WithTreeOrder.
func WithIndexKind(k index.Kind) Option {
	return func(o *options) { o.indexKind = k }
}

// WithTreeOrder sets the R-tree fan-out for spatial ephemeral indexes.
func WithTreeOrder(order int) Option {
	return func(o *options) { o.treeOrder = order }
}

// WithPool runs partition tasks on the given pool instead of a transient
// per-operation pool.
func WithPool(p *exec.Pool) Option {
	return func(o *options) { o.pool = p }
}

// WithLogger enables structured debug logging of pruning and merge
// decisions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithKNNMargin widens the query envelope used to pick kNN participant
// partitions by the given margin. Envelope-intersection pruning for kNN is
// a heuristic: with a zero margin (the default) a true neighbor just
// outside a non-intersecting partition can be missed. A margin no smaller
// than the spatial reach of the distance function restores exactness.
func WithKNNMargin(margin float64) Option {
	return func(o *options) { o.knnMargin = margin }
}

func buildOptions(optFns []Option) (options, error) {
	o := options{indexKind: index.KindNone}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.indexKind == index.KindSpatial && o.treeOrder <= 0 {
		return options{}, &index.ErrInvalidTreeOrder{Order: o.treeOrder}
	}
	return o, nil
}
