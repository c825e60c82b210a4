// Package index defines the ephemeral index contract used to accelerate
// per-partition query execution, plus a factory over the built-in spatial
// and temporal implementations.
//
// An ephemeral index lives inside a single partition task: it is created,
// populated, built, queried and discarded without ever being shared or
// reused. Implementations therefore do not need to be safe for concurrent
// use.
package index

import (
	"fmt"

	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/index/itree"
	"github.com/skmbw/stark/index/rtree"
	"github.com/skmbw/stark/model"
)

// Kind selects the ephemeral index used during query execution.
type Kind int

const (
	// KindNone disables index acceleration; predicates are evaluated in a
	// single streaming pass.
	KindNone Kind = iota

	// KindSpatial builds an R-tree over record envelopes. Requires a
	// positive tree order.
	KindSpatial

	// KindTemporal builds an interval index over record intervals.
	KindTemporal
)

// String returns a string representation of the index kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindSpatial:
		return "Spatial"
	case KindTemporal:
		return "Temporal"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ErrInvalidTreeOrder indicates a spatial index was requested with a
// non-positive tree order. This is a construction-time precondition
// violation, not a runtime fault.
type ErrInvalidTreeOrder = rtree.ErrInvalidTreeOrder

// Index is an ephemeral spatio-temporal index over records.
//
// Usage is strictly phased: Insert everything, Build once, then query.
// Query results are a superset of the true matches; callers re-apply the
// exact predicate.
type Index[V any] interface {
	// Insert adds a record to the index. Must not be called after Build.
	Insert(key geom.STObject, value V)

	// Build finalizes the index for querying.
	Build()

	// Query returns a superset of the records matching q coarsely (by
	// envelope or interval overlap).
	Query(q geom.STObject) []model.Record[V]

	// KNN returns up to k nearest records to q under dist, ascending by
	// distance with ties broken by insertion order.
	KNN(q geom.STObject, k int, dist geom.DistanceFunc) []model.Neighbor[V]

	// WithinDistance returns exactly the records r with
	// dist(r.Key, q) <= maxDist, in insertion order. Unlike Query this is
	// exact under the supplied distance function.
	WithinDistance(q geom.STObject, dist geom.DistanceFunc, maxDist float64) []model.Record[V]
}

// New creates an ephemeral index of the given kind. treeOrder is the
// R-tree fan-out and only meaningful for KindSpatial; KindSpatial with a
// non-positive order fails with ErrInvalidTreeOrder.
func New[V any](kind Kind, treeOrder int) (Index[V], error) {
	switch kind {
	case KindSpatial:
		return rtree.New[V](treeOrder)
	case KindTemporal:
		return itree.New[V](), nil
	default:
		return nil, fmt.Errorf("index: no index for kind %v", kind)
	}
}
