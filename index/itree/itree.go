// Package itree implements an ephemeral temporal index over record
// intervals, backed by a B-tree ordered by interval start.
//
// A start-ordered tree alone cannot answer interval overlap queries: an
// early-starting record may still reach into the query range. The tree
// therefore tracks the longest inserted interval and begins each range
// scan that far before the query start, which is sound and keeps lookups
// near-logarithmic when interval lengths are bounded.
package itree

import (
	"sort"

	"github.com/google/btree"

	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/model"
)

// degree is the B-tree branching factor. The temporal index carries no
// caller-facing order parameter.
const degree = 16

type item[V any] struct {
	start int64
	seq   int
	end   int64
	rec   model.Record[V]
}

// Tree is an ephemeral temporal index. Not safe for concurrent use.
type Tree[V any] struct {
	tr     *btree.BTreeG[item[V]]
	maxLen int64
	seq    int

	// Records without a temporal component cannot be placed in the tree;
	// they are coarse matches for every query.
	timeless []model.Record[V]
}

// New creates an empty temporal index.
func New[V any]() *Tree[V] {
	less := func(a, b item[V]) bool {
		if a.start != b.start {
			return a.start < b.start
		}
		return a.seq < b.seq
	}
	return &Tree[V]{tr: btree.NewG(degree, less)}
}

// Insert adds a record.
func (t *Tree[V]) Insert(key geom.STObject, value V) {
	rec := model.Record[V]{Key: key, Value: value}
	iv, ok := key.Interval()
	if !ok {
		t.timeless = append(t.timeless, rec)
		return
	}
	t.tr.ReplaceOrInsert(item[V]{start: iv.Start, seq: t.seq, end: iv.End, rec: rec})
	t.seq++
	if l := iv.Length(); l > t.maxLen {
		t.maxLen = l
	}
}

// Len returns the number of inserted records.
func (t *Tree[V]) Len() int { return t.tr.Len() + len(t.timeless) }

// Build finalizes the index. The B-tree is incremental, so this is a
// no-op kept for the ephemeral index contract.
func (t *Tree[V]) Build() {}

// Query returns the records whose interval intersects the interval of q,
// plus all records without a temporal component. If q itself has no
// interval, every record is a coarse match.
func (t *Tree[V]) Query(q geom.STObject) []model.Record[V] {
	qiv, ok := q.Interval()
	if !ok {
		return t.all()
	}

	var out []model.Record[V]
	pivot := item[V]{start: qiv.Start - t.maxLen, seq: -1}
	t.tr.AscendGreaterOrEqual(pivot, func(it item[V]) bool {
		if it.start > qiv.End {
			return false
		}
		if it.end >= qiv.Start {
			out = append(out, it.rec)
		}
		return true
	})
	out = append(out, t.timeless...)
	return out
}

// KNN returns up to k nearest records to q under dist, ascending by
// distance with ties broken by interval start order.
func (t *Tree[V]) KNN(q geom.STObject, k int, dist geom.DistanceFunc) []model.Neighbor[V] {
	if k <= 0 {
		return nil
	}
	recs := t.all()
	neighbors := make([]model.Neighbor[V], 0, len(recs))
	for _, r := range recs {
		neighbors = append(neighbors, model.Neighbor[V]{Record: r, Distance: dist(r.Key, q)})
	}
	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].Distance < neighbors[b].Distance
	})
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// WithinDistance returns exactly the records r with dist(r.Key, q) <=
// maxDist, in interval start order.
func (t *Tree[V]) WithinDistance(q geom.STObject, dist geom.DistanceFunc, maxDist float64) []model.Record[V] {
	var out []model.Record[V]
	for _, r := range t.all() {
		if dist(r.Key, q) <= maxDist {
			out = append(out, r)
		}
	}
	return out
}

func (t *Tree[V]) all() []model.Record[V] {
	out := make([]model.Record[V], 0, t.Len())
	t.tr.Ascend(func(it item[V]) bool {
		out = append(out, it.rec)
		return true
	})
	out = append(out, t.timeless...)
	return out
}
