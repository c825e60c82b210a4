// Package rtree implements an STR bulk-loaded R-tree over record
// envelopes.
//
// The tree is built once from all inserted records (Sort-Tile-Recursive
// packing) and then serves coarse range queries. Nearest-neighbor and
// bounded-distance queries take an opaque distance function that is not
// assumed monotonic with envelopes, so they scan the record set exactly
// instead of descending the tree.
package rtree

import (
	"fmt"
	"math"
	"sort"

	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/model"
)

// ErrInvalidTreeOrder indicates a non-positive tree order.
type ErrInvalidTreeOrder struct {
	Order int
}

func (e *ErrInvalidTreeOrder) Error() string {
	return fmt.Sprintf("rtree: tree order must be positive, got %d", e.Order)
}

type entry[V any] struct {
	env geom.Envelope
	rec model.Record[V]
}

type node struct {
	env      geom.Envelope
	children []*node
	entries  []int // entry indices, leaf nodes only
}

// RTree is an ephemeral STR-packed R-tree. Not safe for concurrent use.
type RTree[V any] struct {
	order   int
	entries []entry[V]
	root    *node
	built   bool
}

// New creates an R-tree with the given fan-out. Orders below 2 are
// degenerate, so the effective fan-out is clamped to 2; a non-positive
// order is rejected.
func New[V any](order int) (*RTree[V], error) {
	if order <= 0 {
		return nil, &ErrInvalidTreeOrder{Order: order}
	}
	if order < 2 {
		order = 2
	}
	return &RTree[V]{order: order}, nil
}

// Insert adds a record. Must not be called after Build.
func (t *RTree[V]) Insert(key geom.STObject, value V) {
	if t.built {
		panic("rtree: Insert after Build")
	}
	t.entries = append(t.entries, entry[V]{env: key.Envelope(), rec: model.Record[V]{Key: key, Value: value}})
}

// Len returns the number of inserted records.
func (t *RTree[V]) Len() int { return len(t.entries) }

// Build packs the tree. Idempotent.
func (t *RTree[V]) Build() {
	if t.built {
		return
	}
	t.built = true
	if len(t.entries) == 0 {
		return
	}

	idx := make([]int, len(t.entries))
	for i := range idx {
		idx[i] = i
	}

	// STR: sort by center x, tile into vertical slabs, sort each slab by
	// center y, then cut leaves of `order` entries.
	sort.SliceStable(idx, func(a, b int) bool {
		ax, _ := t.entries[idx[a]].env.Center()
		bx, _ := t.entries[idx[b]].env.Center()
		return ax < bx
	})

	leafCount := (len(idx) + t.order - 1) / t.order
	slabCount := int(math.Ceil(math.Sqrt(float64(leafCount))))
	slabSize := slabCount * t.order

	var leaves []*node
	for s := 0; s < len(idx); s += slabSize {
		e := s + slabSize
		if e > len(idx) {
			e = len(idx)
		}
		slab := idx[s:e]
		sort.SliceStable(slab, func(a, b int) bool {
			_, ay := t.entries[slab[a]].env.Center()
			_, by := t.entries[slab[b]].env.Center()
			return ay < by
		})
		for ls := 0; ls < len(slab); ls += t.order {
			le := ls + t.order
			if le > len(slab) {
				le = len(slab)
			}
			leaf := &node{entries: append([]int(nil), slab[ls:le]...)}
			leaf.env = t.entries[leaf.entries[0]].env
			for _, ei := range leaf.entries[1:] {
				leaf.env = leaf.env.ExpandToInclude(t.entries[ei].env)
			}
			leaves = append(leaves, leaf)
		}
	}

	// Pack upward until a single root remains.
	level := leaves
	for len(level) > 1 {
		var next []*node
		for s := 0; s < len(level); s += t.order {
			e := s + t.order
			if e > len(level) {
				e = len(level)
			}
			n := &node{children: append([]*node(nil), level[s:e]...)}
			n.env = n.children[0].env
			for _, c := range n.children[1:] {
				n.env = n.env.ExpandToInclude(c.env)
			}
			next = append(next, n)
		}
		level = next
	}
	t.root = level[0]
}

// Query returns the records whose envelope intersects the envelope of q,
// a superset of the exact matches for any of the fixed predicates.
func (t *RTree[V]) Query(q geom.STObject) []model.Record[V] {
	t.ensureBuilt()
	if t.root == nil {
		return nil
	}

	env := q.Envelope()
	var hits []int
	t.search(t.root, env, &hits)

	// Report candidates in insertion order.
	sort.Ints(hits)
	out := make([]model.Record[V], 0, len(hits))
	for _, i := range hits {
		out = append(out, t.entries[i].rec)
	}
	return out
}

func (t *RTree[V]) search(n *node, env geom.Envelope, hits *[]int) {
	if !n.env.Intersects(env) {
		return
	}
	if n.children == nil {
		for _, ei := range n.entries {
			if t.entries[ei].env.Intersects(env) {
				*hits = append(*hits, ei)
			}
		}
		return
	}
	for _, c := range n.children {
		t.search(c, env, hits)
	}
}

// KNN returns up to k nearest records to q under dist, ascending by
// distance with ties broken by insertion order. dist is opaque, so every
// record is scored.
func (t *RTree[V]) KNN(q geom.STObject, k int, dist geom.DistanceFunc) []model.Neighbor[V] {
	t.ensureBuilt()
	if k <= 0 || len(t.entries) == 0 {
		return nil
	}

	neighbors := make([]model.Neighbor[V], 0, len(t.entries))
	for _, e := range t.entries {
		neighbors = append(neighbors, model.Neighbor[V]{Record: e.rec, Distance: dist(e.rec.Key, q)})
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
// maxDist, in insertion order.
func (t *RTree[V]) WithinDistance(q geom.STObject, dist geom.DistanceFunc, maxDist float64) []model.Record[V] {
	t.ensureBuilt()

	var out []model.Record[V]
	for _, e := range t.entries {
		if dist(e.rec.Key, q) <= maxDist {
			out = append(out, e.rec)
		}
	}
	return out
}

func (t *RTree[V]) ensureBuilt() {
	if !t.built {
		t.Build()
	}
}

// Depth returns the height of the packed tree. Exposed for tests.
func (t *RTree[V]) Depth() int {
	t.ensureBuilt()
	d := 0
	for n := t.root; n != nil; {
		d++
		if len(n.children) == 0 {
			break
		}
		n = n.children[0]
	}
	return d
}
