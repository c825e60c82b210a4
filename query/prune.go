package query

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/partition"
)

// Cell is a partition that survived pruning. ID is its dense new id in
// [0, len(cells)); OriginalID refers back to the partition it was pruned
// from, so the correct shard can still be read.
type Cell struct {
	ID         int
	OriginalID int
}

// PrunePartitions returns the partitions of a collection with
// numPartitions shards that cannot be excluded for the given query object
// and predicate kind, renumbered densely in ascending original-id order.
//
// Pruning is sound, not exact: a surviving partition may still hold no
// match (the exact predicate runs later), but no partition that could hold
// a match is removed. Without partitioner metadata every partition
// survives.
func PrunePartitions(numPartitions int, q geom.STObject, pred geom.Predicate, p partition.Partitioner) []Cell {
	switch pt := p.(type) {
	case partition.SpatialPartitioner:
		// Envelope intersection is necessary for all fixed predicate
		// kinds; exactness is restored by the per-partition filter.
		return pruneSpatial(q.Envelope(), pt)

	case partition.TemporalPartitioner:
		return pruneTemporal(q, pred, pt)

	default:
		// No partitioner metadata, or a partitioner without bounds:
		// conservative fallback, zero pruning.
		return allCells(numPartitions)
	}
}

func pruneSpatial(env geom.Envelope, pt partition.SpatialPartitioner) []Cell {
	survivors := roaring.New()
	for id := 0; id < pt.NumPartitions(); id++ {
		if pt.CellEnvelope(id).Intersects(env) {
			survivors.Add(uint32(id))
		}
	}
	return renumber(survivors)
}

func pruneTemporal(q geom.STObject, pred geom.Predicate, pt partition.TemporalPartitioner) []Cell {
	n := pt.NumPartitions()

	qiv, ok := q.Interval()
	if !ok {
		// A query without a temporal component cannot exclude buckets.
		return allCells(n)
	}

	survivors := roaring.New()
	for id := 0; id < n; id++ {
		cell := pt.CellInterval(id)

		keep := false
		switch pred {
		case geom.PredicateIntersects:
			keep = cell.Intersects(qiv)

		case geom.PredicateContainedBy:
			// Records are bucketed by start time: one starting in this
			// bucket may extend past the bucket's nominal end and still
			// be contained by a larger query interval. Test the widened
			// half-open range from this bucket's start to the next
			// bucket's start; the last bucket is unbounded above already.
			if id < n-1 {
				keep = qiv.IntersectsHalfOpen(cell.Start, pt.CellInterval(id+1).Start)
			} else {
				keep = cell.Intersects(qiv)
			}

		case geom.PredicateContains:
			keep = cell.Contains(qiv)

		default:
			// No sound pruning rule for other predicate kinds.
			keep = true
		}

		if keep {
			survivors.Add(uint32(id))
		}
	}
	return renumber(survivors)
}

// pruneForKNN picks the partitions participating in kNN phase 1: those
// whose bounds intersect the query envelope widened by margin, or all of
// them without spatial partitioner metadata. This is a heuristic, not a
// sound rule; see WithKNNMargin.
func pruneForKNN(numPartitions int, q geom.STObject, p partition.Partitioner, margin float64) []Cell {
	if pt, ok := p.(partition.SpatialPartitioner); ok {
		return pruneSpatial(q.Envelope().ExpandBy(margin), pt)
	}
	return allCells(numPartitions)
}

// renumber materializes surviving original ids into dense,
// order-preserving cells.
func renumber(survivors *roaring.Bitmap) []Cell {
	cells := make([]Cell, 0, survivors.GetCardinality())
	it := survivors.Iterator()
	for it.HasNext() {
		cells = append(cells, Cell{ID: len(cells), OriginalID: int(it.Next())})
	}
	return cells
}

func allCells(n int) []Cell {
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{ID: i, OriginalID: i}
	}
	return cells
}
