// Package partition defines the partitioner contract the query core
// consumes, plus simple grid and time-bucket implementations.
//
// The query core only ever asks a partitioner two things: how many
// partitions exist, and what the bounds of a given partition are. How
// records were assigned to partitions in the first place is the
// partitioner's own business.
package partition

import "github.com/skmbw/stark/geom"

// Partitioner assigns objects to numbered partitions.
type Partitioner interface {
	// NumPartitions returns the number of partitions, always > 0.
	NumPartitions() int

	// PartitionFor returns the partition id an object is assigned to,
	// in [0, NumPartitions).
	PartitionFor(o geom.STObject) int
}

// SpatialPartitioner is a partitioner whose partitions carry a spatial
// envelope. Partition envelopes may overlap; the pruner only relies on each
// envelope covering every record assigned to that partition.
type SpatialPartitioner interface {
	Partitioner

	// CellEnvelope returns an envelope covering every record assignable
	// to partition id.
	CellEnvelope(id int) geom.Envelope
}

// TemporalPartitioner is a partitioner whose partitions carry a time
// interval and are ordered by interval start: partition i starts no later
// than partition i+1. Records are bucketed by their start instant.
type TemporalPartitioner interface {
	Partitioner

	// CellInterval returns an interval covering the start instant of
	// every record assignable to partition id.
	CellInterval(id int) geom.Interval
}
