// Package exec provides the minimal execution engine the query core runs
// on: an immutable partitioned record collection, a fixed worker pool,
// parallel per-partition map with a barrier, and a deterministic top-k
// operation.
//
// Task closures handed to the pool must be idempotent and free of
// externally visible side effects; a hosting scheduler may retry or
// speculatively duplicate them and the core never assumes exactly-once
// execution.
package exec

import (
	"github.com/skmbw/stark/model"
	"github.com/skmbw/stark/partition"
)

// Collection is an immutable, partitioned collection of records. The
// partition layout is fixed at construction; repartitioning produces a new
// collection.
type Collection[V any] struct {
	parts       [][]model.Record[V]
	partitioner partition.Partitioner
}

// Parallelize materializes records as a collection with numPartitions
// contiguous, order-preserving partitions. Non-positive partition counts
// default to 1.
func Parallelize[V any](records []model.Record[V], numPartitions int) *Collection[V] {
	if numPartitions <= 0 {
		numPartitions = 1
	}
	if numPartitions > len(records) && len(records) > 0 {
		numPartitions = len(records)
	}

	parts := make([][]model.Record[V], numPartitions)
	if len(records) == 0 {
		return &Collection[V]{parts: parts}
	}

	chunk := (len(records) + numPartitions - 1) / numPartitions
	for i := range parts {
		lo := i * chunk
		hi := lo + chunk
		if lo > len(records) {
			lo = len(records)
		}
		if hi > len(records) {
			hi = len(records)
		}
		parts[i] = records[lo:hi]
	}
	return &Collection[V]{parts: parts}
}

// FromPartitions wraps pre-partitioned records. If p is non-nil it records
// that the layout follows p, letting PartitionBy skip a redundant shuffle.
func FromPartitions[V any](parts [][]model.Record[V], p partition.Partitioner) *Collection[V] {
	return &Collection[V]{parts: parts, partitioner: p}
}

// PartitionBy redistributes the records under p. It is a no-op returning
// the receiver when the collection is already partitioned by p.
func (c *Collection[V]) PartitionBy(p partition.Partitioner) *Collection[V] {
	if p == nil || c.partitioner == p {
		return c
	}

	parts := make([][]model.Record[V], p.NumPartitions())
	for _, part := range c.parts {
		for _, rec := range part {
			pid := p.PartitionFor(rec.Key)
			parts[pid] = append(parts[pid], rec)
		}
	}
	return &Collection[V]{parts: parts, partitioner: p}
}

// Partitioner returns the partitioner this collection is laid out by, or
// nil when the layout is arbitrary.
func (c *Collection[V]) Partitioner() partition.Partitioner { return c.partitioner }

// NumPartitions returns the number of partitions.
func (c *Collection[V]) NumPartitions() int { return len(c.parts) }

// Partition returns the records of partition pid. The returned slice is
// shared and must not be mutated.
func (c *Collection[V]) Partition(pid int) []model.Record[V] { return c.parts[pid] }

// Records returns all records in partition order.
func (c *Collection[V]) Records() []model.Record[V] {
	var out []model.Record[V]
	for _, part := range c.parts {
		out = append(out, part...)
	}
	return out
}

// Count returns the total number of records.
func (c *Collection[V]) Count() int {
	n := 0
	for _, part := range c.parts {
		n += len(part)
	}
	return n
}
