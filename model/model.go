// Package model defines the record shapes shared by the query core.
package model

import (
	"fmt"

	"github.com/skmbw/stark/geom"
)

// Record pairs a spatio-temporal key with an arbitrary payload.
// Keys are not required to be unique. Records are immutable once handed to
// a collection.
type Record[V any] struct {
	Key   geom.STObject
	Value V
}

// NewRecord creates a record.
func NewRecord[V any](key geom.STObject, value V) Record[V] {
	return Record[V]{Key: key, Value: value}
}

// String returns a string representation of the record.
func (r Record[V]) String() string {
	return fmt.Sprintf("Record(%v => %v)", r.Key, r.Value)
}

// Neighbor is a record annotated with its distance to a query object.
type Neighbor[V any] struct {
	Record   Record[V]
	Distance float64
}

// Pair is a single join result.
type Pair[L, R any] struct {
	Left  Record[L]
	Right Record[R]
}
