package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicateString(t *testing.T) {
	tests := []struct {
		p        Predicate
		expected string
	}{
		{PredicateIntersects, "Intersects"},
		{PredicateContains, "Contains"},
		{PredicateContainedBy, "ContainedBy"},
		{Predicate(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.p.String())
	}
}

func TestPredicateEvalSpatial(t *testing.T) {
	outer := NewSpatial(NewRect(0, 0, 10, 10))
	inner := NewSpatial(NewRect(2, 2, 4, 4))
	apart := NewSpatial(NewRect(20, 20, 30, 30))

	assert.True(t, PredicateIntersects.Eval(outer, inner))
	assert.False(t, PredicateIntersects.Eval(outer, apart))

	assert.True(t, PredicateContains.Eval(outer, inner))
	assert.False(t, PredicateContains.Eval(inner, outer))

	assert.True(t, PredicateContainedBy.Eval(inner, outer))
	assert.False(t, PredicateContainedBy.Eval(outer, inner))
}

func TestPredicateEvalSpatioTemporal(t *testing.T) {
	q := NewSpatioTemporal(NewRect(0, 0, 10, 10), NewInterval(0, 100))

	inside := NewSpatioTemporal(NewPoint(5, 5), NewInterval(10, 20))
	late := NewSpatioTemporal(NewPoint(5, 5), NewInterval(200, 300))
	timeless := NewSpatial(NewPoint(5, 5))

	// Both operands carry intervals: the interval test applies too.
	assert.True(t, PredicateIntersects.Eval(q, inside))
	assert.False(t, PredicateIntersects.Eval(q, late))

	// An operand without an interval matches any time.
	assert.True(t, PredicateIntersects.Eval(q, timeless))

	assert.True(t, PredicateContains.Eval(q, inside))
	assert.False(t, PredicateContains.Eval(q, late))
	assert.True(t, PredicateContainedBy.Eval(inside, q))
}

func TestPredicateFuncValid(t *testing.T) {
	assert.NotNil(t, PredicateIntersects.Func())
	assert.Nil(t, Predicate(42).Func())
	assert.False(t, Predicate(42).Eval(NewSpatial(NewPoint(0, 0)), NewSpatial(NewPoint(0, 0))))
}

func TestDistanceFuncs(t *testing.T) {
	a := NewSpatial(NewPoint(0, 0))
	b := NewSpatial(NewPoint(3, 4))

	assert.InDelta(t, 5.0, EuclideanDistance(a, b), 1e-12)
	assert.InDelta(t, 7.0, ManhattanDistance(a, b), 1e-12)

	// Rect distance is measured between centers.
	r := NewSpatial(NewRect(2, 2, 4, 6))
	assert.InDelta(t, 5.0, EuclideanDistance(a, r), 1e-12)
}
