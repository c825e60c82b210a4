package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Envelope
		expected bool
	}{
		{"Overlapping", NewEnvelope(0, 0, 10, 10), NewEnvelope(5, 5, 15, 15), true},
		{"Touching edge", NewEnvelope(0, 0, 10, 10), NewEnvelope(10, 0, 20, 10), true},
		{"Touching corner", NewEnvelope(0, 0, 10, 10), NewEnvelope(10, 10, 20, 20), true},
		{"Disjoint x", NewEnvelope(0, 0, 10, 10), NewEnvelope(11, 0, 20, 10), false},
		{"Disjoint y", NewEnvelope(0, 0, 10, 10), NewEnvelope(0, 11, 10, 20), false},
		{"Contained", NewEnvelope(0, 0, 10, 10), NewEnvelope(2, 2, 3, 3), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.expected, tt.b.Intersects(tt.a))
		})
	}
}

func TestEnvelopeContainsEnvelope(t *testing.T) {
	outer := NewEnvelope(0, 0, 10, 10)

	assert.True(t, outer.ContainsEnvelope(NewEnvelope(2, 2, 8, 8)))
	assert.True(t, outer.ContainsEnvelope(outer))
	assert.False(t, outer.ContainsEnvelope(NewEnvelope(5, 5, 15, 15)))
	assert.False(t, outer.ContainsEnvelope(NewEnvelope(-1, 0, 5, 5)))
}

func TestEnvelopeExpandBy(t *testing.T) {
	e := NewEnvelope(2, 2, 4, 4).ExpandBy(1)
	assert.Equal(t, NewEnvelope(1, 1, 5, 5), e)

	// Normalizes when over-shrunk.
	s := NewEnvelope(0, 0, 2, 2).ExpandBy(-2)
	assert.LessOrEqual(t, s.MinX, s.MaxX)
	assert.LessOrEqual(t, s.MinY, s.MaxY)
}

func TestEnvelopeExpandToInclude(t *testing.T) {
	a := NewEnvelope(0, 0, 2, 2)
	b := NewEnvelope(5, -1, 6, 1)
	assert.Equal(t, NewEnvelope(0, -1, 6, 2), a.ExpandToInclude(b))
}

func TestIntervalIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Interval
		expected bool
	}{
		{"Overlapping", NewInterval(0, 10), NewInterval(5, 15), true},
		{"Touching", NewInterval(0, 10), NewInterval(10, 20), true},
		{"Disjoint", NewInterval(0, 10), NewInterval(11, 20), false},
		{"Instant inside", NewInterval(0, 10), Instant(5), true},
		{"Instant outside", NewInterval(0, 10), Instant(11), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Intersects(tt.b))
			assert.Equal(t, tt.expected, tt.b.Intersects(tt.a))
		})
	}
}

func TestIntervalIntersectsHalfOpen(t *testing.T) {
	q := NewInterval(5, 25)

	// [0, 10) overlaps [5, 25].
	assert.True(t, q.IntersectsHalfOpen(0, 10))
	// [25, 30) still touches the closed query end.
	assert.True(t, q.IntersectsHalfOpen(25, 30))
	// [26, 30) does not.
	assert.False(t, q.IntersectsHalfOpen(26, 30))
	// The exclusive end does not count: [0, 5) misses a query starting at 5.
	assert.False(t, NewInterval(5, 25).IntersectsHalfOpen(0, 5))
}

func TestSTObject(t *testing.T) {
	s := NewSpatial(NewPoint(1, 2))
	_, ok := s.Interval()
	assert.False(t, ok)
	assert.Equal(t, Envelope{MinX: 1, MinY: 2, MaxX: 1, MaxY: 2}, s.Envelope())

	st := NewSpatioTemporal(NewRect(0, 0, 4, 4), NewInterval(10, 20))
	iv, ok := st.Interval()
	assert.True(t, ok)
	assert.Equal(t, NewInterval(10, 20), iv)
}
