package partition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skmbw/stark/geom"
)

func TestGridPartitionFor(t *testing.T) {
	g, err := NewGrid(geom.NewEnvelope(0, 0, 10, 10), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, g.NumPartitions())

	tests := []struct {
		name     string
		p        geom.Point
		expected int
	}{
		{"Bottom left", geom.NewPoint(1, 1), 0},
		{"Bottom right", geom.NewPoint(9, 1), 1},
		{"Top left", geom.NewPoint(1, 9), 2},
		{"Top right", geom.NewPoint(9, 9), 3},
		{"Clamped below extent", geom.NewPoint(-5, -5), 0},
		{"Clamped above extent", geom.NewPoint(20, 20), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, g.PartitionFor(geom.NewSpatial(tt.p)))
		})
	}
}

func TestGridCellEnvelopeCoversAssigned(t *testing.T) {
	g, err := NewGrid(geom.NewEnvelope(0, 0, 10, 10), 3, 3)
	require.NoError(t, err)

	// Every point, even outside the extent, must be covered by the
	// envelope of its assigned cell.
	points := []geom.Point{
		{X: 0.5, Y: 0.5}, {X: 5, Y: 5}, {X: 9.9, Y: 9.9},
		{X: -100, Y: 3}, {X: 3, Y: 100}, {X: 50, Y: -50},
	}
	for _, p := range points {
		id := g.PartitionFor(geom.NewSpatial(p))
		assert.True(t, g.CellEnvelope(id).Contains(p.X, p.Y), "point %v, cell %d", p, id)
	}
}

func TestGridEdgeCellsUnbounded(t *testing.T) {
	g, err := NewGrid(geom.NewEnvelope(0, 0, 10, 10), 2, 2)
	require.NoError(t, err)

	e := g.CellEnvelope(0)
	assert.True(t, math.IsInf(e.MinX, -1))
	assert.True(t, math.IsInf(e.MinY, -1))
	assert.Equal(t, 5.0, e.MaxX)

	e = g.CellEnvelope(3)
	assert.True(t, math.IsInf(e.MaxX, 1))
	assert.True(t, math.IsInf(e.MaxY, 1))
}

func TestGridMaxObjectExtentPadsCells(t *testing.T) {
	g, err := NewGrid(geom.NewEnvelope(0, 0, 100, 100), 2, 1, WithMaxObjectExtent(20))
	require.NoError(t, err)

	// A rect straddling the border at x=50 is assigned by its center to
	// the right cell; the padded cell envelope must still cover it.
	rect := geom.NewRect(40, 10, 60, 20)
	id := g.PartitionFor(geom.NewSpatial(rect))
	require.Equal(t, 1, id)
	assert.True(t, g.CellEnvelope(id).ContainsEnvelope(rect.Env))

	// The unpadded cell would start at x=50 and miss the overhang.
	unpadded, err := NewGrid(geom.NewEnvelope(0, 0, 100, 100), 2, 1)
	require.NoError(t, err)
	assert.False(t, unpadded.CellEnvelope(1).ContainsEnvelope(rect.Env))
}

func TestGridValidation(t *testing.T) {
	_, err := NewGrid(geom.NewEnvelope(0, 0, 10, 10), 0, 2)
	assert.Error(t, err)

	_, err = NewGrid(geom.NewEnvelope(0, 0, 0, 10), 2, 2)
	assert.Error(t, err)

	_, err = NewGrid(geom.NewEnvelope(0, 0, 10, 10), 2, 2, WithMaxObjectExtent(-1))
	assert.Error(t, err)
}

func TestTimeBuckets(t *testing.T) {
	p, err := NewTimeBuckets([]int64{0, 10, 20}, 30)
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumPartitions())

	obj := func(start, end int64) geom.STObject {
		return geom.NewSpatioTemporal(geom.NewPoint(0, 0), geom.NewInterval(start, end))
	}

	assert.Equal(t, 0, p.PartitionFor(obj(0, 5)))
	assert.Equal(t, 0, p.PartitionFor(obj(9, 50)))
	assert.Equal(t, 1, p.PartitionFor(obj(10, 12)))
	assert.Equal(t, 2, p.PartitionFor(obj(25, 25)))
	assert.Equal(t, 2, p.PartitionFor(obj(99, 99)))

	// Early starts clamp to the first bucket.
	assert.Equal(t, 0, p.PartitionFor(obj(-5, -1)))

	// No interval: last bucket.
	assert.Equal(t, 2, p.PartitionFor(geom.NewSpatial(geom.NewPoint(0, 0))))

	assert.Equal(t, geom.Interval{Start: math.MinInt64, End: 9}, p.CellInterval(0))
	assert.Equal(t, geom.Interval{Start: 10, End: 19}, p.CellInterval(1))
	assert.Equal(t, geom.Interval{Start: 20, End: math.MaxInt64}, p.CellInterval(2))
}

func TestTimeBucketCellIntervalCoversAssigned(t *testing.T) {
	p, err := NewTimeBuckets([]int64{0, 10, 20}, 30)
	require.NoError(t, err)

	// Every record, including those with starts outside the declared
	// range, must be covered by the interval of its assigned bucket.
	intervals := []geom.Interval{
		{Start: -5, End: -5}, {Start: 5, End: 50}, {Start: 12, End: 14},
		{Start: 25, End: 28}, {Start: 35, End: 40}, {Start: 99, End: 120},
	}
	for _, iv := range intervals {
		obj := geom.NewSpatioTemporal(geom.NewPoint(0, 0), iv)
		id := p.PartitionFor(obj)
		assert.True(t, p.CellInterval(id).ContainsInstant(iv.Start), "interval %v, bucket %d", iv, id)
	}
}

func TestTimeBucketsValidation(t *testing.T) {
	_, err := NewTimeBuckets(nil, 10)
	assert.Error(t, err)

	_, err = NewTimeBuckets([]int64{10, 0}, 20)
	assert.Error(t, err)

	// Duplicate starts would declare an empty bucket.
	_, err = NewTimeBuckets([]int64{0, 10, 10}, 20)
	assert.Error(t, err)

	_, err = NewTimeBuckets([]int64{0, 10}, 5)
	assert.Error(t, err)
}
