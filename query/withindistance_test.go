package query

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skmbw/stark/exec"
	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/model"
	"github.com/skmbw/stark/partition"
)

func TestWithinDistance(t *testing.T) {
	ctx := context.Background()

	recs := []model.Record[int]{
		pointRec(0, 0, 0),
		pointRec(3, 4, 1), // distance 5
		pointRec(6, 8, 2), // distance 10
		pointRec(20, 20, 3),
	}
	c := exec.Parallelize(recs, 2)
	q := geom.NewSpatial(geom.NewPoint(0, 0))

	t.Run("boundary is inclusive", func(t *testing.T) {
		got, err := WithinDistance(ctx, c, q, geom.EuclideanDistance, 5)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, values(got))
	})

	t.Run("zero radius keeps exact hits", func(t *testing.T) {
		got, err := WithinDistance(ctx, c, q, geom.EuclideanDistance, 0)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, values(got))
	})

	t.Run("nothing in range", func(t *testing.T) {
		got, err := WithinDistance(ctx, c, q, geom.EuclideanDistance, -1)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("manhattan distance", func(t *testing.T) {
		got, err := WithinDistance(ctx, c, q, geom.ManhattanDistance, 7)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, values(got))
	})
}

// The scan never prunes, so a partitioned collection must return exactly
// what a brute-force pass over all records returns, even for an exotic
// distance function the partition bounds say nothing about.
func TestWithinDistance_MatchesBruteForce(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(5))

	recs := make([]model.Record[int], 400)
	for i := range recs {
		recs[i] = pointRec(rng.Float64()*100, rng.Float64()*100, i)
	}

	grid, err := partition.NewGrid(geom.NewEnvelope(0, 0, 100, 100), 4, 4)
	require.NoError(t, err)
	c := exec.Parallelize(recs, 3).PartitionBy(grid)

	q := geom.NewSpatial(geom.NewPoint(50, 50))
	const maxDist = 25.0

	got, err := WithinDistance(ctx, c, q, geom.EuclideanDistance, maxDist)
	require.NoError(t, err)

	var want []int
	for _, r := range recs {
		if geom.EuclideanDistance(r.Key, q) <= maxDist {
			want = append(want, r.Value)
		}
	}
	assert.ElementsMatch(t, want, values(got))
	assert.NotEmpty(t, got)
}
