package itree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skmbw/stark/geom"
)

func temporal(start, end int64) geom.STObject {
	return geom.NewSpatioTemporal(geom.NewPoint(0, 0), geom.NewInterval(start, end))
}

func TestQueryIntersecting(t *testing.T) {
	tr := New[string]()
	tr.Insert(temporal(0, 5), "early")
	tr.Insert(temporal(0, 100), "long")
	tr.Insert(temporal(40, 50), "mid")
	tr.Insert(temporal(200, 210), "late")
	tr.Build()

	var got []string
	for _, r := range tr.Query(temporal(45, 60)) {
		got = append(got, r.Value)
	}
	assert.Equal(t, []string{"long", "mid"}, got)
}

func TestQueryLongEarlyInterval(t *testing.T) {
	// An interval starting far before the query must still be found.
	tr := New[int]()
	tr.Insert(temporal(0, 1000), 0)
	for i := int64(1); i <= 50; i++ {
		tr.Insert(temporal(i*10, i*10+1), int(i))
	}
	tr.Build()

	got := tr.Query(temporal(900, 905))
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Value)
}

func TestQueryMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	tr := New[int]()
	type rec struct {
		iv geom.Interval
		id int
	}
	var recs []rec
	for i := 0; i < 300; i++ {
		start := rng.Int63n(1000)
		iv := geom.NewInterval(start, start+rng.Int63n(100))
		recs = append(recs, rec{iv: iv, id: i})
		tr.Insert(geom.NewSpatioTemporal(geom.NewPoint(0, 0), iv), i)
	}
	tr.Build()

	for i := 0; i < 20; i++ {
		start := rng.Int63n(1000)
		q := geom.NewInterval(start, start+rng.Int63n(200))

		expected := map[int]bool{}
		for _, r := range recs {
			if r.iv.Intersects(q) {
				expected[r.id] = true
			}
		}

		got := map[int]bool{}
		for _, r := range tr.Query(geom.NewSpatioTemporal(geom.NewPoint(0, 0), q)) {
			got[r.Value] = true
		}
		assert.Equal(t, expected, got, "query %v", q)
	}
}

func TestTimelessRecords(t *testing.T) {
	tr := New[string]()
	tr.Insert(temporal(0, 10), "timed")
	tr.Insert(geom.NewSpatial(geom.NewPoint(1, 1)), "timeless")
	tr.Build()

	// Timeless records are coarse matches for any query.
	got := tr.Query(temporal(100, 110))
	require.Len(t, got, 1)
	assert.Equal(t, "timeless", got[0].Value)

	// A query without an interval matches everything coarsely.
	assert.Len(t, tr.Query(geom.NewSpatial(geom.NewPoint(0, 0))), 2)
}

func TestKNNAndWithinDistance(t *testing.T) {
	tr := New[int]()
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 5, Y: 5}}
	for i, p := range pts {
		tr.Insert(geom.NewSpatioTemporal(p, geom.NewInterval(int64(i), int64(i)+1)), i)
	}
	tr.Build()

	q := geom.NewSpatial(geom.NewPoint(0, 0))

	knn := tr.KNN(q, 2, geom.EuclideanDistance)
	require.Len(t, knn, 2)
	assert.Equal(t, 0, knn[0].Record.Value)
	assert.Equal(t, 1, knn[1].Record.Value)

	var within []int
	for _, r := range tr.WithinDistance(q, geom.EuclideanDistance, 2) {
		within = append(within, r.Value)
	}
	assert.Equal(t, []int{0, 1}, within)
}
