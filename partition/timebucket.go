package partition

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/skmbw/stark/geom"
)

// TimeBucketPartitioner buckets objects by the start instant of their
// interval. Bucket i covers starts in [starts[i], starts[i+1]); the last
// bucket covers everything from its start on. Objects starting before the
// first bucket clamp to bucket 0; objects without an interval go to the
// last bucket.
//
// Because clamped objects can start before the first declared instant and
// records in the last bucket can extend arbitrarily far, CellInterval
// reports the first bucket as unbounded below and the last bucket as
// unbounded above. The pruner applies the widened start-to-next-start
// range where the predicate requires it.
type TimeBucketPartitioner struct {
	starts []int64
}

// NewTimeBuckets creates a time-bucket partitioner from strictly
// increasing bucket start instants and the declared end of the last
// bucket.
func NewTimeBuckets(starts []int64, end int64) (*TimeBucketPartitioner, error) {
	if len(starts) == 0 {
		return nil, fmt.Errorf("partition: at least one bucket start required")
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] {
			return nil, fmt.Errorf("partition: bucket starts must be strictly increasing, got %d after %d", starts[i], starts[i-1])
		}
	}
	if end < starts[len(starts)-1] {
		return nil, fmt.Errorf("partition: end %d precedes last bucket start %d", end, starts[len(starts)-1])
	}
	return &TimeBucketPartitioner{starts: slices.Clone(starts)}, nil
}

// NumPartitions returns the number of buckets.
func (t *TimeBucketPartitioner) NumPartitions() int { return len(t.starts) }

// PartitionFor returns the bucket whose start range covers the start
// instant of o's interval.
func (t *TimeBucketPartitioner) PartitionFor(o geom.STObject) int {
	iv, ok := o.Interval()
	if !ok {
		return len(t.starts) - 1
	}
	// First bucket whose start is strictly after iv.Start, minus one.
	i := sort.Search(len(t.starts), func(i int) bool { return t.starts[i] > iv.Start })
	if i == 0 {
		return 0
	}
	return i - 1
}

// CellInterval returns the interval covering every record assignable to
// bucket id. Interior buckets report [starts[id], starts[id+1]) as a
// closed interval. The first bucket is unbounded below and the last
// unbounded above, because out-of-range starts clamp to them.
func (t *TimeBucketPartitioner) CellInterval(id int) geom.Interval {
	start := t.starts[id]
	if id == 0 {
		start = math.MinInt64
	}
	end := int64(math.MaxInt64)
	if id < len(t.starts)-1 {
		end = t.starts[id+1] - 1
	}
	return geom.Interval{Start: start, End: end}
}
