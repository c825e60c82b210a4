package geom

import "fmt"

// Interval is a closed time range [Start, End].
// Instants are modeled as Start == End.
type Interval struct {
	Start int64
	End   int64
}

// NewInterval creates an interval, normalizing swapped bounds.
func NewInterval(start, end int64) Interval {
	if start > end {
		start, end = end, start
	}
	return Interval{Start: start, End: end}
}

// Instant creates a zero-length interval at t.
func Instant(t int64) Interval {
	return Interval{Start: t, End: t}
}

// Intersects reports whether i and o share at least one instant.
func (i Interval) Intersects(o Interval) bool {
	return i.Start <= o.End && o.Start <= i.End
}

// Contains reports whether o lies entirely within i.
func (i Interval) Contains(o Interval) bool {
	return o.Start >= i.Start && o.End <= i.End
}

// ContainsInstant reports whether t lies within i.
func (i Interval) ContainsInstant(t int64) bool {
	return t >= i.Start && t <= i.End
}

// Length returns End - Start.
func (i Interval) Length() int64 { return i.End - i.Start }

// IntersectsHalfOpen reports whether the half-open range [start, end)
// shares at least one instant with i. Used for bucket-widening tests where
// a record belongs to the bucket covering its start time.
func (i Interval) IntersectsHalfOpen(start, end int64) bool {
	return i.Start < end && start <= i.End
}

// String returns a string representation of the interval.
func (i Interval) String() string {
	return fmt.Sprintf("[%d, %d]", i.Start, i.End)
}
