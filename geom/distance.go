package geom

import "math"

// DistanceFunc computes the distance between two objects.
//
// Distance functions are treated as opaque by the query core: they are not
// assumed to be monotonic with respect to bounding envelopes, so no
// envelope-based shortcut is taken on their behalf.
type DistanceFunc func(a, b STObject) float64

// EuclideanDistance measures the euclidean distance between the envelope
// centers of two objects. For point geometries this is the exact
// point-to-point distance.
func EuclideanDistance(a, b STObject) float64 {
	ax, ay := a.Envelope().Center()
	bx, by := b.Envelope().Center()
	return math.Hypot(ax-bx, ay-by)
}

// ManhattanDistance measures the L1 distance between the envelope centers
// of two objects.
func ManhattanDistance(a, b STObject) float64 {
	ax, ay := a.Envelope().Center()
	bx, by := b.Envelope().Center()
	return math.Abs(ax-bx) + math.Abs(ay-by)
}
