package geom

import "fmt"

// Geometry is the minimal surface the query core needs from a geometry
// implementation: its bounding envelope. Richer geometry models can be
// plugged in as long as they can report an envelope.
type Geometry interface {
	Envelope() Envelope
}

// Point is a two-dimensional point geometry.
type Point struct {
	X, Y float64
}

// NewPoint creates a point geometry.
func NewPoint(x, y float64) Point { return Point{X: x, Y: y} }

// Envelope returns the degenerate envelope of the point.
func (p Point) Envelope() Envelope {
	return Envelope{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
}

// String returns a string representation of the point.
func (p Point) String() string { return fmt.Sprintf("Point(%g %g)", p.X, p.Y) }

// Rect is an axis-aligned rectangle geometry.
type Rect struct {
	Env Envelope
}

// NewRect creates a rectangle geometry from corner coordinates.
func NewRect(minX, minY, maxX, maxY float64) Rect {
	return Rect{Env: NewEnvelope(minX, minY, maxX, maxY)}
}

// Envelope returns the rectangle itself.
func (r Rect) Envelope() Envelope { return r.Env }

// String returns a string representation of the rectangle.
func (r Rect) String() string { return fmt.Sprintf("Rect%s", r.Env) }

// STObject pairs a geometry with an optional temporal interval.
//
// STObjects are immutable value types. The zero value is not usable; build
// one with NewSpatial or NewSpatioTemporal.
type STObject struct {
	geom Geometry
	time *Interval
}

// NewSpatial creates a purely spatial object.
func NewSpatial(g Geometry) STObject {
	return STObject{geom: g}
}

// NewSpatioTemporal creates an object with both a geometry and an interval.
func NewSpatioTemporal(g Geometry, t Interval) STObject {
	return STObject{geom: g, time: &t}
}

// Geometry returns the underlying geometry.
func (o STObject) Geometry() Geometry { return o.geom }

// Envelope returns the bounding envelope of the geometry.
func (o STObject) Envelope() Envelope {
	if o.geom == nil {
		return Envelope{}
	}
	return o.geom.Envelope()
}

// Interval returns the temporal component, if present.
func (o STObject) Interval() (Interval, bool) {
	if o.time == nil {
		return Interval{}, false
	}
	return *o.time, true
}

// String returns a string representation of the object.
func (o STObject) String() string {
	if o.time != nil {
		return fmt.Sprintf("ST(%v @ %v)", o.geom, *o.time)
	}
	return fmt.Sprintf("ST(%v)", o.geom)
}
