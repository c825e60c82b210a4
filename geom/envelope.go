package geom

import "fmt"

// Envelope is a minimal axis-aligned bounding box.
type Envelope struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewEnvelope creates an envelope, normalizing swapped bounds.
func NewEnvelope(minX, minY, maxX, maxY float64) Envelope {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Envelope{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Intersects reports whether e and o share at least one point.
// Touching edges count as intersection.
func (e Envelope) Intersects(o Envelope) bool {
	return e.MinX <= o.MaxX && o.MinX <= e.MaxX &&
		e.MinY <= o.MaxY && o.MinY <= e.MaxY
}

// Contains reports whether the point (x, y) lies within e, borders included.
func (e Envelope) Contains(x, y float64) bool {
	return x >= e.MinX && x <= e.MaxX && y >= e.MinY && y <= e.MaxY
}

// ContainsEnvelope reports whether every point of o lies within e.
func (e Envelope) ContainsEnvelope(o Envelope) bool {
	return o.MinX >= e.MinX && o.MaxX <= e.MaxX &&
		o.MinY >= e.MinY && o.MaxY <= e.MaxY
}

// Center returns the midpoint of the envelope.
func (e Envelope) Center() (x, y float64) {
	return (e.MinX + e.MaxX) / 2, (e.MinY + e.MaxY) / 2
}

// ExpandBy returns the envelope grown by margin on every side.
// A negative margin shrinks the envelope; bounds are re-normalized.
func (e Envelope) ExpandBy(margin float64) Envelope {
	return NewEnvelope(e.MinX-margin, e.MinY-margin, e.MaxX+margin, e.MaxY+margin)
}

// Width returns the extent of the envelope along the x axis.
func (e Envelope) Width() float64 { return e.MaxX - e.MinX }

// Height returns the extent of the envelope along the y axis.
func (e Envelope) Height() float64 { return e.MaxY - e.MinY }

// ExpandToInclude returns the smallest envelope covering both e and o.
func (e Envelope) ExpandToInclude(o Envelope) Envelope {
	if o.MinX < e.MinX {
		e.MinX = o.MinX
	}
	if o.MinY < e.MinY {
		e.MinY = o.MinY
	}
	if o.MaxX > e.MaxX {
		e.MaxX = o.MaxX
	}
	if o.MaxY > e.MaxY {
		e.MaxY = o.MaxY
	}
	return e
}

// String returns a string representation of the envelope.
func (e Envelope) String() string {
	return fmt.Sprintf("Env[%g %g, %g %g]", e.MinX, e.MinY, e.MaxX, e.MaxY)
}
