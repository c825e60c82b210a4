package geom

import "fmt"

// Predicate enumerates the fixed join/filter predicate kinds.
//
// Predicates are spatio-temporal: the spatial test must hold, and when both
// operands carry a temporal interval the corresponding interval test must
// hold as well. An operand without an interval matches any time.
type Predicate int

const (
	// PredicateIntersects holds when a and b share at least one point.
	PredicateIntersects Predicate = iota

	// PredicateContains holds when every point of b lies within a.
	PredicateContains

	// PredicateContainedBy holds when every point of a lies within b.
	PredicateContainedBy
)

// String returns a string representation of the predicate.
func (p Predicate) String() string {
	switch p {
	case PredicateIntersects:
		return "Intersects"
	case PredicateContains:
		return "Contains"
	case PredicateContainedBy:
		return "ContainedBy"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// Valid reports whether p is one of the fixed predicate kinds.
func (p Predicate) Valid() bool {
	return p >= PredicateIntersects && p <= PredicateContainedBy
}

// PredicateFunc is the escape hatch for arbitrary caller-supplied
// predicates over two objects. No partition pruning rule is known for such
// predicates, so operations run without pruning when given one.
type PredicateFunc func(a, b STObject) bool

// predicate test table, indexed by Predicate.
var predicateFuncs = [...]PredicateFunc{
	PredicateIntersects:  intersects,
	PredicateContains:    contains,
	PredicateContainedBy: containedBy,
}

// Func returns the test function for the predicate kind.
// It returns nil for an unknown kind.
func (p Predicate) Func() PredicateFunc {
	if !p.Valid() {
		return nil
	}
	return predicateFuncs[p]
}

// Eval applies the predicate to (a, b).
func (p Predicate) Eval(a, b STObject) bool {
	fn := p.Func()
	if fn == nil {
		return false
	}
	return fn(a, b)
}

func intersects(a, b STObject) bool {
	if !a.Envelope().Intersects(b.Envelope()) {
		return false
	}
	at, aok := a.Interval()
	bt, bok := b.Interval()
	if aok && bok {
		return at.Intersects(bt)
	}
	return true
}

func contains(a, b STObject) bool {
	if !a.Envelope().ContainsEnvelope(b.Envelope()) {
		return false
	}
	at, aok := a.Interval()
	bt, bok := b.Interval()
	if aok && bok {
		return at.Contains(bt)
	}
	return true
}

func containedBy(a, b STObject) bool {
	return contains(b, a)
}
