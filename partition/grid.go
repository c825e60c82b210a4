package partition

import (
	"fmt"
	"math"

	"github.com/skmbw/stark/geom"
)

// GridPartitioner divides a fixed extent into cols x rows uniform cells.
// Objects are assigned by the cell containing their envelope center;
// objects outside the extent are clamped to the nearest edge cell, so every
// object maps to a valid partition. Edge cells report unbounded envelopes
// on their outer sides, keeping pruning sound for clamped objects.
//
// Center assignment covers point-like records exactly. An extended
// geometry can straddle a cell border, and the part past the border would
// escape the cell's reported envelope. When the dataset holds extended
// geometries, declare their maximum size with WithMaxObjectExtent; cell
// envelopes are padded by half that bound, keeping pruning sound for them
// as well.
type GridPartitioner struct {
	extent  geom.Envelope
	cols    int
	rows    int
	cellW   float64
	cellH   float64
	padding float64
}

// GridOption configures a GridPartitioner.
type GridOption func(*GridPartitioner)

// WithMaxObjectExtent declares that no record envelope is wider or taller
// than extent. A record's envelope then reaches at most extent/2 past the
// borders of the cell holding its center.
func WithMaxObjectExtent(extent float64) GridOption {
	return func(g *GridPartitioner) { g.padding = extent / 2 }
}

// NewGrid creates a uniform grid partitioner over extent.
func NewGrid(extent geom.Envelope, cols, rows int, optFns ...GridOption) (*GridPartitioner, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("partition: grid dimensions must be positive, got %dx%d", cols, rows)
	}
	if extent.Width() <= 0 || extent.Height() <= 0 {
		return nil, fmt.Errorf("partition: grid extent must have positive area, got %v", extent)
	}

	g := &GridPartitioner{
		extent: extent,
		cols:   cols,
		rows:   rows,
		cellW:  extent.Width() / float64(cols),
		cellH:  extent.Height() / float64(rows),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(g)
		}
	}
	if g.padding < 0 {
		return nil, fmt.Errorf("partition: max object extent must be non-negative")
	}
	return g, nil
}

// NumPartitions returns cols x rows.
func (g *GridPartitioner) NumPartitions() int { return g.cols * g.rows }

// PartitionFor returns the cell containing the envelope center of o.
func (g *GridPartitioner) PartitionFor(o geom.STObject) int {
	cx, cy := o.Envelope().Center()
	col := g.clamp(int((cx-g.extent.MinX)/g.cellW), g.cols)
	row := g.clamp(int((cy-g.extent.MinY)/g.cellH), g.rows)
	return row*g.cols + col
}

// CellEnvelope returns an envelope covering every record assignable to
// cell id: the cell itself, padded by half the declared max object extent,
// with outer sides of edge cells unbounded because out-of-extent objects
// clamp to them.
func (g *GridPartitioner) CellEnvelope(id int) geom.Envelope {
	col := id % g.cols
	row := id / g.cols

	e := geom.Envelope{
		MinX: g.extent.MinX + float64(col)*g.cellW,
		MinY: g.extent.MinY + float64(row)*g.cellH,
	}
	e.MaxX = e.MinX + g.cellW
	e.MaxY = e.MinY + g.cellH
	if g.padding > 0 {
		e = e.ExpandBy(g.padding)
	}

	if col == 0 {
		e.MinX = math.Inf(-1)
	}
	if col == g.cols-1 {
		e.MaxX = math.Inf(1)
	}
	if row == 0 {
		e.MinY = math.Inf(-1)
	}
	if row == g.rows-1 {
		e.MaxY = math.Inf(1)
	}
	return e
}

func (g *GridPartitioner) clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
