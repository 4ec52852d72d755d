package grid

import "fmt"

const (
	// DefaultCellDim is the number of pixels per cell edge.
	DefaultCellDim = 1
	// DefaultTimeStep is the advection time scale per step.
	DefaultTimeStep = 1.0
)

type Grid struct {
	cellDim int
	cells   int

	VelocityX *Field
	VelocityY *Field
	Pressure  *Field
	Color     *ColorField

	Scratch      *Field
	ColorScratch *ColorField
	TraceX       *Field
	TraceY       *Field
}

// New allocates a grid for an image imageWidth pixels wide. The lattice has
// imageWidth/cellDim cells per side plus one padding row and column.
func New(imageWidth, cellDim int) (*Grid, error) {
	if cellDim < 1 {
		return nil, fmt.Errorf("%w: cell dim %d", ErrInvalidDimensions, cellDim)
	}
	cells := imageWidth / cellDim
	if cells < 1 {
		return nil, fmt.Errorf("%w: width %d with cell dim %d", ErrInvalidDimensions, imageWidth, cellDim)
	}

	side := cells + 1
	g := &Grid{
		cellDim:      cellDim,
		cells:        cells,
		VelocityX:    NewField(side),
		VelocityY:    NewField(side),
		Pressure:     NewField(side),
		Color:        NewColorField(side),
		Scratch:      NewField(side),
		ColorScratch: NewColorField(side),
		TraceX:       NewField(side),
		TraceY:       NewField(side),
	}
	g.Color.Fill(Background)
	return g, nil
}

func (g *Grid) CellDim() int { return g.cellDim }

// CellsPerSide is the number of addressable cells per axis, excluding padding.
func (g *Grid) CellsPerSide() int { return g.cells }

// Side is the allocated side length, CellsPerSide()+1.
func (g *Grid) Side() int { return g.cells + 1 }

// InBounds reports whether (row, col) is an addressable cell, i.e. both
// lie in [0, CellsPerSide()).
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < g.cells && col < g.cells
}

// InLattice reports whether (row, col) is inside the allocated lattice,
// padding included.
func (g *Grid) InLattice(row, col int) bool {
	side := g.cells + 1
	return row >= 0 && col >= 0 && row < side && col < side
}

// Reset restores the construction state: zero velocity and pressure,
// background color everywhere.
func (g *Grid) Reset() {
	g.VelocityX.Fill(0)
	g.VelocityY.Fill(0)
	g.Pressure.Fill(0)
	g.Color.Fill(Background)
	g.Scratch.Fill(0)
	g.ColorScratch.Fill(Color{})
	g.TraceX.Fill(0)
	g.TraceY.Fill(0)
}

// Moving reports whether the cell carries any nonzero velocity component.
func (g *Grid) Moving(row, col int) bool {
	return g.VelocityX.At(row, col) != 0 || g.VelocityY.At(row, col) != 0
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		cellDim:      g.cellDim,
		cells:        g.cells,
		VelocityX:    NewField(g.Side()),
		VelocityY:    NewField(g.Side()),
		Pressure:     NewField(g.Side()),
		Color:        NewColorField(g.Side()),
		Scratch:      NewField(g.Side()),
		ColorScratch: NewColorField(g.Side()),
		TraceX:       NewField(g.Side()),
		TraceY:       NewField(g.Side()),
	}
	c.VelocityX.CopyFrom(g.VelocityX)
	c.VelocityY.CopyFrom(g.VelocityY)
	c.Pressure.CopyFrom(g.Pressure)
	c.Color.CopyFrom(g.Color)
	c.Scratch.CopyFrom(g.Scratch)
	c.ColorScratch.CopyFrom(g.ColorScratch)
	c.TraceX.CopyFrom(g.TraceX)
	c.TraceY.CopyFrom(g.TraceY)
	return c
}
