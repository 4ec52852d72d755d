// Package raster turns grid state into pixel colors.
package raster

import (
	"fmt"

	"github.com/san-kum/gridflow/internal/frame"
	"github.com/san-kum/gridflow/internal/grid"
)

type Mode int

const (
	// MotionMode paints moving cells white and still cells background.
	MotionMode Mode = iota
	// ColorMode paints each pixel with its cell's color field value.
	ColorMode
)

func (m Mode) String() string {
	switch m {
	case MotionMode:
		return "motion"
	case ColorMode:
		return "color"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "motion":
		return MotionMode, nil
	case "color":
		return ColorMode, nil
	default:
		return 0, fmt.Errorf("unknown render mode: %s", s)
	}
}

type Rasterizer struct {
	g       *grid.Grid
	mode    Mode
	workers int

	Moving grid.Color
	Still  grid.Color
	Blank  grid.Color
}

func New(g *grid.Grid, mode Mode, workers int) *Rasterizer {
	if workers < 1 {
		workers = 1
	}
	return &Rasterizer{
		g:       g,
		mode:    mode,
		workers: workers,
		Moving:  grid.White,
		Still:   grid.Background,
		Blank:   grid.White,
	}
}

func (r *Rasterizer) Mode() Mode { return r.mode }

func (r *Rasterizer) SetMode(m Mode) { r.mode = m }

// Clear resets the whole buffer to opaque white ahead of a frame.
func (r *Rasterizer) Clear(buf *frame.Buffer) { buf.Clear(r.Blank) }

// Render overwrites every pixel of buf from the grid. Pixels whose owning
// cell lies outside the lattice get the still color.
func (r *Rasterizer) Render(buf *frame.Buffer) error {
	if buf == nil || len(buf.Data) != 4*buf.Width*buf.Height {
		return fmt.Errorf("%w: malformed buffer", grid.ErrBufferMismatch)
	}
	if buf.Width/r.g.CellDim() != r.g.CellsPerSide() {
		return fmt.Errorf("%w: width %d for %d cells of %d px", grid.ErrBufferMismatch, buf.Width, r.g.CellsPerSide(), r.g.CellDim())
	}

	d := r.g.CellDim()
	parallelRows(buf.Height, r.workers, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < buf.Width; x++ {
				i := y*buf.Width + x
				buf.SetPixel(i, r.colorOf(y/d, x/d))
			}
		}
	})
	return nil
}

func (r *Rasterizer) colorOf(row, col int) grid.Color {
	if !r.g.InLattice(row, col) {
		return r.Still
	}
	if r.mode == ColorMode {
		return r.g.Color.At(row, col)
	}
	if r.g.Moving(row, col) {
		return r.Moving
	}
	return r.Still
}
