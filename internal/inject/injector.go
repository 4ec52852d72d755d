// Package inject maps externally reported pixel activity onto grid cells.
package inject

import (
	"fmt"

	"github.com/san-kum/gridflow/internal/frame"
	"github.com/san-kum/gridflow/internal/grid"
	"github.com/sirupsen/logrus"
)

// DefaultVelocity is the vertical velocity stamped on activated cells.
const DefaultVelocity = 4.0

type Injector struct {
	g             *grid.Grid
	width, height int
	velocity      float64
}

func New(g *grid.Grid, width, height int, velocity float64) (*Injector, error) {
	if g == nil {
		return nil, fmt.Errorf("inject: nil grid")
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: image %dx%d", grid.ErrInvalidDimensions, width, height)
	}
	return &Injector{g: g, width: width, height: height, velocity: velocity}, nil
}

func (in *Injector) Velocity() float64 { return in.velocity }

// SetVelocity changes the velocity stamped by later activations.
func (in *Injector) SetVelocity(v float64) { in.velocity = v }

// PixelCount is width*height, the required length of mask and stamp inputs.
func (in *Injector) PixelCount() int { return in.width * in.height }

// ApplyActivation paints the cell owning each pixel opaque white and sets
// its vertical velocity. All indices are validated before any cell is
// touched.
func (in *Injector) ApplyActivation(pixels []int) error {
	n := in.PixelCount()
	for _, p := range pixels {
		if p < 0 || p >= n {
			return fmt.Errorf("%w: %d not in [0,%d)", grid.ErrPixelOutOfRange, p, n)
		}
	}
	for _, p := range pixels {
		in.activate(p)
	}
	return nil
}

// ApplyMask is ApplyActivation for a width*height flag array.
func (in *Injector) ApplyMask(mask []bool) error {
	if len(mask) != in.PixelCount() {
		return fmt.Errorf("%w: mask has %d entries, want %d", grid.ErrLengthMismatch, len(mask), in.PixelCount())
	}
	for p, on := range mask {
		if on {
			in.activate(p)
		}
	}
	return nil
}

func (in *Injector) activate(p int) {
	row, col := frame.CellOf(p, in.width, in.g.CellDim())
	if !in.g.InLattice(row, col) {
		return
	}
	logrus.Debugf("setting grid %d,%d to white", row, col)
	in.g.Color.Set(row, col, grid.White)
	in.g.VelocityY.Set(row, col, in.velocity)
}

// SetVelocities stamps (vx[i], vy[i]) onto the cell owning pixel i. Pixels
// with both components exactly zero are skipped, not reset.
func (in *Injector) SetVelocities(vx, vy []float64) error {
	n := in.PixelCount()
	if len(vx) != n || len(vy) != n {
		return fmt.Errorf("%w: got %d/%d entries, want %d", grid.ErrLengthMismatch, len(vx), len(vy), n)
	}
	for i := 0; i < n; i++ {
		if vx[i] == 0 && vy[i] == 0 {
			continue
		}
		row, col := frame.CellOf(i, in.width, in.g.CellDim())
		if !in.g.InLattice(row, col) {
			continue
		}
		in.g.VelocityX.Set(row, col, vx[i])
		in.g.VelocityY.Set(row, col, vy[i])
		logrus.WithFields(logrus.Fields{"row": row, "col": col}).Debugf("setting velocity to [%f,%f]", vx[i], vy[i])
	}
	return nil
}
