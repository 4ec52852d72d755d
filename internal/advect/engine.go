package advect

import (
	"fmt"
	"math"

	"github.com/san-kum/gridflow/internal/grid"
)

// ClampPolicy decides what happens to a destination cell when a trace
// lands outside the grid.
type ClampPolicy int

const (
	// LeaveUnchanged keeps the destination's current value.
	LeaveUnchanged ClampPolicy = iota
)

func (p ClampPolicy) String() string {
	switch p {
	case LeaveUnchanged:
		return "leave-unchanged"
	default:
		return fmt.Sprintf("ClampPolicy(%d)", int(p))
	}
}

// maxPixel bounds displaced positions before integer conversion.
const maxPixel = 1 << 30

type Options struct {
	TimeStep    float64
	AdvectColor bool
	Workers     int
	Policy      ClampPolicy
}

func DefaultOptions() Options {
	return Options{
		TimeStep: grid.DefaultTimeStep,
		Workers:  1,
		Policy:   LeaveUnchanged,
	}
}

type Engine struct {
	g     *grid.Grid
	opts  Options
	steps int
}

func New(g *grid.Grid, opts Options) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("advect: nil grid")
	}
	if math.IsNaN(opts.TimeStep) || math.IsInf(opts.TimeStep, 0) {
		return nil, fmt.Errorf("advect: time step must be finite, got %f", opts.TimeStep)
	}
	if opts.Policy != LeaveUnchanged {
		return nil, fmt.Errorf("advect: unsupported clamp policy %s", opts.Policy)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{g: g, opts: opts}, nil
}

func (e *Engine) Options() Options { return e.opts }

// SetAdvectColor toggles color advection for subsequent steps.
func (e *Engine) SetAdvectColor(on bool) { e.opts.AdvectColor = on }

// SetTimeStep changes the time step for subsequent steps. Non-finite
// values are rejected.
func (e *Engine) SetTimeStep(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("advect: time step must be finite, got %f", dt)
	}
	e.opts.TimeStep = dt
	return nil
}

// Steps is the number of completed steps since construction or the last
// ResetSteps.
func (e *Engine) Steps() int { return e.steps }

func (e *Engine) ResetSteps() { e.steps = 0 }

// Step advances the grid by one TimeStep: velocityX, then velocityY, then
// color when enabled.
func (e *Engine) Step() {
	e.snapshotVelocity()
	e.advectScalar(e.g.VelocityX)
	e.advectScalar(e.g.VelocityY)
	if e.opts.AdvectColor {
		e.advectColor()
	}
	e.steps++
}

// AdvectField advects a single scalar field along the current velocity.
func (e *Engine) AdvectField(f *grid.Field) {
	e.snapshotVelocity()
	e.advectScalar(f)
}

// AdvectColor advects the color field along the current velocity.
func (e *Engine) AdvectColor() {
	e.snapshotVelocity()
	e.advectColor()
}

// Trace displaces cell (row, col) by sign*TimeStep*velocity, using the
// velocity snapshot, and returns the cell it lands in. ok is false when
// that cell lies outside [0, CellsPerSide()) on either axis.
func (e *Engine) Trace(row, col int, sign float64) (r, c int, ok bool) {
	d := e.g.CellDim()
	scale := sign * e.opts.TimeStep * float64(d)

	pr, okRow := displace(row*d+d/2, scale*e.g.TraceY.At(row, col))
	pc, okCol := displace(col*d+d/2, scale*e.g.TraceX.At(row, col))
	if !okRow || !okCol {
		return 0, 0, false
	}

	r, c = pr/d, pc/d
	return r, c, e.g.InBounds(r, c)
}

func displace(anchor int, delta float64) (int, bool) {
	p := math.Round(float64(anchor) + delta)
	if math.IsNaN(p) || p > maxPixel || p < -maxPixel {
		return 0, false
	}
	return int(p), true
}

func (e *Engine) snapshotVelocity() {
	e.g.TraceX.CopyFrom(e.g.VelocityX)
	e.g.TraceY.CopyFrom(e.g.VelocityY)
}

func (e *Engine) advectScalar(f *grid.Field) {
	e.g.Scratch.CopyFrom(f)
	forward[float64](e, f, e.g.Scratch)
	backward[float64](e, f, e.g.Scratch)
}

func (e *Engine) advectColor() {
	e.g.ColorScratch.CopyFrom(e.g.Color)
	forward[grid.Color](e, e.g.Color, e.g.ColorScratch)
	backward[grid.Color](e, e.g.Color, e.g.ColorScratch)
}

type field[T any] interface {
	At(row, col int) T
	Set(row, col int, v T)
}

// forward scatters snapshot values to their traced destinations. Scattered
// writes may collide, so it runs sequentially in row-major order and the
// last writer wins.
func forward[T any](e *Engine, dst, snap field[T]) {
	n := e.g.CellsPerSide()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			r, c, ok := e.Trace(row, col, 1)
			if !ok {
				continue
			}
			dst.Set(r, c, snap.At(row, col))
		}
	}
}

// backward gathers each cell's value from its traced source. Every cell
// writes only itself, so rows are split across workers.
func backward[T any](e *Engine, dst, snap field[T]) {
	n := e.g.CellsPerSide()
	ParallelFor(n, e.opts.Workers, func(start, end int) {
		for row := start; row < end; row++ {
			for col := 0; col < n; col++ {
				r, c, ok := e.Trace(row, col, -1)
				if !ok {
					continue
				}
				dst.Set(row, col, snap.At(r, c))
			}
		}
	})
}
