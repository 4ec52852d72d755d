package sim

import (
	"fmt"

	"github.com/san-kum/gridflow/internal/frame"
	"github.com/san-kum/gridflow/internal/grid"
	"github.com/san-kum/gridflow/internal/inject"
	"github.com/san-kum/gridflow/internal/metrics"
	"github.com/san-kum/gridflow/internal/raster"
)

type Metric interface {
	Name() string
	Observe(g *grid.Grid, frame int)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(buf *frame.Buffer, g *grid.Grid, frame int)
}

type Config struct {
	Width, Height     int
	CellDim           int
	TimeStep          float64
	AdvectColor       bool
	Mode              raster.Mode
	Workers           int
	InjectionVelocity float64
}

func DefaultConfig() Config {
	return Config{
		Width:             64,
		Height:            64,
		CellDim:           grid.DefaultCellDim,
		TimeStep:          grid.DefaultTimeStep,
		Mode:              raster.MotionMode,
		Workers:           1,
		InjectionVelocity: inject.DefaultVelocity,
	}
}

// Schedule maps a frame index to the pixel indices activated on that frame.
type Schedule map[int][]int

type Result struct {
	Frames  int
	Stats   []metrics.FrameStats
	Metrics map[string]float64
}

// FrameError wraps a failure with the frame it happened on.
type FrameError struct {
	Frame   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
