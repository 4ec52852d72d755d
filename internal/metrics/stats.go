// Package metrics measures grid state once per frame.
package metrics

import (
	"math"

	"github.com/san-kum/gridflow/internal/grid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameStats summarises the addressable cells after one frame.
type FrameStats struct {
	Frame       int     `csv:"frame" json:"frame"`
	MovingCells int     `csv:"moving_cells" json:"moving_cells"`
	PeakSpeed   float64 `csv:"peak_speed" json:"peak_speed"`
	MeanSpeed   float64 `csv:"mean_speed" json:"mean_speed"`
	Coverage    float64 `csv:"coverage" json:"coverage"`
}

// Measure computes FrameStats over the addressable cells of g.
func Measure(g *grid.Grid, frame int) FrameStats {
	n := g.CellsPerSide()
	speeds := make([]float64, 0, n*n)
	moving, painted := 0, 0

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			speeds = append(speeds, math.Hypot(g.VelocityX.At(row, col), g.VelocityY.At(row, col)))
			if g.Moving(row, col) {
				moving++
			}
			if g.Color.At(row, col) != grid.Background {
				painted++
			}
		}
	}

	return FrameStats{
		Frame:       frame,
		MovingCells: moving,
		PeakSpeed:   floats.Max(speeds),
		MeanSpeed:   stat.Mean(speeds, nil),
		Coverage:    float64(painted) / float64(len(speeds)),
	}
}
