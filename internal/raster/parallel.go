package raster

import "github.com/san-kum/gridflow/internal/advect"

// parallelRows shares the advection engine's row splitter; every pixel row
// is written by exactly one worker.
func parallelRows(n, workers int, fn func(start, end int)) {
	advect.ParallelFor(n, workers, fn)
}
