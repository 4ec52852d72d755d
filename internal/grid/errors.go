package grid

import "errors"

// Domain errors shared by the grid, injector and rasterizer.
var (
	// ErrInvalidDimensions indicates an image or cell size that cannot form a lattice.
	ErrInvalidDimensions = errors.New("grid: invalid dimensions")

	// ErrLengthMismatch indicates an input array whose length differs from width*height.
	ErrLengthMismatch = errors.New("grid: input length does not match pixel count")

	// ErrPixelOutOfRange indicates a pixel index outside [0, width*height).
	ErrPixelOutOfRange = errors.New("grid: pixel index out of range")

	// ErrBufferMismatch indicates a pixel buffer whose dimensions do not match the grid.
	ErrBufferMismatch = errors.New("grid: pixel buffer does not match grid")
)
