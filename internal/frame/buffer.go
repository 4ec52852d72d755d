// Package frame implements the pixel buffer contract shared by the
// rasterizer and the presenters: width x height RGBA float pixels, row-major,
// origin at the bottom-left.
package frame

import (
	"fmt"

	"github.com/san-kum/gridflow/internal/grid"
)

type Buffer struct {
	Width, Height int
	Data          []float32
}

func NewBuffer(width, height int) (*Buffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: buffer %dx%d", grid.ErrInvalidDimensions, width, height)
	}
	return &Buffer{Width: width, Height: height, Data: make([]float32, 4*width*height)}, nil
}

// Len is the pixel count.
func (b *Buffer) Len() int { return b.Width * b.Height }

func (b *Buffer) Pixel(i int) grid.Color {
	o := 4 * i
	return grid.Color{b.Data[o], b.Data[o+1], b.Data[o+2], b.Data[o+3]}
}

func (b *Buffer) SetPixel(i int, c grid.Color) {
	o := 4 * i
	b.Data[o], b.Data[o+1], b.Data[o+2], b.Data[o+3] = c[0], c[1], c[2], c[3]
}

// At returns the pixel at column x, row y, counted from the bottom-left.
func (b *Buffer) At(x, y int) grid.Color { return b.Pixel(y*b.Width + x) }

func (b *Buffer) Clear(c grid.Color) {
	for i := 0; i < len(b.Data); i += 4 {
		b.Data[i], b.Data[i+1], b.Data[i+2], b.Data[i+3] = c[0], c[1], c[2], c[3]
	}
}

// Clone returns an independent copy.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{Width: b.Width, Height: b.Height, Data: make([]float32, len(b.Data))}
	copy(c.Data, b.Data)
	return c
}

// CellOf maps a pixel index to its owning cell for an image of the given
// width: row = (i / width) / cellDim, col = (i % width) / cellDim.
func CellOf(i, width, cellDim int) (row, col int) {
	return (i / width) / cellDim, (i % width) / cellDim
}
