package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/gridflow/internal/export"
	"github.com/san-kum/gridflow/internal/frame"
	"github.com/san-kum/gridflow/internal/grid"
)

const upperHalf = "▀"

// Canvas samples a pixel buffer onto terminal cells. Each cell shows two
// vertically stacked samples, stride pixels apart.
type Canvas struct {
	Cols, Rows int
	stride     int
	height     int
}

// NewCanvas fits a width x height buffer into at most maxCols columns.
func NewCanvas(width, height, maxCols int) *Canvas {
	stride := 1
	if maxCols > 0 && width > maxCols {
		stride = (width + maxCols - 1) / maxCols
	}
	rowsPx := (height + stride - 1) / stride
	return &Canvas{
		Cols:   (width + stride - 1) / stride,
		Rows:   (rowsPx + 1) / 2,
		stride: stride,
		height: height,
	}
}

func (c *Canvas) Stride() int { return c.stride }

// WindowRect returns the top-left window pixel and the pixel extent covered
// by the given terminal cell. Window pixels have a top-left origin.
func (c *Canvas) WindowRect(col, row int) (x, y, w, h int) {
	return col * c.stride, 2 * row * c.stride, c.stride, 2 * c.stride
}

// Render draws buf. Samples below the buffer are drawn blank.
func (c *Canvas) Render(buf *frame.Buffer, blank grid.Color) string {
	cache := make(map[[2]grid.Color]lipgloss.Style)
	var sb strings.Builder
	for row := 0; row < c.Rows; row++ {
		for col := 0; col < c.Cols; col++ {
			x := col * c.stride
			pair := [2]grid.Color{c.sample(buf, x, 2*row*c.stride, blank), c.sample(buf, x, (2*row+1)*c.stride, blank)}
			st, ok := cache[pair]
			if !ok {
				st = lipgloss.NewStyle().Foreground(hex(pair[0])).Background(hex(pair[1]))
				cache[pair] = st
			}
			sb.WriteString(st.Render(upperHalf))
		}
		if row < c.Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (c *Canvas) sample(buf *frame.Buffer, x, windowY int, blank grid.Color) grid.Color {
	if windowY >= c.height || x >= buf.Width {
		return blank
	}
	return buf.At(x, c.height-1-windowY)
}

func hex(c grid.Color) lipgloss.Color {
	rgba := export.ColorRGBA(c)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B))
}
