package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gridflow/internal/frame"
)

// BufferToSVG draws a buffer as one rect per horizontal run of equal
// pixels. Each pixel becomes a scale x scale square.
func BufferToSVG(buf *frame.Buffer, scale float64) string {
	if buf == nil {
		return ""
	}

	width := float64(buf.Width) * scale
	height := float64(buf.Height) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
`, width, height, width, height))

	for y := 0; y < buf.Height; y++ {
		top := float64(buf.Height-1-y) * scale
		start := 0
		for x := 1; x <= buf.Width; x++ {
			if x < buf.Width && buf.At(x, y) == buf.At(start, y) {
				continue
			}
			c := ColorRGBA(buf.At(start, y))
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#%02x%02x%02x"/>
`, float64(start)*scale, top, float64(x-start)*scale, scale, c.R, c.G, c.B))
			start = x
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots a per-frame series as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000a1c"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
