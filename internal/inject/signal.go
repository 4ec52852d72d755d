package inject

import (
	"math"
	"sort"
)

// Signal is the producer side of the activation channel: one flag per
// pixel, set by the host input layer and cleared once consumed.
type Signal struct {
	width, height int
	active        []bool
}

func NewSignal(width, height int) *Signal {
	return &Signal{width: width, height: height, active: make([]bool, width*height)}
}

// MarkXY flags the pixel under window coordinates (x, y) with a top-left
// origin. The buffer origin is bottom-left, so rows are flipped. Points
// outside the window are ignored.
func (s *Signal) MarkXY(x, y int) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return
	}
	s.active[(s.height-y-1)*s.width+x] = true
}

// MarkIndex flags a pixel by index; out-of-range indices are ignored.
func (s *Signal) MarkIndex(i int) {
	if i >= 0 && i < len(s.active) {
		s.active[i] = true
	}
}

// MarkDisc flags every pixel within radius of (cx, cy) in buffer
// coordinates (bottom-left origin). Only the part of the bounding box that
// overlaps the image is visited, and distances are compared in float64.
func (s *Signal) MarkDisc(cx, cy, radius int) {
	if radius < 0 {
		return
	}
	r := float64(radius)
	y0, y1 := span(float64(cy), r, s.height)
	x0, x1 := span(float64(cx), r, s.width)
	r2 := r * r
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)-float64(cx), float64(y)-float64(cy)
			if dx*dx+dy*dy <= r2 {
				s.active[y*s.width+x] = true
			}
		}
	}
}

// span clamps [c-r, c+r] to [0, n-1]; the result is empty (lo > hi) when
// the interval misses the image.
func span(c, r float64, n int) (lo, hi int) {
	l, h := math.Ceil(c-r), math.Floor(c+r)
	if h < 0 || l > float64(n-1) {
		return 0, -1
	}
	return int(max(l, 0)), int(min(h, float64(n-1)))
}

// Mask exposes the raw flags.
func (s *Signal) Mask() []bool { return s.active }

// Indices returns the active pixel indices in ascending order.
func (s *Signal) Indices() []int {
	out := make([]int, 0)
	for i, on := range s.active {
		if on {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func (s *Signal) Empty() bool {
	for _, on := range s.active {
		if on {
			return false
		}
	}
	return true
}

func (s *Signal) Reset() {
	for i := range s.active {
		s.active[i] = false
	}
}
