package grid

// Color is an RGBA value with float channels.
type Color [4]float32

var (
	// Background is the dark tint every cell starts with.
	Background = Color{0, 0.0392, 0.1098, 1}
	// White is opaque white.
	White = Color{1, 1, 1, 1}
)
