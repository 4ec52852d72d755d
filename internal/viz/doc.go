// Package viz is the terminal presenter for gridflow.
//
// The grid is drawn with half-block glyphs, two pixel rows per terminal
// row, and the left mouse button paints activations into the next frame.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single frame while paused
//	R     - Reset to the scenario's initial state
//	C     - Toggle color advection
//	M     - Toggle motion/color render mode
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
package viz
