// Package grid owns the per-cell state of the simulation lattice.
//
// A [Grid] is a square lattice of CellsPerSide()+1 rows and columns; the
// extra row and column pad the lattice for boundary resampling. Every field
// is a flat row-major buffer behind a thin 2D accessor:
//
//   - VelocityX, VelocityY: horizontal and vertical velocity components
//   - Pressure: reserved state, never coupled into the velocity update
//   - Color: per-cell RGBA, conceptually in [0,1] but never clamped
//   - Scratch, ColorScratch: pre-step snapshots used during one advection pass
//   - TraceX, TraceY: velocity snapshot that drives trace displacements
//
// Dimensions are fixed at construction. Mutation happens through the advect
// and inject packages; the grid itself exposes only construction, reset and
// raw field access.
package grid
