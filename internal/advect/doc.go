// Package advect advances grid fields by one semi-Lagrangian step.
//
// Each advected field is first copied into its scratch buffer. A forward
// pass then displaces every cell by +TimeStep*velocity and writes the
// cell's snapshot value into the destination; a backward pass displaces
// every cell by -TimeStep*velocity and reads the snapshot value found at
// the source. Both passes read the same snapshot, so the backward pass is
// the final write for any cell it reaches.
//
// Positions are resolved to the nearest pixel with round-half-away-from-zero
// and mapped to cells with truncating integer division by the cell size.
// A trace that leaves the grid is resolved by [LeaveUnchanged]: the
// destination keeps whatever value it currently holds.
//
// Trace displacements read the velocity snapshot taken at the start of
// [Engine.Step], never partially advected velocities.
package advect
