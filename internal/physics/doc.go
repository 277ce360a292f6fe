// Package physics advances orbit bodies under mutual Newtonian gravity.
//
// Bodies are packed into a flat [dynamo.State] with all positions first
// and all velocities second:
//
//	[x0, y0, x1, y1, ..., vx0, vy0, vx1, vy1, ...]
//
// which is the split the symplectic integrators expect.
package physics
