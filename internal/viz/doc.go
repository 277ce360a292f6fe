// Package viz is the terminal viewer for the orbit simulation.
//
// The viewer is a Bubble Tea program:
//
//   - [Model]: drives a [sim.Loop] on a timer and handles input
//   - [Canvas]: braille pixel canvas, two by four subpixels per cell
//   - [Render]: projects bodies and curves through the camera matrices
//
// # Key Bindings
//
//	Arrows/HJKL - Pan
//	+/-         - Zoom
//	Space       - Pause/Resume
//	C           - Toggle predicted curves
//	R           - Reset the scenario
//	T           - Cycle color themes
//	Q           - Quit
//
// A left click recenters the camera on the clicked world point.
package viz
