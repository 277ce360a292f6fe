// Package state holds the simulation state together with the top-down
// camera that maps between screen pixels and world space.
//
// Screen space has its origin at the top-left pixel with y growing down.
// World space is y-up and centred on [State.Origin]; the visible window is
// 2*Zoom high and 2*Zoom*AspectRatio wide:
//
//	(0,0)                    (-a*z, z)
//	    ┌─┐                      ┌─┐
//	    └─┘            ->        └─┘
//	       (w, h)                   (a*z, -z)
//
// All methods are total. Degenerate screen sizes propagate as Inf/NaN.
package state
