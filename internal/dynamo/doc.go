// Package dynamo provides the numerical primitives shared by the physics
// step and the curve predictor:
//
//   - [State]: flat vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: one fixed-size step of a numerical scheme
//
// Values are not safe for concurrent mutation; integrators keep scratch
// buffers between steps.
package dynamo
