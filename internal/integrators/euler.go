package integrators

import "github.com/san-kum/orbitsim/internal/dynamo"

// Euler is the explicit first-order scheme. It drifts quickly on orbits and
// is kept as a baseline.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	return dynamo.AddScaled(nil, x, dt, dyn.Derive(x, t))
}
