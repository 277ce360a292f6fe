package integrators

import "github.com/san-kum/orbitsim/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta scheme.
type RK4 struct {
	stage dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	half := 0.5 * dt

	k1 := dyn.Derive(x, t)
	r.stage = dynamo.AddScaled(r.stage, x, half, k1)
	k2 := dyn.Derive(r.stage, t+half)
	r.stage = dynamo.AddScaled(r.stage, x, half, k2)
	k3 := dyn.Derive(r.stage, t+half)
	r.stage = dynamo.AddScaled(r.stage, x, dt, k3)
	k4 := dyn.Derive(r.stage, t+dt)

	result := make(dynamo.State, len(x))
	dt6 := dt / 6.0
	for i := range x {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}
