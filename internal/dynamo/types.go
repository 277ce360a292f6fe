package dynamo

import (
	"math"
)

// State is a flat vector of generalized coordinates. Second-order systems lay
// out positions in the first half and velocities in the second.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Split returns the position and velocity halves. Both share storage with s.
func (s State) Split() (pos, vel State) {
	half := len(s) / 2
	return s[:half:half], s[half:]
}

// AddScaled stores x + h*dx in dst, growing dst when it is too short, and
// returns it. dst may alias x.
func AddScaled(dst, x State, h float64, dx State) State {
	if len(dst) < len(x) {
		dst = make(State, len(x))
	}
	dst = dst[:len(x)]
	for i := range x {
		dst[i] = x[i] + h*dx[i]
	}
	return dst
}

// System is an ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Integrator advances a system by one step of size dt. Implementations may
// keep scratch buffers between calls but must not let them change the result.
type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}
