package integrators

import "github.com/san-kum/orbitsim/internal/dynamo"

// Verlet is velocity Verlet. It expects positions in the first half of the
// state and velocities in the second, and only reads the acceleration half
// of the derivative.
type Verlet struct {
	drifted dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	pos, vel := x.Split()
	_, acc := dyn.Derive(x, t).Split()

	result := make(dynamo.State, len(x))
	newPos, newVel := result.Split()
	for i := range pos {
		newPos[i] = pos[i] + vel[i]*dt + 0.5*acc[i]*dt*dt
	}

	// the acceleration only depends on positions, so the old velocities
	// stand in for the unknown new ones
	v.drifted = append(v.drifted[:0], x...)
	copy(v.drifted, newPos)
	_, accNew := dyn.Derive(v.drifted, t+dt).Split()

	for i := range vel {
		newVel[i] = vel[i] + 0.5*(acc[i]+accNew[i])*dt
	}
	return result
}

// Leapfrog is the kick-drift-kick form of the Störmer-Verlet scheme, with the
// same state layout as Verlet.
type Leapfrog struct {
	mid dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	halfDt := 0.5 * dt
	pos, vel := x.Split()
	_, acc := dyn.Derive(x, t).Split()

	if len(l.mid) != len(x) {
		l.mid = make(dynamo.State, len(x))
	}
	midPos, midVel := l.mid.Split()
	for i := range vel {
		midVel[i] = vel[i] + acc[i]*halfDt
		midPos[i] = pos[i] + midVel[i]*dt
	}

	_, accNew := dyn.Derive(l.mid, t+dt).Split()

	result := make(dynamo.State, len(x))
	newPos, newVel := result.Split()
	copy(newPos, midPos)
	for i := range midVel {
		newVel[i] = midVel[i] + accNew[i]*halfDt
	}
	return result
}
