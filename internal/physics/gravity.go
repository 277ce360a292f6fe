package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/orbit"
)

const (
	DefaultG         = 0.01
	DefaultSoftening = 0.05
)

// Gravity is the N-body system for a fixed set of masses.
type Gravity struct {
	Masses    []float64
	G         float64
	Softening float64
}

// NewGravity uses DefaultG and DefaultSoftening; callers override as needed.
func NewGravity(bodies []orbit.Body) *Gravity {
	g := &Gravity{G: DefaultG, Softening: DefaultSoftening}
	g.SetMasses(bodies)
	return g
}

// SetMasses reloads masses when the body set changes.
func (g *Gravity) SetMasses(bodies []orbit.Body) {
	if cap(g.Masses) >= len(bodies) {
		g.Masses = g.Masses[:len(bodies)]
	} else {
		g.Masses = make([]float64, len(bodies))
	}
	for i, b := range bodies {
		g.Masses[i] = b.Mass
	}
}

func (g *Gravity) NumBodies() int { return len(g.Masses) }
func (g *Gravity) StateDim() int  { return len(g.Masses) * 4 }

func (g *Gravity) Derive(x dynamo.State, t float64) dynamo.State {
	n := g.NumBodies()
	dx := make(dynamo.State, len(x))
	_, vel := x.Split()
	dpos, acc := dx.Split()
	copy(dpos, vel)

	eps2 := g.Softening * g.Softening

	for i := 0; i < n; i++ {
		xi, yi := x[2*i], x[2*i+1]

		for j := i + 1; j < n; j++ {
			rx := x[2*j] - xi
			ry := x[2*j+1] - yi
			dist2 := rx*rx + ry*ry + eps2

			rInv := 1.0 / math.Sqrt(dist2)
			r3Inv := rInv * rInv * rInv

			fij := g.G * g.Masses[j] * r3Inv
			acc[2*i] += fij * rx
			acc[2*i+1] += fij * ry

			fji := g.G * g.Masses[i] * r3Inv
			acc[2*j] -= fji * rx
			acc[2*j+1] -= fji * ry
		}
	}

	return dx
}

func (g *Gravity) Energy(x dynamo.State) float64 {
	n := g.NumBodies()
	_, vel := x.Split()
	ke := 0.0
	pe := 0.0

	for i := 0; i < n; i++ {
		vx, vy := vel[2*i], vel[2*i+1]
		ke += 0.5 * g.Masses[i] * (vx*vx + vy*vy)

		for j := i + 1; j < n; j++ {
			rx := x[2*j] - x[2*i]
			ry := x[2*j+1] - x[2*i+1]
			r := math.Sqrt(rx*rx + ry*ry + g.Softening*g.Softening)
			pe -= g.G * g.Masses[i] * g.Masses[j] / r
		}
	}

	return ke + pe
}

// Pack flattens body positions and velocities into a state vector.
func Pack(bodies []orbit.Body) dynamo.State {
	x := make(dynamo.State, 4*len(bodies))
	pos, vel := x.Split()
	for i, b := range bodies {
		pos[2*i], pos[2*i+1] = b.Center.X, b.Center.Y
		vel[2*i], vel[2*i+1] = b.Velocity.X, b.Velocity.Y
	}
	return x
}

// Unpack writes a state vector back into bodies, leaving ids, radii and
// masses untouched.
func Unpack(x dynamo.State, bodies []orbit.Body) error {
	n := len(bodies)
	if len(x) != 4*n {
		return fmt.Errorf("%w: state has %d values for %d bodies", dynamo.ErrDimensionMismatch, len(x), n)
	}
	pos, vel := x.Split()
	for i := range bodies {
		bodies[i].Center = r2.Vec{X: pos[2*i], Y: pos[2*i+1]}
		bodies[i].Velocity = r2.Vec{X: vel[2*i], Y: vel[2*i+1]}
	}
	return nil
}

// Step advances bodies in place by dt. Bodies are left unchanged when the
// step produces a non-finite state.
func (g *Gravity) Step(integ dynamo.Integrator, bodies []orbit.Body, t, dt float64) error {
	if len(bodies) != g.NumBodies() {
		return fmt.Errorf("%w: %d bodies for %d masses", dynamo.ErrDimensionMismatch, len(bodies), g.NumBodies())
	}
	x := integ.Step(g, Pack(bodies), t, dt)
	if !x.IsValid() {
		return dynamo.ErrInvalidState
	}
	return Unpack(x, bodies)
}

// BodyEnergy is the total energy of the bodies as they stand.
func (g *Gravity) BodyEnergy(bodies []orbit.Body) float64 {
	return g.Energy(Pack(bodies))
}
