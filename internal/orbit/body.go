package orbit

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a gravitating disc. ID, Radius and Mass are fixed at creation;
// Center and Velocity are advanced by the physics step.
type Body struct {
	ID       uuid.UUID
	Center   r2.Vec
	Radius   float64
	Mass     float64
	Velocity r2.Vec
}

// NewBody returns a body with a fresh random identifier.
func NewBody(center r2.Vec, radius, mass float64, velocity r2.Vec) Body {
	return Body{
		ID:       uuid.New(),
		Center:   center,
		Radius:   radius,
		Mass:     mass,
		Velocity: velocity,
	}
}

// Curve is a predicted trajectory for one body. Plots[0] is the nearest-term
// point and is compared against the body's current center.
type Curve struct {
	Plots []r2.Vec
}

func (c Curve) Len() int { return len(c.Plots) }


// Advance drops the nearest-term plot once the simulation has reached it.
func (c *Curve) Advance() {
	if len(c.Plots) > 0 {
		c.Plots = c.Plots[1:]
	}
}
