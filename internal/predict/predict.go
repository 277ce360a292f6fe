// Package predict precomputes orbit curves by integrating a copy of the
// bodies ahead of the live simulation.
package predict

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	DefaultPlots  = 400
	DefaultStride = 5
)

// Predictor produces one curve per body. Plot k of a curve is the body's
// position Stride*k steps of size Dt after the prediction starts, so plot 0
// is the current center.
type Predictor struct {
	Integrator string
	G          float64
	Softening  float64
	Dt         float64
	Plots      int
	Stride     int
}

func New(integrator string, dt float64) *Predictor {
	return &Predictor{
		Integrator: integrator,
		G:          physics.DefaultG,
		Softening:  physics.DefaultSoftening,
		Dt:         dt,
		Plots:      DefaultPlots,
		Stride:     DefaultStride,
	}
}

// Predict integrates a private copy of bodies and returns curves indexed like
// bodies. The input slice is not modified.
func (p *Predictor) Predict(ctx context.Context, bodies []orbit.Body) ([]orbit.Curve, error) {
	if p.Dt <= 0 {
		return nil, fmt.Errorf("predict: dt must be positive, got %f", p.Dt)
	}
	if p.Stride <= 0 {
		return nil, fmt.Errorf("predict: stride must be positive, got %d", p.Stride)
	}

	integ, err := integrators.New(p.Integrator)
	if err != nil {
		return nil, err
	}

	n := len(bodies)
	curves := make([]orbit.Curve, n)
	if n == 0 || p.Plots <= 0 {
		return curves, nil
	}
	for i := range curves {
		curves[i].Plots = make([]r2.Vec, 0, p.Plots)
	}

	g := physics.NewGravity(bodies)
	g.G = p.G
	g.Softening = p.Softening

	x := physics.Pack(bodies)
	t := 0.0
	record := func() {
		for i := range curves {
			curves[i].Plots = append(curves[i].Plots, r2.Vec{X: x[2*i], Y: x[2*i+1]})
		}
	}
	record()

	for k := 1; k < p.Plots; k++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for s := 0; s < p.Stride; s++ {
			x = integ.Step(g, x, t, p.Dt)
			t += p.Dt
		}
		if !x.IsValid() {
			// keep what was predicted before the state diverged
			return curves, &dynamo.SimulationError{Step: k * p.Stride, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
		record()
	}

	return curves, nil
}
