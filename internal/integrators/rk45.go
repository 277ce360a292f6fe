package integrators

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Dormand-Prince tableau
var (
	dpC = [7]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	}
	// fifth order weights minus the embedded fourth order ones
	dpE = [7]float64{
		35.0/384.0 - 5179.0/57600.0,
		0,
		500.0/1113.0 - 7571.0/16695.0,
		125.0/192.0 - 393.0/640.0,
		-2187.0/6784.0 + 92097.0/339200.0,
		11.0/84.0 - 187.0/2100.0,
		-1.0 / 40.0,
	}
)

const (
	DefaultRK45Tolerance   = 1e-6
	DefaultRK45MaxSubsteps = 64
)

// RK45 is the Dormand-Prince embedded pair. Each Step covers the full dt
// but splits it into smaller substeps wherever the local error estimate
// exceeds Tolerance, which keeps close encounters accurate without
// shrinking the host timestep. Every Step starts from dt again, so the
// result depends only on its inputs.
type RK45 struct {
	Tolerance   float64
	MaxSubsteps int

	// Substeps is the number of accepted substeps in the last Step.
	Substeps int

	safety   float64
	minScale float64
	maxScale float64
	k        [7]dynamo.State
	stage    dynamo.State
}

func NewRK45() *RK45 {
	return &RK45{
		Tolerance:   DefaultRK45Tolerance,
		MaxSubsteps: DefaultRK45MaxSubsteps,
		safety:      0.9,
		minScale:    0.2,
		maxScale:    5.0,
	}
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	r.Substeps = 0
	minStep := dt / float64(max(r.MaxSubsteps, 1))

	cur := x
	remaining, h := dt, dt
	for remaining > 1e-12*dt {
		h = min(h, remaining)
		next, errRatio := r.attempt(dyn, cur, t, h)

		if errRatio <= 1 || h <= minStep || math.IsNaN(errRatio) {
			cur = next
			t += h
			remaining -= h
			r.Substeps++
			if math.IsNaN(errRatio) {
				// let the caller see the invalid state
				return cur
			}
		}
		h = max(h*r.scale(errRatio), minStep)
	}
	return cur
}

// attempt takes one Dormand-Prince step and returns it with the error
// estimate relative to the tolerance.
func (r *RK45) attempt(dyn dynamo.System, x dynamo.State, t, h float64) (dynamo.State, float64) {
	n := len(x)
	if len(r.stage) != n {
		r.stage = make(dynamo.State, n)
	}

	r.k[0] = dyn.Derive(x, t)
	var next dynamo.State
	for s := 1; s < 7; s++ {
		stage := r.stage
		if s == 6 {
			stage = make(dynamo.State, n)
		}
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < s; j++ {
				sum += dpA[s][j] * r.k[j][i]
			}
			stage[i] = x[i] + h*sum
		}
		if s == 6 {
			next = stage
		}
		r.k[s] = dyn.Derive(stage, t+dpC[s]*h)
	}

	errMax := 0.0
	for i := 0; i < n; i++ {
		est := 0.0
		for s := 0; s < 7; s++ {
			est += dpE[s] * r.k[s][i]
		}
		scale := math.Abs(x[i]) + math.Abs(h*r.k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(h*est)/scale)
	}
	return next, errMax / r.Tolerance
}

func (r *RK45) scale(errRatio float64) float64 {
	switch {
	case math.IsNaN(errRatio):
		return 1
	case errRatio > 1:
		return math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		return math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	default:
		return r.maxScale
	}
}
