package metrics

import "github.com/san-kum/orbitsim/internal/debug"

// RecomputeRate counts curve recomputes per thousand physics steps. A stable
// prediction keeps it near zero.
type RecomputeRate struct {
	steps      int
	recomputes int
}

func NewRecomputeRate() *RecomputeRate {
	return &RecomputeRate{}
}

func (r *RecomputeRate) Name() string { return "recomputes_per_1k_steps" }

func (r *RecomputeRate) OnTick(info debug.ComputeInfo) {
	r.steps = info.PhysicsSteps
	r.recomputes = info.CurveRecomputes
}

func (r *RecomputeRate) Value() float64 {
	if r.steps == 0 {
		return 0
	}
	return 1000 * float64(r.recomputes) / float64(r.steps)
}

func (r *RecomputeRate) Reset() {
	*r = RecomputeRate{}
}
