package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/san-kum/orbitsim/internal/debug"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/predict"
	"github.com/san-kum/orbitsim/internal/state"
)

type Options struct {
	Integrator     string
	Dt             float64
	G              float64
	Softening      float64
	CurvePlots     int
	CurveStride    int
	CheckEvery     int
	FaultTolerance float64
}

func DefaultOptions() Options {
	return Options{
		Integrator:     "rk4",
		Dt:             0.01,
		G:              physics.DefaultG,
		Softening:      physics.DefaultSoftening,
		CurvePlots:     predict.DefaultPlots,
		CurveStride:    predict.DefaultStride,
		CheckEvery:     predict.DefaultStride,
		FaultTolerance: 0.1,
	}
}

// Observer is notified after every tick that advanced the simulation.
type Observer interface {
	OnTick(info debug.ComputeInfo)
}

// Loop is the host update loop: it advances physics, keeps curves in step
// with the bodies and recomputes them when they go stale.
type Loop struct {
	State *state.State

	opts      Options
	gravity   *physics.Gravity
	integ     dynamo.Integrator
	predictor *predict.Predictor
	logger    log.Logger
	observers []Observer

	time       float64
	sinceCurve int
	sinceCheck int
}

func New(st *state.State, opts Options, logger log.Logger) (*Loop, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	integ, err := integrators.New(opts.Integrator)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	g := physics.NewGravity(st.Drawables.Bodies)
	g.G = opts.G
	g.Softening = opts.Softening

	p := predict.New(opts.Integrator, opts.Dt)
	p.G = opts.G
	p.Softening = opts.Softening
	p.Plots = opts.CurvePlots
	p.Stride = opts.CurveStride

	return &Loop{
		State:     st,
		opts:      opts,
		gravity:   g,
		integ:     integ,
		predictor: p,
		logger:    log.With(logger, "subsys", "sim"),
	}, nil
}

func validateOptions(opts Options) error {
	if opts.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", opts.Dt)
	}
	if opts.CurveStride < 1 {
		return fmt.Errorf("curve stride must be at least 1, got %d", opts.CurveStride)
	}
	if opts.CheckEvery < 1 {
		return fmt.Errorf("check cadence must be at least 1, got %d", opts.CheckEvery)
	}
	return nil
}

func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

func (l *Loop) Options() Options { return l.opts }
func (l *Loop) Time() float64    { return l.time }

// Tick advances one physics step unless paused. Curves are advanced in
// lockstep, checked for mismatch on plot boundaries at least every
// CheckEvery steps, and recomputed when missing, exhausted or stale.
func (l *Loop) Tick(ctx context.Context) error {
	st := l.State
	if st.Pause {
		return nil
	}

	d := &st.Drawables
	if len(d.Bodies) != l.gravity.NumBodies() {
		l.bodiesChanged()
	}
	// bodies may be swapped or edited in place without a count change
	l.gravity.SetMasses(d.Bodies)

	start := time.Now()
	if err := l.gravity.Step(l.integ, d.Bodies, l.time, l.opts.Dt); err != nil {
		level.Error(l.logger).Log("msg", "physics step failed", "step", st.DebugInfo.PhysicsSteps, "t", l.time, "err", err)
		return &dynamo.SimulationError{Step: st.DebugInfo.PhysicsSteps, Time: l.time, Wrapped: err}
	}
	l.time += l.opts.Dt
	st.DebugInfo.RecordPhysics(time.Since(start), l.opts.Dt)

	l.sinceCurve++
	l.sinceCheck++
	aligned := l.sinceCurve%l.opts.CurveStride == 0
	if aligned {
		d.AdvanceCurves()
	}

	stale := len(d.Curves) == 0 || d.ShortestCurve() < 2
	if !stale && aligned && l.sinceCheck >= l.opts.CheckEvery {
		l.sinceCheck = 0
		checkStart := time.Now()
		stale = d.CurveBodyMismatch(l.opts.FaultTolerance)
		st.DebugInfo.LastMismatchCheck = time.Since(checkStart)
		if stale {
			level.Info(l.logger).Log("msg", "curves diverged from bodies", "t", l.time, "tolerance", l.opts.FaultTolerance)
		}
	}

	if stale {
		if err := l.RecomputeCurves(ctx); err != nil {
			return err
		}
	}

	st.DebugInfo.Energy = l.gravity.BodyEnergy(d.Bodies)
	for _, o := range l.observers {
		o.OnTick(st.DebugInfo)
	}
	return nil
}

// RecomputeCurves replaces every curve with a fresh prediction from the
// current bodies.
func (l *Loop) RecomputeCurves(ctx context.Context) error {
	start := time.Now()
	curves, err := l.predictor.Predict(ctx, l.State.Drawables.Bodies)
	if err != nil && curves == nil {
		return fmt.Errorf("recompute curves: %w", err)
	}
	if err != nil {
		level.Warn(l.logger).Log("msg", "prediction truncated", "err", err)
	}

	l.State.Drawables.SetCurves(curves)
	l.sinceCurve = 0
	l.sinceCheck = 0
	l.State.DebugInfo.RecordCurves(time.Since(start))
	level.Debug(l.logger).Log("msg", "curves recomputed", "bodies", len(curves), "took", time.Since(start))
	return nil
}

// Reset reinstalls the scenario and starts the clock over.
func (l *Loop) Reset() {
	l.State.Reset()
	l.time = 0
	l.bodiesChanged()
	level.Info(l.logger).Log("msg", "reset", "scenario", l.State.Scenario().Name)
}

// LoadScenario switches the state to a different starting configuration.
func (l *Loop) LoadScenario(s orbit.Scenario) {
	l.State.ResetTo(s)
	l.time = 0
	l.bodiesChanged()
	level.Info(l.logger).Log("msg", "scenario loaded", "scenario", s.Name, "bodies", len(s.Bodies))
}

func (l *Loop) AddBody(b orbit.Body) {
	l.State.Drawables.Bodies = append(l.State.Drawables.Bodies, b)
	l.bodiesChanged()
}

// RemoveBody drops the body with id. It reports whether the body existed.
func (l *Loop) RemoveBody(id uuid.UUID) bool {
	bodies := l.State.Drawables.Bodies
	for i, b := range bodies {
		if b.ID == id {
			l.State.Drawables.Bodies = append(bodies[:i], bodies[i+1:]...)
			l.bodiesChanged()
			return true
		}
	}
	return false
}

// bodiesChanged reloads masses and drops curves, since positional pairing
// with the old body list no longer holds.
func (l *Loop) bodiesChanged() {
	l.gravity.SetMasses(l.State.Drawables.Bodies)
	l.State.Drawables.ClearCurves()
	l.sinceCurve = 0
	l.sinceCheck = 0
}
