package sim

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Trace is a sampled record of a headless run.
type Trace struct {
	Times      []float64
	Energies   []float64
	Positions  [][]r2.Vec
	Recomputes int
	Steps      int
}

// Run ticks the loop steps times, sampling every sampleEvery steps, and
// ignores the pause flag.
func (l *Loop) Run(ctx context.Context, steps, sampleEvery int) (*Trace, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}
	if sampleEvery <= 0 {
		sampleEvery = 1
	}

	l.State.Pause = false
	trace := &Trace{
		Times:     make([]float64, 0, steps/sampleEvery+1),
		Energies:  make([]float64, 0, steps/sampleEvery+1),
		Positions: make([][]r2.Vec, 0, steps/sampleEvery+1),
	}
	startRecomputes := l.State.DebugInfo.CurveRecomputes

	l.sample(trace)
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return trace, ctx.Err()
		default:
		}

		if err := l.Tick(ctx); err != nil {
			return trace, err
		}
		trace.Steps++
		if i%sampleEvery == 0 {
			l.sample(trace)
		}
	}

	trace.Recomputes = l.State.DebugInfo.CurveRecomputes - startRecomputes
	return trace, nil
}

func (l *Loop) sample(trace *Trace) {
	bodies := l.State.Drawables.Bodies
	pos := make([]r2.Vec, len(bodies))
	for i, b := range bodies {
		pos[i] = b.Center
	}
	trace.Times = append(trace.Times, l.time)
	trace.Energies = append(trace.Energies, l.gravity.BodyEnergy(bodies))
	trace.Positions = append(trace.Positions, pos)
}
