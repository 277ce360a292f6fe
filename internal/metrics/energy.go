package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/debug"
)

// EnergyDrift tracks the largest relative departure of the total energy from
// its first observed value.
type EnergyDrift struct {
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) OnTick(info debug.ComputeInfo) {
	if e.samples == 0 {
		e.initial = info.Energy
	}
	e.current = info.Energy
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(info.Energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Final is the signed relative drift of the latest sample.
func (e *EnergyDrift) Final() float64 {
	if e.initial == 0 {
		return 0
	}
	return (e.current - e.initial) / math.Abs(e.initial)
}

func (e *EnergyDrift) Reset() {
	*e = EnergyDrift{}
}
