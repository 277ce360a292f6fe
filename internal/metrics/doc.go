// Package metrics holds run summaries that observe the simulation loop
// tick by tick.
package metrics

import "github.com/san-kum/orbitsim/internal/debug"

// Metric is a named summary fed by loop ticks.
type Metric interface {
	Name() string
	OnTick(info debug.ComputeInfo)
	Value() float64
	Reset()
}
