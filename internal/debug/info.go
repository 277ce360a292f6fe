// Package debug collects compute timings for display and export.
package debug

import "time"

// ComputeInfo is a running summary of the host loop's work. The simulation
// core stores it but never reads it.
type ComputeInfo struct {
	PhysicsSteps      int
	CurveRecomputes   int
	LastPhysics       time.Duration
	TotalPhysics      time.Duration
	LastCurveCompute  time.Duration
	LastMismatchCheck time.Duration
	Energy            float64
	SimTime           float64
}

func Initial() ComputeInfo {
	return ComputeInfo{}
}

func (c *ComputeInfo) RecordPhysics(d time.Duration, dt float64) {
	c.PhysicsSteps++
	c.LastPhysics = d
	c.TotalPhysics += d
	c.SimTime += dt
}

func (c *ComputeInfo) RecordCurves(d time.Duration) {
	c.CurveRecomputes++
	c.LastCurveCompute = d
}

// MeanPhysics returns the average physics step duration.
func (c ComputeInfo) MeanPhysics() time.Duration {
	if c.PhysicsSteps == 0 {
		return 0
	}
	return c.TotalPhysics / time.Duration(c.PhysicsSteps)
}
