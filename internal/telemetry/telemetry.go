// Package telemetry exports simulation compute statistics to Prometheus.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/orbitsim/internal/debug"
)

// Collector is a sim observer that mirrors debug.ComputeInfo into metrics.
type Collector struct {
	registry *prometheus.Registry

	steps        prometheus.Counter
	recomputes   prometheus.Counter
	stepSeconds  prometheus.Histogram
	curveSeconds prometheus.Gauge
	energy       prometheus.Gauge
	simTime      prometheus.Gauge

	lastSteps      int
	lastRecomputes int
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orbitsim",
			Name:      "physics_steps_total",
			Help:      "Physics steps taken.",
		}),
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orbitsim",
			Name:      "curve_recomputes_total",
			Help:      "Orbit curve predictions computed.",
		}),
		stepSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "orbitsim",
			Name:      "physics_step_seconds",
			Help:      "Wall time of one physics step.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		curveSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orbitsim",
			Name:      "curve_compute_seconds",
			Help:      "Wall time of the last curve prediction.",
		}),
		energy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orbitsim",
			Name:      "total_energy",
			Help:      "Kinetic plus potential energy of all bodies.",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orbitsim",
			Name:      "sim_time",
			Help:      "Simulated time elapsed.",
		}),
	}
	c.registry.MustRegister(c.steps, c.recomputes, c.stepSeconds, c.curveSeconds, c.energy, c.simTime)
	return c
}

func (c *Collector) OnTick(info debug.ComputeInfo) {
	if d := info.PhysicsSteps - c.lastSteps; d > 0 {
		c.steps.Add(float64(d))
		c.stepSeconds.Observe(info.LastPhysics.Seconds())
	}
	if d := info.CurveRecomputes - c.lastRecomputes; d > 0 {
		c.recomputes.Add(float64(d))
		c.curveSeconds.Set(info.LastCurveCompute.Seconds())
	}
	c.lastSteps = info.PhysicsSteps
	c.lastRecomputes = info.CurveRecomputes
	c.energy.Set(info.Energy)
	c.simTime.Set(info.SimTime)
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
