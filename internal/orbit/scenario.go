package orbit

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// BodySpec describes a body before it is given an identity.
type BodySpec struct {
	Center   r2.Vec
	Radius   float64
	Mass     float64
	Velocity r2.Vec
}

// Scenario is a named starting configuration.
type Scenario struct {
	Name   string
	Bodies []BodySpec
}

// DefaultScenario is a heavy central body with three orbiters at increasing
// distance.
var DefaultScenario = Scenario{
	Name: "default",
	Bodies: []BodySpec{
		{Center: r2.Vec{X: 0, Y: 0}, Radius: 1.2, Mass: 1660, Velocity: r2.Vec{X: 0, Y: -1}},
		{Center: r2.Vec{X: 3.5, Y: 0}, Radius: 0.9, Mass: 1000, Velocity: r2.Vec{X: 0, Y: 1.6}},
		{Center: r2.Vec{X: 9, Y: 0}, Radius: 0.3, Mass: 1, Velocity: r2.Vec{X: 0, Y: 2}},
		{Center: r2.Vec{X: -12, Y: 0}, Radius: 0.4, Mass: 2, Velocity: r2.Vec{X: 0, Y: -1.5}},
	},
}

var scenarios = map[string]Scenario{
	"default": DefaultScenario,
	"binary": {
		Name: "binary",
		Bodies: []BodySpec{
			{Center: r2.Vec{X: -4, Y: 0}, Radius: 1.0, Mass: 800, Velocity: r2.Vec{X: 0, Y: -0.5}},
			{Center: r2.Vec{X: 4, Y: 0}, Radius: 1.0, Mass: 800, Velocity: r2.Vec{X: 0, Y: 0.5}},
			{Center: r2.Vec{X: 14, Y: 0}, Radius: 0.3, Mass: 1, Velocity: r2.Vec{X: 0, Y: 0.9}},
		},
	},
	"solar": {
		Name: "solar",
		Bodies: []BodySpec{
			{Center: r2.Vec{X: 0, Y: 0}, Radius: 2.0, Mass: 5000, Velocity: r2.Vec{}},
			{Center: r2.Vec{X: 5, Y: 0}, Radius: 0.3, Mass: 1, Velocity: r2.Vec{X: 0, Y: 1.0}},
			{Center: r2.Vec{X: 0, Y: 9}, Radius: 0.5, Mass: 3, Velocity: r2.Vec{X: -0.75, Y: 0}},
			{Center: r2.Vec{X: -14, Y: 0}, Radius: 0.7, Mass: 10, Velocity: r2.Vec{X: 0, Y: -0.6}},
			{Center: r2.Vec{X: 0, Y: -20}, Radius: 0.6, Mass: 6, Velocity: r2.Vec{X: 0.5, Y: 0}},
		},
	},
}

// LookupScenario returns the preset registered under name.
func LookupScenario(name string) (Scenario, bool) {
	s, ok := scenarios[name]
	return s, ok
}

func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Drawables instantiates the scenario with fresh body ids and no curves.
func (s Scenario) Drawables() Drawables {
	bodies := make([]Body, len(s.Bodies))
	for i, spec := range s.Bodies {
		bodies[i] = NewBody(spec.Center, spec.Radius, spec.Mass, spec.Velocity)
	}
	return Drawables{Bodies: bodies}
}
