package config

import "sort"

// Presets are named tunings of the integrator and curve settings. They leave
// the screen and scenario alone.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"precise": {
		Integrator: "rk45", Dt: 0.002, G: DefaultG, Softening: DefaultSoftening,
		CurvePlots: 600, CurveStride: 20, CheckEvery: 20, FaultTolerance: 0.05,
	},
	"fast": {
		Integrator: "leapfrog", Dt: 0.02, G: DefaultG, Softening: DefaultSoftening,
		CurvePlots: 200, CurveStride: 4, CheckEvery: 4, FaultTolerance: 0.25,
	},
	"long-curves": {
		Integrator: "verlet", Dt: 0.01, G: DefaultG, Softening: DefaultSoftening,
		CurvePlots: 1500, CurveStride: 8, CheckEvery: 8, FaultTolerance: 0.1,
	},
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset copies the preset's simulation settings onto c.
func (c *Config) ApplyPreset(name string) bool {
	p, ok := Presets[name]
	if !ok {
		return false
	}
	c.Integrator = p.Integrator
	c.Dt = p.Dt
	c.G = p.G
	c.Softening = p.Softening
	c.CurvePlots = p.CurvePlots
	c.CurveStride = p.CurveStride
	c.CheckEvery = p.CheckEvery
	c.FaultTolerance = p.FaultTolerance
	return true
}
