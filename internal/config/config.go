package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/orbit"
)

const (
	DefaultWidth          = 800
	DefaultHeight         = 600
	DefaultZoom           = 16.0
	DefaultDt             = 0.01
	DefaultIntegrator     = "rk4"
	DefaultG              = 0.01
	DefaultSoftening      = 0.05
	DefaultCurvePlots     = 400
	DefaultCurveStride    = 5
	DefaultCheckEvery     = 5
	DefaultFaultTolerance = 0.1
	DefaultFPS            = 30
)

var (
	ErrInvalidConfig   = errors.New("config: invalid configuration")
	ErrUnknownScenario = errors.New("config: unknown scenario")
)

type Config struct {
	Width          int          `yaml:"width" toml:"width"`
	Height         int          `yaml:"height" toml:"height"`
	Zoom           float64      `yaml:"zoom" toml:"zoom"`
	Dt             float64      `yaml:"dt" toml:"dt"`
	Integrator     string       `yaml:"integrator" toml:"integrator"`
	G              float64      `yaml:"g" toml:"g"`
	Softening      float64      `yaml:"softening" toml:"softening"`
	CurvePlots     int          `yaml:"curve_plots" toml:"curve_plots"`
	CurveStride    int          `yaml:"curve_stride" toml:"curve_stride"`
	CheckEvery     int          `yaml:"check_every" toml:"check_every"`
	FaultTolerance float64      `yaml:"fault_tolerance" toml:"fault_tolerance"`
	FPS            int          `yaml:"fps" toml:"fps"`
	Scenario       string       `yaml:"scenario" toml:"scenario"`
	Bodies         []BodyConfig `yaml:"bodies,omitempty" toml:"bodies,omitempty"`
}

type BodyConfig struct {
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	VX     float64 `yaml:"vx" toml:"vx"`
	VY     float64 `yaml:"vy" toml:"vy"`
	Radius float64 `yaml:"radius" toml:"radius"`
	Mass   float64 `yaml:"mass" toml:"mass"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Zoom:           DefaultZoom,
		Dt:             DefaultDt,
		Integrator:     DefaultIntegrator,
		G:              DefaultG,
		Softening:      DefaultSoftening,
		CurvePlots:     DefaultCurvePlots,
		CurveStride:    DefaultCurveStride,
		CheckEvery:     DefaultCheckEvery,
		FaultTolerance: DefaultFaultTolerance,
		FPS:            DefaultFPS,
		Scenario:       orbit.DefaultScenario.Name,
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML file, or TOML when the path ends in .toml. Missing keys
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the simulation core does not guard against.
func (c *Config) Validate() error {
	var problems []string
	if c.Width <= 0 || c.Height <= 0 {
		problems = append(problems, fmt.Sprintf("screen must be non-empty, got %dx%d", c.Width, c.Height))
	}
	if c.Zoom <= 0 {
		problems = append(problems, fmt.Sprintf("zoom must be positive, got %g", c.Zoom))
	}
	if c.Dt <= 0 {
		problems = append(problems, fmt.Sprintf("dt must be positive, got %g", c.Dt))
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		problems = append(problems, err.Error())
	}
	if c.FaultTolerance <= 0 || c.FaultTolerance > 1 {
		problems = append(problems, fmt.Sprintf("fault_tolerance must be in (0,1], got %g", c.FaultTolerance))
	}
	if c.CurvePlots < 2 {
		problems = append(problems, fmt.Sprintf("curve_plots must be at least 2, got %d", c.CurvePlots))
	}
	if c.CurveStride < 1 {
		problems = append(problems, fmt.Sprintf("curve_stride must be at least 1, got %d", c.CurveStride))
	}
	if c.CheckEvery < 1 {
		problems = append(problems, fmt.Sprintf("check_every must be at least 1, got %d", c.CheckEvery))
	}
	if c.FPS <= 0 {
		problems = append(problems, fmt.Sprintf("fps must be positive, got %d", c.FPS))
	}
	for i, b := range c.Bodies {
		if b.Radius <= 0 || b.Mass <= 0 {
			problems = append(problems, fmt.Sprintf("body %d needs positive radius and mass", i))
		}
	}
	if _, err := c.ResolveScenario(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ResolveScenario returns the custom bodies when present, otherwise the named
// preset.
func (c *Config) ResolveScenario() (orbit.Scenario, error) {
	if len(c.Bodies) > 0 {
		s := orbit.Scenario{Name: "custom", Bodies: make([]orbit.BodySpec, len(c.Bodies))}
		for i, b := range c.Bodies {
			s.Bodies[i] = orbit.BodySpec{
				Center:   r2.Vec{X: b.X, Y: b.Y},
				Radius:   b.Radius,
				Mass:     b.Mass,
				Velocity: r2.Vec{X: b.VX, Y: b.VY},
			}
		}
		return s, nil
	}
	s, ok := orbit.LookupScenario(c.Scenario)
	if !ok {
		return orbit.Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, c.Scenario)
	}
	return s, nil
}
