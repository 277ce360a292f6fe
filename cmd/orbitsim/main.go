package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/state"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/telemetry"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	logLevel    string
	theme       string
	watch       bool
	steps       int
	sampleEvery int
	metricsAddr string
	framePath   string
	force       bool
	format      string
	outPath     string
)

// simulation flags that viper may override from ORBITSIM_* variables
var simFlags = []string{
	"width", "height", "zoom", "dt", "integrator", "g", "softening",
	"curve-plots", "curve-stride", "check-every", "fault-tolerance",
	"fps", "scenario",
}

func main() {
	v := viper.New()
	v.SetEnvPrefix("ORBITSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:          "orbitsim",
		Short:        "n-body orbit simulator with predicted trajectories",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, v)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".orbitsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.Int("width", config.DefaultWidth, "screen width in pixels")
	pf.Int("height", config.DefaultHeight, "screen height in pixels")
	pf.Float64("zoom", config.DefaultZoom, "visible half-height in world units")
	pf.Float64("dt", config.DefaultDt, "timestep")
	pf.String("integrator", config.DefaultIntegrator, "integrator ("+strings.Join(integrators.Names(), ", ")+")")
	pf.Float64("g", config.DefaultG, "gravitational constant")
	pf.Float64("softening", config.DefaultSoftening, "gravitational softening length")
	pf.Int("curve-plots", config.DefaultCurvePlots, "points per predicted curve")
	pf.Int("curve-stride", config.DefaultCurveStride, "physics steps between curve points")
	pf.Int("check-every", config.DefaultCheckEvery, "physics steps between mismatch checks")
	pf.Float64("fault-tolerance", config.DefaultFaultTolerance, "mismatch tolerance as a fraction of the smallest radius")
	pf.Int("fps", config.DefaultFPS, "viewer frame rate")
	pf.String("scenario", orbit.DefaultScenario.Name, "starting scenario ("+strings.Join(orbit.ScenarioNames(), ", ")+")")
	for _, name := range simFlags {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "interactive terminal viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, v)
		},
	}
	rootCmd.Flags().BoolVar(&watch, "watch", false, "reload the scenario when the config file changes")
	rootCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	viewCmd.Flags().AddFlagSet(rootCmd.Flags())

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and save the trajectory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd, v)
		},
	}
	runCmd.Flags().IntVar(&steps, "steps", 2000, "physics steps to run")
	runCmd.Flags().IntVar(&sampleEvery, "sample", 10, "physics steps between trajectory samples")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	runCmd.Flags().StringVar(&framePath, "frame", "", "write the final frame as SVG to this path")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as SVG paths or JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "svg", "output format (svg, json)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run energy and body distances",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios and presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "scenarios:")
			for _, name := range orbit.ScenarioNames() {
				s, _ := orbit.LookupScenario(name)
				fmt.Fprintf(out, "  %-10s %d bodies\n", name, len(s.Bodies))
			}
			fmt.Fprintln(out, "presets:")
			for _, name := range config.ListPresets() {
				fmt.Fprintf(out, "  %s\n", name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			cfg, err := resolveConfig(v)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(viewCmd, runCmd, listCmd, plotCmd, exportCmd, scenariosCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers defaults, the preset, the config file and finally
// flags and ORBITSIM_* variables.
func resolveConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if preset != "" && !cfg.ApplyPreset(preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if v.IsSet("width") {
		cfg.Width = v.GetInt("width")
	}
	if v.IsSet("height") {
		cfg.Height = v.GetInt("height")
	}
	if v.IsSet("zoom") {
		cfg.Zoom = v.GetFloat64("zoom")
	}
	if v.IsSet("dt") {
		cfg.Dt = v.GetFloat64("dt")
	}
	if v.IsSet("integrator") {
		cfg.Integrator = v.GetString("integrator")
	}
	if v.IsSet("g") {
		cfg.G = v.GetFloat64("g")
	}
	if v.IsSet("softening") {
		cfg.Softening = v.GetFloat64("softening")
	}
	if v.IsSet("curve-plots") {
		cfg.CurvePlots = v.GetInt("curve-plots")
	}
	if v.IsSet("curve-stride") {
		cfg.CurveStride = v.GetInt("curve-stride")
	}
	if v.IsSet("check-every") {
		cfg.CheckEvery = v.GetInt("check-every")
	}
	if v.IsSet("fault-tolerance") {
		cfg.FaultTolerance = v.GetFloat64("fault-tolerance")
	}
	if v.IsSet("fps") {
		cfg.FPS = v.GetInt("fps")
	}
	if v.IsSet("scenario") {
		cfg.Scenario = v.GetString("scenario")
		cfg.Bodies = nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func optionsFromConfig(cfg *config.Config) sim.Options {
	return sim.Options{
		Integrator:     cfg.Integrator,
		Dt:             cfg.Dt,
		G:              cfg.G,
		Softening:      cfg.Softening,
		CurvePlots:     cfg.CurvePlots,
		CurveStride:    cfg.CurveStride,
		CheckEvery:     cfg.CheckEvery,
		FaultTolerance: cfg.FaultTolerance,
	}
}

func newLogger(w io.Writer) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return level.NewFilter(logger, levelOption(logLevel))
}

func levelOption(name string) level.Option {
	switch strings.ToLower(name) {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

func newLoop(cfg *config.Config, logger log.Logger) (*sim.Loop, error) {
	scenario, err := cfg.ResolveScenario()
	if err != nil {
		return nil, err
	}
	st := state.NewWithScenario(uint32(cfg.Width), uint32(cfg.Height), scenario)
	st.Zoom = float32(cfg.Zoom)
	return sim.New(st, optionsFromConfig(cfg), logger)
}

func runView(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := resolveConfig(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	// the terminal belongs to the viewer, so logs go to a file
	logFile, err := os.OpenFile(filepath.Join(dataDir, "orbitsim.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile)

	loop, err := newLoop(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := viz.NewModel(ctx, loop, cfg.FPS, theme, logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if watch {
		if configFile == "" {
			return errors.New("--watch needs --config")
		}
		err := config.Watch(ctx, configFile, func(c *config.Config, err error) {
			if err != nil {
				p.Send(viz.ScenarioMsg{Err: err})
				return
			}
			s, err := c.ResolveScenario()
			p.Send(viz.ScenarioMsg{Scenario: s, Err: err})
		})
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		level.Info(logger).Log("msg", "watching config", "path", configFile)
	}

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func runHeadless(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := resolveConfig(v)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr)

	loop, err := newLoop(cfg, logger)
	if err != nil {
		return err
	}
	collector := telemetry.NewCollector()
	drift := metrics.NewEnergyDrift()
	summaries := []metrics.Metric{drift, metrics.NewRecomputeRate()}
	loop.AddObserver(collector)
	for _, m := range summaries {
		loop.AddObserver(m)
	}

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: collector.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				level.Error(logger).Log("msg", "metrics server failed", "err", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		level.Info(logger).Log("msg", "serving metrics", "addr", metricsAddr)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}

	st := loop.State
	level.Info(logger).Log("msg", "running", "scenario", st.Scenario().Name, "steps", steps, "integrator", cfg.Integrator)
	start := time.Now()
	trace, runErr := loop.Run(ctx, steps, sampleEvery)
	if trace == nil {
		return runErr
	}
	elapsed := time.Since(start)
	if runErr != nil {
		level.Warn(logger).Log("msg", "run stopped early", "steps", trace.Steps, "err", runErr)
	}

	ids := make([]string, len(st.Drawables.Bodies))
	for i, b := range st.Drawables.Bodies {
		ids[i] = b.ID.String()
	}
	meta := storage.RunMetadata{
		Scenario:       st.Scenario().Name,
		Integrator:     cfg.Integrator,
		Dt:             cfg.Dt,
		Steps:          trace.Steps,
		BodyIDs:        ids,
		FaultTolerance: cfg.FaultTolerance,
		Recomputes:     trace.Recomputes,
		EnergyDrift:    drift.Final(),
	}
	runID, err := store.Save(meta, trace)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "steps: %d\n", trace.Steps)
	fmt.Fprintf(out, "curve recomputes: %d\n", trace.Recomputes)
	fmt.Fprintf(out, "mean step: %v\n", st.DebugInfo.MeanPhysics())
	fmt.Fprintln(out, "\nmetrics:")
	for _, m := range summaries {
		fmt.Fprintf(out, "  %s: %.6g\n", m.Name(), m.Value())
	}
	fmt.Fprintln(out)

	if framePath != "" {
		if err := writeFrame(framePath, st); err != nil {
			return err
		}
		fmt.Fprintf(out, "frame: %s\n\n", framePath)
	}
	if len(trace.Energies) > 1 {
		fmt.Fprintln(out, asciigraph.Plot(trace.Energies,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("total energy"),
		))
	}
	return runErr
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tDT\tINTEG\tRECOMPUTES\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%s\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Integrator,
			run.Recomputes,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	store := storage.New(dataDir)

	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	trace, err := store.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scenario: %s\n", meta.Scenario)
	fmt.Fprintf(out, "samples: %d\n\n", len(trace.Times))

	fmt.Fprintln(out, asciigraph.Plot(trace.Energies,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))
	fmt.Fprintln(out)

	// distance of each body from the first one
	const maxPlots = 6
	numBodies := min(len(trace.Positions[0]), maxPlots+1)
	for b := 1; b < numBodies; b++ {
		data := make([]float64, len(trace.Positions))
		for i, pos := range trace.Positions {
			if b < len(pos) {
				data[i] = r2.Norm(r2.Sub(pos[b], pos[0]))
			}
		}
		fmt.Fprintln(out, asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d distance from body 0", b)),
		))
		fmt.Fprintln(out)
	}
	return nil
}

func writeFrame(path string, st *state.State) error {
	canvas := viz.NewCanvas(int(st.ScreenWidth)/2, int(st.ScreenHeight)/4)
	viz.Render(canvas, st)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.CanvasToSVG(f, canvas, 2)
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	store := storage.New(dataDir)

	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	trace, err := store.LoadTrace(runID)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "svg":
		return export.TraceToSVG(w, trace, 800, 800)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Metadata *storage.RunMetadata `json:"metadata"`
			Trace    *sim.Trace           `json:"trace"`
		}{meta, trace})
	default:
		return fmt.Errorf("unknown format: %s (available: svg, json)", format)
	}
}
