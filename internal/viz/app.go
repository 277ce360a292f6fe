package viz

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/state"
)

const (
	statusLines   = 3
	energyHistory = 120
	zoomStep      = 1.25
	panFraction   = 10
	// pickSlop is the click distance in subpixels that still selects a
	// body whose disc is smaller than a cell.
	pickSlop = 4
)

type tickMsg time.Time

// ScenarioMsg asks the viewer to restart from a new scenario, for example
// after the config file changed on disk.
type ScenarioMsg struct {
	Scenario orbit.Scenario
	Err      error
}

// Model is the interactive orbit viewer.
type Model struct {
	ctx    context.Context
	loop   *sim.Loop
	canvas *Canvas
	theme  Theme
	styles styles
	fps    int
	logger log.Logger

	energy   []float64
	err      error
	showHelp bool
}

// NewModel builds a viewer around loop. The canvas starts at the loop's
// screen size and follows the terminal once the first resize arrives.
func NewModel(ctx context.Context, loop *sim.Loop, fps int, theme string, logger log.Logger) Model {
	if fps <= 0 {
		fps = 30
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	st := loop.State
	t := GetTheme(theme)
	return Model{
		ctx:    ctx,
		loop:   loop,
		canvas: NewCanvas(int(st.ScreenWidth)/2, int(st.ScreenHeight)/4),
		theme:  t,
		styles: newStyles(t),
		fps:    fps,
		logger: log.With(logger, "subsys", "viz"),
		energy: make([]float64, 0, energyHistory),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Err returns the error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	st := m.loop.State
	switch msg := msg.(type) {
	case tickMsg:
		if st.UserQuit {
			return m, tea.Quit
		}
		if m.err == nil && !st.Pause {
			if err := m.loop.Tick(m.ctx); err != nil {
				level.Error(m.logger).Log("msg", "simulation stopped", "err", err)
				m.err = err
				st.Pause = true
			} else {
				m.recordEnergy(st.DebugInfo.Energy)
			}
		}
		return m, m.tick()

	case tea.WindowSizeMsg:
		rows := max(msg.Height-statusLines, 1)
		m.canvas.Resize(msg.Width, rows)
		w, h := m.canvas.PixelSize()
		st.Resize(uint32(w), uint32(h))

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case ScenarioMsg:
		if msg.Err != nil {
			level.Warn(m.logger).Log("msg", "config reload rejected", "err", msg.Err)
			return m, nil
		}
		m.loop.LoadScenario(msg.Scenario)
		m.energy = m.energy[:0]
		m.err = nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.loop.State
	stepX := int(st.ScreenWidth) / panFraction
	stepY := int(st.ScreenHeight) / panFraction

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		st.UserQuit = true
		return m, tea.Quit
	case "left", "h":
		st.Pan(-stepX, 0)
	case "right", "l":
		st.Pan(stepX, 0)
	case "up", "k":
		st.Pan(0, -stepY)
	case "down", "j":
		st.Pan(0, stepY)
	case "+", "=":
		st.ZoomBy(1 / zoomStep)
	case "-", "_":
		st.ZoomBy(zoomStep)
	case " ":
		st.Pause = !st.Pause
	case "c":
		st.RenderCurves = !st.RenderCurves
	case "r":
		m.loop.Reset()
		m.energy = m.energy[:0]
		m.err = nil
		st.Pause = false
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// handleMouse recenters on a left click and zooms with the wheel. A click
// on a body centers it exactly. Mouse coordinates are cells; the state works
// in subpixels.
func (m Model) handleMouse(msg tea.MouseMsg) {
	st := m.loop.State
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return
		}
		p := image.Pt(msg.X*2, msg.Y*4)
		if b, ok := bodyAt(st, p); ok {
			st.Origin = mgl32.Vec2{float32(b.Center.X), float32(b.Center.Y)}
			return
		}
		st.Origin = st.ScreenToWorld(p)
	case tea.MouseButtonWheelUp:
		st.ZoomBy(1 / zoomStep)
	case tea.MouseButtonWheelDown:
		st.ZoomBy(zoomStep)
	}
}

func (m *Model) recordEnergy(e float64) {
	if len(m.energy) == energyHistory {
		copy(m.energy, m.energy[1:])
		m.energy = m.energy[:energyHistory-1]
	}
	m.energy = append(m.energy, e)
}

func (m Model) View() string {
	st := m.loop.State
	Render(m.canvas, st)

	rows := strings.Split(m.canvas.String(), "\n")
	if m.showHelp {
		overlayHelp(rows, m.styles.hint)
	}

	var b strings.Builder
	b.WriteString(m.styles.canvas.Render(strings.Join(rows, "\n")))
	b.WriteByte('\n')
	b.WriteString(m.statusBar())
	return b.String()
}

// overlayHelp replaces the bottom canvas rows with the help text. Rows above
// keep their terminal position.
func overlayHelp(rows []string, style lipgloss.Style) {
	help := strings.Split(strings.Trim(helpText, "\n"), "\n")
	start := max(len(rows)-len(help), 0)
	for i := start; i < len(rows); i++ {
		rows[i] = style.Render(help[i-start])
	}
}

// bodyAt returns the body under pixel p, if any. Discs with a pixel radius
// under pickSlop use pickSlop.
func bodyAt(st *state.State, p image.Point) (orbit.Body, bool) {
	pxPerUnit := float64(st.ScreenHeight) / (2 * float64(st.Zoom))
	best, bestDist := -1, math.Inf(1)
	for i, b := range st.Drawables.Bodies {
		x, y := st.WorldToScreen(mgl32.Vec2{float32(b.Center.X), float32(b.Center.Y)})
		d := math.Hypot(float64(x)-float64(p.X), float64(y)-float64(p.Y))
		if d <= math.Max(b.Radius*pxPerUnit, pickSlop) && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return orbit.Body{}, false
	}
	return st.Drawables.Bodies[best], true
}

func (m Model) statusBar() string {
	st := m.loop.State
	info := st.DebugInfo

	status := m.styles.running.Render("RUNNING")
	switch {
	case m.err != nil:
		status = m.styles.failed.Render("DIVERGED")
	case st.Pause:
		status = m.styles.paused.Render("PAUSED")
	}

	curves := "off"
	if st.RenderCurves {
		curves = "on"
	}
	lo, hi := st.VisibleWorldRange()

	line1 := strings.Join([]string{
		m.styles.title.Render(strings.ToUpper(st.Scenario().Name)),
		status,
		m.styles.field("t", fmt.Sprintf("%.2f", m.loop.Time())),
		m.styles.field("steps", fmt.Sprint(info.PhysicsSteps)),
		m.styles.field("recomputes", fmt.Sprint(info.CurveRecomputes)),
		m.styles.field("bodies", fmt.Sprint(len(st.Drawables.Bodies))),
		m.styles.field("curves", curves),
	}, "  ")
	line2 := strings.Join([]string{
		m.styles.field("zoom", fmt.Sprintf("%.2f", st.Zoom)),
		m.styles.field("view", fmt.Sprintf("(%.1f,%.1f)..(%.1f,%.1f)", lo.X(), lo.Y(), hi.X(), hi.Y())),
		m.styles.field("step", info.MeanPhysics().String()),
		m.styles.field("E", fmt.Sprintf("%.4f", info.Energy)),
		m.styles.sparkline(m.energy, 30),
	}, "  ")
	line3 := m.styles.hint.Render("arrows/hjkl pan  +/- zoom  space pause  c curves  r reset  t theme  ? help  q quit")
	return line1 + "\n" + line2 + "\n" + line3
}

const helpText = `
  Arrows/HJKL  Pan the camera
  +/-          Zoom in/out (mouse wheel too)
  Click        Recenter on the clicked point or body
  Space        Pause/Resume
  C            Toggle predicted curves
  R            Reset the scenario
  T            Cycle themes
  Q            Quit
`
