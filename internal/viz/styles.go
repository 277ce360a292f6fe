package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas  lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	failed  lipgloss.Style
	hint    lipgloss.Style
	sparkHi lipgloss.Style
	sparkLo lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas:  lipgloss.NewStyle().Foreground(t.Canvas),
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		label:   lipgloss.NewStyle().Foreground(t.Muted),
		value:   lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		failed:  lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		hint:    lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
		sparkHi: lipgloss.NewStyle().Foreground(t.Accent),
		sparkLo: lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// field renders a "label value" pair for the status bar.
func (s styles) field(label, value string) string {
	return s.label.Render(label+" ") + s.value.Render(value)
}

// sparkline renders values scaled to their own range, sampling the most
// recent width points.
func (s styles) sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return s.sparkLo.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)
		if norm > 0.5 {
			b.WriteString(s.sparkHi.Render(string(chars[idx])))
		} else {
			b.WriteString(s.sparkLo.Render(string(chars[idx])))
		}
	}
	return b.String()
}
