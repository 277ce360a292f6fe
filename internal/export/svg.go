package export

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/viz"
)

// Palette cycles through body colors in body order.
var Palette = []string{"#7aa2f7", "#e0af68", "#9ece6a", "#f7768e", "#bb9af7", "#2ac3de"}

// CanvasToSVG converts a braille canvas to one SVG dot per lit subpixel.
func CanvasToSVG(w io.Writer, canvas *viz.Canvas, scale float64) error {
	if canvas == nil {
		return fmt.Errorf("nil canvas")
	}
	pw, ph := canvas.PixelSize()
	width, height := float64(pw)*scale, float64(ph)*scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a14"/>
<g fill="%s">
`, width, height, width, height, Palette[0])

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// TraceToSVG draws every body's sampled path, fitted to the drawing with a
// ten percent margin and y pointing up.
func TraceToSVG(w io.Writer, trace *sim.Trace, width, height int) error {
	if trace == nil || len(trace.Positions) < 2 {
		return fmt.Errorf("trace needs at least two samples")
	}

	lo, hi := bounds(trace.Positions)
	rng := r2.Sub(hi, lo)
	if rng.X == 0 {
		rng.X = 1
	}
	if rng.Y == 0 {
		rng.Y = 1
	}
	lo = r2.Sub(lo, r2.Scale(0.1, rng))
	rng = r2.Scale(1.2, rng)

	toPixel := func(p r2.Vec) (float64, float64) {
		x := (p.X - lo.X) / rng.X * float64(width)
		y := float64(height) - (p.Y-lo.Y)/rng.Y*float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a14"/>
`, width, height, width, height)

	numBodies := len(trace.Positions[0])
	for b := 0; b < numBodies; b++ {
		color := Palette[b%len(Palette)]
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
		for i, sample := range trace.Positions {
			if b >= len(sample) {
				continue
			}
			x, y := toPixel(sample[b])
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		last := trace.Positions[len(trace.Positions)-1]
		if b < len(last) {
			x, y := toPixel(last[b])
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, color)
		}
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func bounds(samples [][]r2.Vec) (lo, hi r2.Vec) {
	first := true
	for _, sample := range samples {
		for _, p := range sample {
			if first {
				lo, hi = p, p
				first = false
				continue
			}
			lo = r2.Vec{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
			hi = r2.Vec{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
		}
	}
	return lo, hi
}
