package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/state"
)

// segments further than this many screens from the canvas are dropped
const clipScreens = 4

// Render draws the bodies and, when enabled, their predicted curves onto c.
// World points go through the camera's projection and view matrices, so the
// state must be sized to the canvas subpixel resolution.
func Render(c *Canvas, st *state.State) {
	c.Clear()
	if st.ScreenWidth == 0 || st.ScreenHeight == 0 {
		return
	}

	p := newProjector(st)
	if st.RenderCurves {
		for _, curve := range st.Drawables.Curves {
			drawCurve(c, p, curve)
		}
	}

	lo, hi := st.VisibleWorldRange()
	for _, b := range st.Drawables.Bodies {
		if !visible(b, lo, hi) {
			continue
		}
		x, y := p.pixel(b.Center)
		c.FillCircle(x, y, p.radius(b.Radius))
	}
}

type projector struct {
	mvp           mgl32.Mat4
	width, height float32
	pxPerUnit     float32
}

func newProjector(st *state.State) projector {
	return projector{
		mvp:       st.Projection().Mul4(st.View),
		width:     float32(st.ScreenWidth),
		height:    float32(st.ScreenHeight),
		pxPerUnit: float32(st.ScreenHeight) / (2 * st.Zoom),
	}
}

// pixel maps a world point to clip space and then to the top-left pixel
// grid.
func (p projector) pixel(v r2.Vec) (x, y int) {
	ndc := p.mvp.Mul4x1(mgl32.Vec4{float32(v.X), float32(v.Y), 0, 1})
	fx := (ndc.X() + 1) / 2 * p.width
	fy := (1 - ndc.Y()) / 2 * p.height
	return int(math.Floor(float64(fx))), int(math.Floor(float64(fy)))
}

func (p projector) radius(r float64) int {
	return int(math.Round(r * float64(p.pxPerUnit)))
}

func (p projector) inRange(x, y int) bool {
	w, h := int(p.width), int(p.height)
	return x >= -clipScreens*w && x <= (clipScreens+1)*w &&
		y >= -clipScreens*h && y <= (clipScreens+1)*h
}

func drawCurve(c *Canvas, p projector, curve orbit.Curve) {
	if curve.Len() == 1 {
		x, y := p.pixel(curve.Plots[0])
		c.Set(x, y)
		return
	}
	w, h := c.PixelSize()
	for i := 1; i < curve.Len(); i++ {
		x0, y0 := p.pixel(curve.Plots[i-1])
		x1, y1 := p.pixel(curve.Plots[i])
		if !p.inRange(x0, y0) || !p.inRange(x1, y1) {
			continue
		}
		if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) ||
			(x0 >= w && x1 >= w) || (y0 >= h && y1 >= h) {
			continue
		}
		c.DrawLine(x0, y0, x1, y1)
	}
}

func visible(b orbit.Body, lo, hi mgl32.Vec2) bool {
	return b.Center.X+b.Radius >= float64(lo.X()) &&
		b.Center.X-b.Radius <= float64(hi.X()) &&
		b.Center.Y+b.Radius >= float64(lo.Y()) &&
		b.Center.Y-b.Radius <= float64(hi.Y())
}
