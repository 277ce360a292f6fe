package viz

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/state"
)

func renderState(bodies ...orbit.BodySpec) *state.State {
	return state.NewWithScenario(100, 100, orbit.Scenario{Name: "test", Bodies: bodies})
}

func TestRenderBodies(t *testing.T) {
	st := renderState(
		orbit.BodySpec{Radius: 1, Mass: 1},
		orbit.BodySpec{Center: r2.Vec{X: 0, Y: -10}, Radius: 0.1, Mass: 1},
	)
	c := NewCanvas(50, 25)

	Render(c, st)

	// 100px over a 32 unit tall view puts the unit disc at radius 3
	if !c.IsSet(50, 50) || !c.IsSet(53, 50) || !c.IsSet(50, 47) {
		t.Error("expected disc around the screen center")
	}
	if c.IsSet(54, 50) {
		t.Error("disc drawn beyond its radius")
	}
	if !c.IsSet(50, 81) {
		t.Error("expected small body below center")
	}
}

func TestRenderFollowsCamera(t *testing.T) {
	st := renderState(orbit.BodySpec{Radius: 0.1, Mass: 1})
	st.Origin[0] = 8
	c := NewCanvas(50, 25)

	Render(c, st)

	if !c.IsSet(25, 50) {
		t.Error("expected body left of center after panning right")
	}
	if c.IsSet(50, 50) {
		t.Error("body still drawn at the screen center")
	}
}

func TestRenderCullsOffscreenBodies(t *testing.T) {
	st := renderState(orbit.BodySpec{Center: r2.Vec{X: 500}, Radius: 1, Mass: 1})
	c := NewCanvas(50, 25)

	Render(c, st)

	if n := countLit(c); n != 0 {
		t.Errorf("expected nothing drawn, got %d pixels", n)
	}
}

func TestRenderCurves(t *testing.T) {
	st := renderState(orbit.BodySpec{Center: r2.Vec{X: 0, Y: -10}, Radius: 0.1, Mass: 1})
	st.Drawables.Curves = []orbit.Curve{{Plots: []r2.Vec{{X: 0, Y: 0}, {X: 8, Y: 0}}}}
	c := NewCanvas(50, 25)

	Render(c, st)
	if !c.IsSet(50, 50) || !c.IsSet(60, 50) || !c.IsSet(75, 50) {
		t.Error("expected curve segment across the center row")
	}

	st.RenderCurves = false
	Render(c, st)
	if c.IsSet(60, 50) {
		t.Error("curve drawn with curves disabled")
	}
	if !c.IsSet(50, 81) {
		t.Error("body missing with curves disabled")
	}
}

func TestRenderSkipsFarSegments(t *testing.T) {
	st := renderState()
	st.Drawables.Curves = []orbit.Curve{{Plots: []r2.Vec{{X: 1e6, Y: 0}, {X: 1e6, Y: 1e6}, {X: 0, Y: 0}}}}
	c := NewCanvas(50, 25)

	Render(c, st)

	if n := countLit(c); n != 0 {
		t.Errorf("expected far segments dropped, got %d pixels", n)
	}
}

func TestRenderZeroSize(t *testing.T) {
	st := renderState(orbit.BodySpec{Radius: 1, Mass: 1})
	st.Resize(0, 0)
	c := NewCanvas(0, 0)

	Render(c, st)
}
