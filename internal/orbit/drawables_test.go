package orbit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func body(x, y, radius float64) Body {
	return NewBody(r2.Vec{X: x, Y: y}, radius, 1, r2.Vec{})
}

func curve(points ...r2.Vec) Curve {
	return Curve{Plots: points}
}

func TestCurveBodyMismatch(t *testing.T) {
	tests := []struct {
		name      string
		drawables Drawables
		tolerance float64
		want      bool
	}{
		{
			name:      "no curves",
			drawables: Drawables{Bodies: []Body{body(0, 0, 1)}},
			tolerance: 0.01,
			want:      false,
		},
		{
			name:      "no bodies no curves",
			drawables: Drawables{},
			tolerance: 0.5,
			want:      false,
		},
		{
			name: "within tolerance",
			drawables: Drawables{
				Bodies: []Body{body(0, 0, 1), body(5, 5, 2)},
				Curves: []Curve{curve(r2.Vec{X: 0.1, Y: 0}), curve(r2.Vec{X: 5, Y: 5.2})},
			},
			tolerance: 0.5,
			want:      false,
		},
		{
			name: "exactly at threshold",
			drawables: Drawables{
				Bodies: []Body{body(0, 0, 1)},
				Curves: []Curve{curve(r2.Vec{X: 0.5, Y: 0})},
			},
			tolerance: 0.5,
			want:      false,
		},
		{
			name: "beyond threshold",
			drawables: Drawables{
				Bodies: []Body{body(0, 0, 1)},
				Curves: []Curve{curve(r2.Vec{X: 0.6, Y: 0})},
			},
			tolerance: 0.5,
			want:      true,
		},
		{
			name: "threshold uses smallest radius",
			drawables: Drawables{
				Bodies: []Body{body(0, 0, 10), body(20, 0, 0.1)},
				Curves: []Curve{curve(r2.Vec{X: 0.2, Y: 0})},
			},
			tolerance: 1,
			want:      true,
		},
		{
			name: "only first plot is compared",
			drawables: Drawables{
				Bodies: []Body{body(0, 0, 1)},
				Curves: []Curve{curve(r2.Vec{}, r2.Vec{X: 100, Y: 100})},
			},
			tolerance: 0.1,
			want:      false,
		},
		{
			name: "empty curve skipped",
			drawables: Drawables{
				Bodies: []Body{body(0, 0, 1), body(3, 0, 1)},
				Curves: []Curve{{}, curve(r2.Vec{X: 3, Y: 0})},
			},
			tolerance: 0.1,
			want:      false,
		},
		{
			name: "fewer curves than bodies",
			drawables: Drawables{
				Bodies: []Body{body(0, 0, 1), body(100, 0, 1)},
				Curves: []Curve{curve(r2.Vec{})},
			},
			tolerance: 0.1,
			want:      false,
		},
		{
			name: "zero tolerance flags any drift",
			drawables: Drawables{
				Bodies: []Body{body(0, 0, 1)},
				Curves: []Curve{curve(r2.Vec{X: 1e-9, Y: 0})},
			},
			tolerance: 0,
			want:      true,
		},
		{
			name: "tolerance above one accepted",
			drawables: Drawables{
				Bodies: []Body{body(0, 0, 1)},
				Curves: []Curve{curve(r2.Vec{X: 1.5, Y: 0})},
			},
			tolerance: 2,
			want:      false,
		},
		{
			name: "curve without body skipped",
			drawables: Drawables{
				Curves: []Curve{curve(r2.Vec{X: 1, Y: 1})},
			},
			tolerance: 0.1,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.drawables.CurveBodyMismatch(tt.tolerance); got != tt.want {
				t.Errorf("CurveBodyMismatch(%v) = %v, want %v", tt.tolerance, got, tt.want)
			}
		})
	}
}

func TestCurveBodyMismatch_Idempotent(t *testing.T) {
	d := Drawables{
		Bodies: []Body{body(0, 0, 1), body(4, 0, 0.5)},
		Curves: []Curve{curve(r2.Vec{}), curve(r2.Vec{X: 4.4, Y: 0})},
	}

	first := d.CurveBodyMismatch(0.5)
	for i := 0; i < 5; i++ {
		if got := d.CurveBodyMismatch(0.5); got != first {
			t.Fatalf("call %d returned %v, first call returned %v", i, got, first)
		}
	}
}

func TestMinRadius(t *testing.T) {
	d := Drawables{}
	if r := d.MinRadius(); !math.IsInf(r, 1) {
		t.Errorf("MinRadius() of empty set = %v, want +Inf", r)
	}

	d.Bodies = []Body{body(0, 0, 2), body(0, 0, 0.3), body(0, 0, 1)}
	if r := d.MinRadius(); r != 0.3 {
		t.Errorf("MinRadius() = %v, want 0.3", r)
	}
}

func TestCurveFor(t *testing.T) {
	d := Drawables{
		Bodies: []Body{body(0, 0, 1), body(1, 0, 1)},
		Curves: []Curve{curve(r2.Vec{X: 9, Y: 9})},
	}

	c, ok := d.CurveFor(d.Bodies[0].ID)
	if !ok || c.Plots[0] != (r2.Vec{X: 9, Y: 9}) {
		t.Errorf("CurveFor(first) = %v, %v", c, ok)
	}

	if _, ok := d.CurveFor(d.Bodies[1].ID); ok {
		t.Error("expected no curve for second body")
	}

	if _, ok := d.CurveFor(NewBody(r2.Vec{}, 1, 1, r2.Vec{}).ID); ok {
		t.Error("expected no curve for unknown id")
	}
}

func TestAdvanceCurves(t *testing.T) {
	d := Drawables{
		Bodies: []Body{body(0, 0, 1), body(1, 0, 1)},
		Curves: []Curve{
			curve(r2.Vec{X: 0}, r2.Vec{X: 1}, r2.Vec{X: 2}),
			curve(r2.Vec{X: 5}),
		},
	}

	if got := d.ShortestCurve(); got != 1 {
		t.Errorf("ShortestCurve() = %d, want 1", got)
	}

	d.AdvanceCurves()
	if d.Curves[0].Plots[0].X != 1 {
		t.Errorf("expected first curve to start at x=1, got %v", d.Curves[0].Plots[0])
	}
	if d.Curves[1].Len() != 0 {
		t.Errorf("expected second curve to be exhausted")
	}

	d.AdvanceCurves()
	if got := d.ShortestCurve(); got != 0 {
		t.Errorf("ShortestCurve() = %d, want 0", got)
	}

	d.ClearCurves()
	if got := d.ShortestCurve(); got != 0 {
		t.Errorf("ShortestCurve() with no curves = %d, want 0", got)
	}
}
