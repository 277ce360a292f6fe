package orbit

import (
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Drawables holds the bodies and their predicted curves. Curves[i] belongs to
// Bodies[i]; Curves may be shorter than Bodies.
type Drawables struct {
	Bodies []Body
	Curves []Curve
}

// MinRadius returns the smallest body radius, or +Inf when there are no bodies.
func (d *Drawables) MinRadius() float64 {
	smallest := math.Inf(1)
	for _, b := range d.Bodies {
		smallest = math.Min(smallest, b.Radius)
	}
	return smallest
}

// CurveBodyMismatch reports whether any curve's first plot has drifted from
// its body's center by more than faultTolerance times the smallest body
// radius. faultTolerance is expected in (0,1] and is not checked.
func (d *Drawables) CurveBodyMismatch(faultTolerance float64) bool {
	mismatchDistance := d.MinRadius() * faultTolerance

	for i, curve := range d.Curves {
		if len(curve.Plots) == 0 || i >= len(d.Bodies) {
			continue
		}
		dist := r2.Norm(r2.Sub(curve.Plots[0], d.Bodies[i].Center))
		if dist > mismatchDistance {
			return true
		}
	}
	return false
}

// CurveFor returns the curve paired with the body carrying id.
func (d *Drawables) CurveFor(id uuid.UUID) (Curve, bool) {
	for i, b := range d.Bodies {
		if b.ID != id {
			continue
		}
		if i < len(d.Curves) {
			return d.Curves[i], true
		}
		return Curve{}, false
	}
	return Curve{}, false
}

// SetCurves replaces all curves at once.
func (d *Drawables) SetCurves(curves []Curve) {
	d.Curves = curves
}

// AdvanceCurves moves every curve one plot forward.
func (d *Drawables) AdvanceCurves() {
	for i := range d.Curves {
		d.Curves[i].Advance()
	}
}

// ShortestCurve returns the fewest plots left on any curve, or 0 when there
// are no curves.
func (d *Drawables) ShortestCurve() int {
	if len(d.Curves) == 0 {
		return 0
	}
	shortest := len(d.Curves[0].Plots)
	for _, c := range d.Curves[1:] {
		shortest = min(shortest, len(c.Plots))
	}
	return shortest
}

func (d *Drawables) ClearCurves() {
	d.Curves = nil
}
