package state_test

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/state"
)

// expectCornerMapping checks the screen corners against the world window:
//
//	(0,0)                    (-a*z, z)
//	    ┌─┐                      ┌─┐
//	    └─┘            ->        └─┘
//	       (w, h)                   (a*z, -z)
func expectCornerMapping(s *state.State) {
	a := s.AspectRatio()
	z := s.Zoom
	w := int(s.ScreenWidth)
	h := int(s.ScreenHeight)

	Expect(s.ScreenToWorld(image.Pt(0, 0))).To(Equal(mgl32.Vec2{-a * z, 1 * z}), "top-left")
	Expect(s.ScreenToWorld(image.Pt(w, 0))).To(Equal(mgl32.Vec2{a * z, 1 * z}), "top-right")
	Expect(s.ScreenToWorld(image.Pt(0, h))).To(Equal(mgl32.Vec2{-a * z, -1 * z}), "bottom-left")
	Expect(s.ScreenToWorld(image.Pt(w, h))).To(Equal(mgl32.Vec2{a * z, -1 * z}), "bottom-right")
	Expect(s.ScreenToWorld(image.Pt(w/2, h/2))).To(Equal(mgl32.Vec2{0, 0}), "center")
}

var _ = Describe("State", func() {
	Describe("New", func() {
		It("starts from the default scenario", func() {
			s := state.New(800, 600)

			Expect(s.Drawables.Bodies).To(HaveLen(4))
			Expect(s.Drawables.Curves).To(BeEmpty())
			Expect(s.Pause).To(BeFalse())
			Expect(s.RenderCurves).To(BeTrue())
			Expect(s.UserQuit).To(BeFalse())
			Expect(s.Zoom).To(Equal(float32(16)))
			Expect(s.Origin).To(Equal(mgl32.Vec2{0, 0}))
		})

		It("gives every body a distinct id", func() {
			s := state.New(800, 600)
			ids := make(map[string]struct{})
			for _, b := range s.Drawables.Bodies {
				ids[b.ID.String()] = struct{}{}
			}
			Expect(ids).To(HaveLen(4))
		})

		It("uses a top-down identity view", func() {
			s := state.New(800, 600)
			Expect(s.View).To(Equal(mgl32.Ident4()))
			Expect(s.View.At(2, 2)).To(Equal(float32(1)))
		})

		It("accepts an alternative scenario", func() {
			scenario := orbit.Scenario{
				Name: "single",
				Bodies: []orbit.BodySpec{
					{Center: r2.Vec{X: 1, Y: 2}, Radius: 0.5, Mass: 10},
				},
			}
			s := state.NewWithScenario(100, 100, scenario)
			Expect(s.Drawables.Bodies).To(HaveLen(1))
			Expect(s.Scenario().Name).To(Equal("single"))
		})
	})

	Describe("ScreenToWorld", func() {
		It("maps corners for a square screen", func() {
			expectCornerMapping(state.New(100, 100))
		})

		It("maps corners for a wide screen", func() {
			expectCornerMapping(state.New(160, 90))
		})

		It("maps corners at a fractional zoom", func() {
			s := state.New(160, 90)
			s.Zoom = 0.33
			expectCornerMapping(s)
		})

		It("maps the center pixel of a square screen to the origin", func() {
			s := state.New(100, 100)
			Expect(s.ScreenToWorld(image.Pt(50, 50))).To(Equal(mgl32.Vec2{0, 0}))
		})

		It("adds the camera origin", func() {
			s := state.New(160, 90)
			s.Origin = mgl32.Vec2{5, -2}

			n := s.ScreenToWorldNormalised(image.Pt(10, 70))
			w := s.ScreenToWorld(image.Pt(10, 70))
			Expect(w.X()).To(BeNumerically("~", n.X()+5, 1e-5))
			Expect(w.Y()).To(BeNumerically("~", n.Y()-2, 1e-5))

			center := s.ScreenToWorld(image.Pt(80, 45))
			Expect(center).To(Equal(mgl32.Vec2{5, -2}))
		})

		It("is independent of pan when normalised", func() {
			s := state.New(160, 90)
			before := s.ScreenToWorldNormalised(image.Pt(33, 12))
			s.Origin = mgl32.Vec2{100, 100}
			Expect(s.ScreenToWorldNormalised(image.Pt(33, 12))).To(Equal(before))
		})
	})

	Describe("WorldToScreen", func() {
		It("inverts ScreenToWorld", func() {
			s := state.New(160, 90)
			s.Origin = mgl32.Vec2{3, 4}
			s.Zoom = 7

			for _, p := range []image.Point{{0, 0}, {160, 90}, {80, 45}, {17, 63}} {
				x, y := s.WorldToScreen(s.ScreenToWorld(p))
				Expect(x).To(BeNumerically("~", float32(p.X), 1e-3))
				Expect(y).To(BeNumerically("~", float32(p.Y), 1e-3))
			}
		})
	})

	Describe("VisibleWorldRange", func() {
		It("returns min and max corners", func() {
			s := state.New(180, 90)
			s.Zoom = 3

			lo, hi := s.VisibleWorldRange()
			Expect(lo).To(Equal(mgl32.Vec2{-6, -3}))
			Expect(hi).To(Equal(mgl32.Vec2{6, 3}))
		})

		It("follows the camera origin", func() {
			s := state.New(180, 90)
			s.Zoom = 3
			s.Origin = mgl32.Vec2{1, 1}

			lo, hi := s.VisibleWorldRange()
			Expect(lo).To(Equal(mgl32.Vec2{-5, -2}))
			Expect(hi).To(Equal(mgl32.Vec2{7, 4}))
		})
	})

	Describe("Projection", func() {
		It("builds an orthographic matrix over the visible window", func() {
			s := state.New(100, 100)
			p := s.Projection()

			Expect(p.At(0, 0)).To(BeNumerically("~", 1.0/16, 1e-7))
			Expect(p.At(1, 1)).To(BeNumerically("~", 1.0/16, 1e-7))
			Expect(p.At(2, 2)).To(BeNumerically("~", 1, 1e-7))
			Expect(p.At(3, 3)).To(Equal(float32(1)))
		})

		It("maps the visible range onto the unit square", func() {
			s := state.New(160, 90)
			s.Origin = mgl32.Vec2{4, -1}
			s.Zoom = 5
			p := s.Projection()

			lo, hi := s.VisibleWorldRange()
			ndcLo := p.Mul4x1(mgl32.Vec4{lo.X(), lo.Y(), 0, 1})
			ndcHi := p.Mul4x1(mgl32.Vec4{hi.X(), hi.Y(), 0, 1})

			Expect(ndcLo.X()).To(BeNumerically("~", -1, 1e-5))
			Expect(ndcLo.Y()).To(BeNumerically("~", -1, 1e-5))
			Expect(ndcHi.X()).To(BeNumerically("~", 1, 1e-5))
			Expect(ndcHi.Y()).To(BeNumerically("~", 1, 1e-5))
		})
	})

	Describe("AspectRatio", func() {
		It("divides width by height", func() {
			Expect(state.New(180, 90).AspectRatio()).To(Equal(float32(2)))
		})

		It("is not finite for a zero height", func() {
			s := state.New(100, 0)
			Expect(s.AspectRatio()).To(BeNumerically(">", float32(1e30)))
		})
	})

	Describe("camera controls", func() {
		It("pans by whole screens", func() {
			s := state.New(100, 100)
			s.Pan(100, 0)
			Expect(s.Origin).To(Equal(mgl32.Vec2{32, 0}))
			s.Pan(0, 50)
			Expect(s.Origin).To(Equal(mgl32.Vec2{32, -16}))
		})

		It("zooms and ignores invalid factors", func() {
			s := state.New(100, 100)
			s.ZoomBy(0.5)
			Expect(s.Zoom).To(Equal(float32(8)))
			s.ZoomBy(0)
			s.ZoomBy(-2)
			Expect(s.Zoom).To(Equal(float32(8)))
		})

		It("resizes the screen", func() {
			s := state.New(100, 100)
			s.Resize(200, 50)
			Expect(s.AspectRatio()).To(Equal(float32(4)))
		})
	})

	Describe("Reset", func() {
		It("reinstalls bodies with new ids and drops curves", func() {
			s := state.New(100, 100)
			oldID := s.Drawables.Bodies[0].ID
			s.Drawables.Bodies[0].Center = r2.Vec{X: 50, Y: 50}
			s.Drawables.SetCurves([]orbit.Curve{{Plots: []r2.Vec{{X: 1, Y: 1}}}})

			s.Reset()

			Expect(s.Drawables.Bodies).To(HaveLen(4))
			Expect(s.Drawables.Bodies[0].Center).To(Equal(r2.Vec{}))
			Expect(s.Drawables.Bodies[0].ID).NotTo(Equal(oldID))
			Expect(s.Drawables.Curves).To(BeEmpty())
		})
	})
})
