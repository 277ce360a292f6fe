package state

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/orbitsim/internal/debug"
	"github.com/san-kum/orbitsim/internal/orbit"
)

const DefaultZoom float32 = 16

// State is the simulation and camera state owned by the host loop.
type State struct {
	Origin       mgl32.Vec2
	Zoom         float32
	ScreenWidth  uint32
	ScreenHeight uint32
	View         mgl32.Mat4
	UserQuit     bool
	Pause        bool
	RenderCurves bool
	Drawables    orbit.Drawables
	DebugInfo    debug.ComputeInfo

	scenario orbit.Scenario
}

// New returns the default four-body state for a screen of the given size.
func New(screenWidth, screenHeight uint32) *State {
	return NewWithScenario(screenWidth, screenHeight, orbit.DefaultScenario)
}

func NewWithScenario(screenWidth, screenHeight uint32, scenario orbit.Scenario) *State {
	return &State{
		Origin:       mgl32.Vec2{0, 0},
		Zoom:         DefaultZoom,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		View:         birdsEyeAtZ(1.0),
		RenderCurves: true,
		Drawables:    scenario.Drawables(),
		DebugInfo:    debug.Initial(),
		scenario:     scenario,
	}
}

// birdsEyeAtZ looks straight down the z axis.
func birdsEyeAtZ(height float32) mgl32.Mat4 {
	view := mgl32.Ident4()
	view.Set(2, 2, height)
	return view
}

func (s *State) Scenario() orbit.Scenario { return s.scenario }

// Reset reinstalls the scenario's bodies with fresh ids and drops all curves.
func (s *State) Reset() {
	s.Drawables = s.scenario.Drawables()
}

// ResetTo switches to a different scenario.
func (s *State) ResetTo(scenario orbit.Scenario) {
	s.scenario = scenario
	s.Reset()
}

func (s *State) Resize(screenWidth, screenHeight uint32) {
	s.ScreenWidth = screenWidth
	s.ScreenHeight = screenHeight
}

// Pan moves the camera by a screen-space offset in pixels.
func (s *State) Pan(dx, dy int) {
	a := s.AspectRatio()
	s.Origin[0] += float32(dx) * 2 * s.Zoom * a / float32(s.ScreenWidth)
	s.Origin[1] -= float32(dy) * 2 * s.Zoom / float32(s.ScreenHeight)
}

// ZoomBy scales the visible half-height. Non-positive factors are ignored.
func (s *State) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	s.Zoom *= factor
}

func (s *State) Projection() mgl32.Mat4 {
	a := s.AspectRatio()
	return mgl32.Ortho(
		s.Origin.X()-s.Zoom*a,
		s.Origin.X()+s.Zoom*a,
		s.Origin.Y()-s.Zoom,
		s.Origin.Y()+s.Zoom,
		1.0,
		-1.0,
	)
}

// AspectRatio is width over height. A zero height yields +Inf or NaN.
func (s *State) AspectRatio() float32 {
	return float32(s.ScreenWidth) / float32(s.ScreenHeight)
}

// ScreenToWorldNormalised maps a pixel (top-left origin, y down) to world
// space relative to the camera origin (y up).
func (s *State) ScreenToWorldNormalised(p image.Point) mgl32.Vec2 {
	xWorld := s.Zoom * s.AspectRatio() * (float32(p.X)*2/float32(s.ScreenWidth) - 1)
	yWorld := s.Zoom * (-float32(p.Y)*2/float32(s.ScreenHeight) + 1)
	return mgl32.Vec2{xWorld, yWorld}
}

func (s *State) ScreenToWorld(p image.Point) mgl32.Vec2 {
	return s.Origin.Add(s.ScreenToWorldNormalised(p))
}

// WorldToScreen is the inverse of ScreenToWorld, in fractional pixels.
func (s *State) WorldToScreen(v mgl32.Vec2) (x, y float32) {
	rel := v.Sub(s.Origin)
	x = (rel.X()/(s.Zoom*s.AspectRatio()) + 1) * float32(s.ScreenWidth) / 2
	y = (1 - rel.Y()/s.Zoom) * float32(s.ScreenHeight) / 2
	return x, y
}

// VisibleWorldRange returns the bottom-left and top-right visible world
// corners.
func (s *State) VisibleWorldRange() (lo, hi mgl32.Vec2) {
	lo = s.ScreenToWorld(image.Pt(0, int(s.ScreenHeight)))
	hi = s.ScreenToWorld(image.Pt(int(s.ScreenWidth), 0))
	return lo, hi
}
