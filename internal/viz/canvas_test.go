package viz

import (
	"strings"
	"testing"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 in first cell, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8 in second cell, got %U", c.Grid[0][1])
	}
	if !c.IsSet(0, 0) || !c.IsSet(3, 3) {
		t.Error("expected set pixels to report lit")
	}
	if c.IsSet(1, 0) || c.IsSet(-1, 0) || c.IsSet(4, 0) {
		t.Error("unexpected lit pixel")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 2)
	c.DrawLine(0, 0, 5, 7)
	c.Clear()

	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatalf("expected blank cell, got %U", r)
			}
		}
	}
}

func TestCanvasDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		lit            [][2]int
	}{
		{"horizontal", 0, 1, 3, 1, [][2]int{{0, 1}, {1, 1}, {2, 1}, {3, 1}}},
		{"vertical reversed", 2, 5, 2, 2, [][2]int{{2, 2}, {2, 3}, {2, 4}, {2, 5}}},
		{"diagonal", 0, 0, 3, 3, [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"single point", 1, 1, 1, 1, [][2]int{{1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(4, 2)
			c.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1)
			for _, p := range tt.lit {
				if !c.IsSet(p[0], p[1]) {
					t.Errorf("expected (%d,%d) lit", p[0], p[1])
				}
			}
			if got := countLit(c); got != len(tt.lit) {
				t.Errorf("expected %d lit pixels, got %d", len(tt.lit), got)
			}
		})
	}
}

func TestCanvasFillCircle(t *testing.T) {
	c := NewCanvas(10, 5)

	c.FillCircle(10, 10, 0)
	if countLit(c) != 1 {
		t.Errorf("zero radius should light one pixel, got %d", countLit(c))
	}

	c.Clear()
	c.FillCircle(10, 10, 2)
	if !c.IsSet(10, 10) || !c.IsSet(12, 10) || !c.IsSet(10, 8) {
		t.Error("expected center and axis extremes lit")
	}
	if c.IsSet(12, 12) {
		t.Error("corner outside the radius was lit")
	}
	if got := countLit(c); got != 13 {
		t.Errorf("expected 13 lit pixels for radius 2, got %d", got)
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0)
	c.Resize(5, 3)

	if c.Width != 5 || c.Height != 3 || len(c.Grid) != 3 || len(c.Grid[0]) != 5 {
		t.Fatalf("unexpected size %dx%d", c.Width, c.Height)
	}
	if w, h := c.PixelSize(); w != 10 || h != 12 {
		t.Errorf("PixelSize() = %d,%d, want 10,12", w, h)
	}
	if countLit(c) != 0 {
		t.Error("resize kept old pixels")
	}

	c.Resize(-1, -1)
	if c.Width != 0 || c.Height != 0 {
		t.Error("negative size not clamped")
	}
	c.Set(0, 0)
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(2, 2)
	lines := strings.Split(c.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if l != "\u2800\u2800" {
			t.Errorf("unexpected line %q", l)
		}
	}
}

func countLit(c *Canvas) int {
	n := 0
	w, h := c.PixelSize()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c.IsSet(x, y) {
				n++
			}
		}
	}
	return n
}
