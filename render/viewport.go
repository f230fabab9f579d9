package render

import (
	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/vmath"
)

// Viewport maps the centered, y-up world rectangle onto a y-down cell grid
// Rows [0, Top) are reserved for the HUD
type Viewport struct {
	Cols, Rows int
	Top        int
	Bounds     vmath.Vec2
}

func NewViewport(screenW, screenH int, bounds vmath.Vec2) Viewport {
	rows := screenH - parameter.HUDHeight
	if rows < 0 {
		rows = 0
	}
	return Viewport{
		Cols:   screenW,
		Rows:   rows,
		Top:    parameter.HUDHeight,
		Bounds: bounds,
	}
}

// Empty reports a viewport too small to draw into
func (v Viewport) Empty() bool {
	return v.Cols <= 0 || v.Rows <= 0 || v.Bounds.X <= 0 || v.Bounds.Y <= 0
}

// ToCell returns the screen cell for world position p
// Positions outside bounds land on the nearest edge cell
func (v Viewport) ToCell(p vmath.Vec2) (x, y int, ok bool) {
	if v.Empty() {
		return 0, 0, false
	}

	nx := (p.X + v.Bounds.X/2) / v.Bounds.X
	ny := (v.Bounds.Y/2 - p.Y) / v.Bounds.Y

	x = clampInt(int(nx*float64(v.Cols)), 0, v.Cols-1)
	y = clampInt(int(ny*float64(v.Rows)), 0, v.Rows-1)
	return x, y + v.Top, true
}

// ToWorld returns the world position at the center of cell (x, y)
func (v Viewport) ToWorld(x, y int) vmath.Vec2 {
	if v.Empty() {
		return vmath.Vec2{}
	}
	nx := (float64(x) + 0.5) / float64(v.Cols)
	ny := (float64(y-v.Top) + 0.5) / float64(v.Rows)
	return vmath.V2(nx*v.Bounds.X-v.Bounds.X/2, v.Bounds.Y/2-ny*v.Bounds.Y)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
