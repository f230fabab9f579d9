package render

import "github.com/lixenwraith/galileo/vmath"

// Projection maps world units to pixels, origin at the center of the target and y up
// Scale is uniform so the whole world rectangle fits
type Projection struct {
	Width, Height float64
	Scale         float64
}

func NewProjection(width, height float64, bounds vmath.Vec2) Projection {
	scale := 1.0
	if bounds.X > 0 && bounds.Y > 0 {
		scale = min(width/bounds.X, height/bounds.Y)
	}
	return Projection{Width: width, Height: height, Scale: scale}
}

func (p Projection) Project(pos vmath.Vec2) (x, y float64) {
	return p.Width/2 + pos.X*p.Scale, p.Height/2 - pos.Y*p.Scale
}
