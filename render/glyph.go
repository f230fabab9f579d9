package render

import (
	"math"

	"github.com/lixenwraith/galileo/vmath"
)

const (
	GlyphParticle = '•'
	GlyphBest     = '*'
	GlyphOptimum  = '+'
)

// predatorArrows is indexed by 45 degree sector counterclockwise from +x
var predatorArrows = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// PredatorGlyph picks the arrow closest to facing; world y points up
func PredatorGlyph(facing vmath.Vec2) rune {
	if facing.X == 0 && facing.Y == 0 {
		return predatorArrows[0]
	}
	sector := int(math.Round(vmath.V2Angle(facing)/(math.Pi/4))) % 8
	if sector < 0 {
		sector += 8
	}
	return predatorArrows[sector]
}
