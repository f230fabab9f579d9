package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/status"
	"github.com/lixenwraith/galileo/swarm"
	"github.com/lixenwraith/galileo/vmath"
)

// Viewer draws the simulation onto a tcell screen
// Draw must be called with the simulation lock held (scheduler View)
type Viewer struct {
	screen tcell.Screen
	reg    *status.Registry

	hudStyle tcell.Style
	hud      strings.Builder
}

func NewViewer(screen tcell.Screen, reg *status.Registry) *Viewer {
	return &Viewer{
		screen:   screen,
		reg:      reg,
		hudStyle: tcell.StyleDefault.Foreground(RGBHUD.Color()).Background(RGBHUDBack.Color()),
	}
}

// Draw renders one frame: field, optimum, particles, global best, predator, HUD
func (v *Viewer) Draw(sim *swarm.Simulation, paused bool) {
	v.screen.Clear()

	w, h := v.screen.Size()
	params := sim.Params()
	vp := NewViewport(w, h, params.Bounds)

	if !vp.Empty() {
		v.drawField(vp, sim)
	}
	v.drawHUD(w, paused)

	v.screen.Show()
}

func (v *Viewer) drawField(vp Viewport, sim *swarm.Simulation) {
	params := sim.Params()
	floor := 1 - parameter.FitnessDistanceWeight*vmath.V2Mag(params.Bounds)

	if x, y, ok := vp.ToCell(params.Objective.Optimum); ok {
		v.screen.SetContent(x, y, GlyphOptimum, nil, tcell.StyleDefault.Foreground(RGBOptimum.Color()))
	}

	for _, p := range sim.Population() {
		x, y, ok := vp.ToCell(p.Position)
		if !ok {
			continue
		}
		style := tcell.StyleDefault.Foreground(FitnessColor(p.Fitness, floor).Color())
		v.screen.SetContent(x, y, GlyphParticle, nil, style)
	}

	last := sim.Last()
	if x, y, ok := vp.ToCell(last.Best.Position); ok && sim.TickCount() > 0 {
		v.screen.SetContent(x, y, GlyphBest, nil, tcell.StyleDefault.Foreground(RGBBest.Color()).Bold(true))
	}

	pred := sim.Predator()
	color := RGBPredatorHunt
	if pred.State == swarm.Holding {
		color = RGBPredatorHold
	}
	if x, y, ok := vp.ToCell(pred.Position); ok {
		v.screen.SetContent(x, y, PredatorGlyph(pred.Facing), nil, tcell.StyleDefault.Foreground(color.Color()).Bold(true))
	}
}

func (v *Viewer) drawHUD(width int, paused bool) {
	if width <= 0 || parameter.HUDHeight <= 0 {
		return
	}

	v.hud.Reset()
	if paused {
		v.hud.WriteString("[PAUSED] ")
	}
	for i, e := range v.reg.Entries() {
		if i > 0 {
			v.hud.WriteByte(' ')
		}
		v.hud.WriteString(e.Key)
		v.hud.WriteByte('=')
		v.hud.WriteString(e.Value)
	}
	line := []rune(v.hud.String())

	style := v.hudStyle
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(line) {
			r = line[x]
		}
		cellStyle := style
		if paused && x < len("[PAUSED]") {
			cellStyle = style.Foreground(RGBPaused.Color())
		}
		v.screen.SetContent(x, 0, r, nil, cellStyle)
	}
}
