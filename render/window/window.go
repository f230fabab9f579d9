// Package window is the ebiten desktop viewer for a running scheduler
package window

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lixenwraith/galileo/engine"
	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/render"
	"github.com/lixenwraith/galileo/status"
	"github.com/lixenwraith/galileo/swarm"
	"github.com/lixenwraith/galileo/vmath"
)

var (
	colorBackground = color.RGBA{10, 10, 24, 255}
	colorBounds     = color.RGBA{60, 60, 90, 255}
)

func rgba(c render.RGB) color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 255}
}

// Game implements ebiten.Game over a scheduler; the scheduler ticks on its own goroutine
type Game struct {
	sched *engine.ClockScheduler
	reg   *status.Registry
	proj  render.Projection

	hud strings.Builder
}

func NewGame(sched *engine.ClockScheduler, reg *status.Registry, bounds vmath.Vec2) *Game {
	return &Game{
		sched: sched,
		reg:   reg,
		proj:  render.NewProjection(parameter.WindowWidth, parameter.WindowHeight, bounds),
	}
}

// Update handles input only; Escape or Q ends the run loop
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sched.TogglePause()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	g.sched.View(func(sim *swarm.Simulation) {
		g.drawWorld(screen, sim)
	})

	g.hud.Reset()
	if g.sched.IsPaused() {
		g.hud.WriteString("PAUSED\n")
	}
	for _, e := range g.reg.Entries() {
		fmt.Fprintf(&g.hud, "%s: %s\n", e.Key, e.Value)
	}
	ebitenutil.DebugPrint(screen, g.hud.String())
}

func (g *Game) drawWorld(screen *ebiten.Image, sim *swarm.Simulation) {
	params := sim.Params()

	x0, y0 := g.proj.Project(vmath.V2(-params.Bounds.X/2, params.Bounds.Y/2))
	x1, y1 := g.proj.Project(vmath.V2(params.Bounds.X/2, -params.Bounds.Y/2))
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, colorBounds, false)

	ox, oy := g.proj.Project(params.Objective.Optimum)
	vector.StrokeLine(screen, float32(ox-6), float32(oy), float32(ox+6), float32(oy), 1, rgba(render.RGBOptimum), false)
	vector.StrokeLine(screen, float32(ox), float32(oy-6), float32(ox), float32(oy+6), 1, rgba(render.RGBOptimum), false)

	floor := 1 - parameter.FitnessDistanceWeight*vmath.V2Mag(params.Bounds)
	for _, p := range sim.Population() {
		px, py := g.proj.Project(p.Position)
		vector.DrawFilledCircle(screen, float32(px), float32(py), parameter.WindowParticleRadius,
			rgba(render.FitnessColor(p.Fitness, floor)), true)
	}

	if sim.TickCount() > 0 {
		bx, by := g.proj.Project(sim.Last().Best.Position)
		vector.StrokeCircle(screen, float32(bx), float32(by), parameter.WindowParticleRadius+3, 1, rgba(render.RGBBest), true)
	}

	pred := sim.Predator()
	c := rgba(render.RGBPredatorHunt)
	if pred.State == swarm.Holding {
		c = rgba(render.RGBPredatorHold)
	}
	px, py := g.proj.Project(pred.Position)
	vector.DrawFilledCircle(screen, float32(px), float32(py), parameter.WindowPredatorRadius, c, true)

	// Facing tick
	tip := vmath.V2Add(pred.Position, vmath.V2Scale(pred.Facing, 2*parameter.WindowPredatorRadius/g.proj.Scale))
	tx, ty := g.proj.Project(tip)
	vector.StrokeLine(screen, float32(px), float32(py), float32(tx), float32(ty), 2, c, true)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return parameter.WindowWidth, parameter.WindowHeight
}
