package swarm

import (
	"github.com/lixenwraith/galileo/vmath"
)

// Update applies the PSO rule to every particle against this tick's global best
//
//	v' = w*v + r1*c1*(pbest - x) + r2*c2*(gbest - x)
//	x' = clamp(x + v'*step, bounds)
//
// One r1 and one r2 are drawn per particle, in slot order, and shared by both axes
// Clamping leaves velocity untouched. Personal best is re-checked after the move
func Update(pop Population, gbest Best, obj Objective, c Coefficients, bounds vmath.Vec2, rng RandSource) {
	for i := range pop {
		p := &pop[i]

		r1 := rng.Float64()
		r2 := rng.Float64()

		cog := vmath.V2Sub(p.BestPosition, p.Position)
		soc := vmath.V2Sub(gbest.Position, p.Position)

		p.Velocity = vmath.Vec2{
			X: c.Inertia*p.Velocity.X + r1*c.Cognitive*cog.X + r2*c.Social*soc.X,
			Y: c.Inertia*p.Velocity.Y + r1*c.Cognitive*cog.Y + r2*c.Social*soc.Y,
		}

		p.Position = vmath.V2ClampBounds(vmath.V2Add(p.Position, vmath.V2Scale(p.Velocity, c.StepScale)), bounds)

		p.observe(obj)
	}
}
