package swarm

import (
	"github.com/lixenwraith/galileo/vmath"
)

// RandSource supplies uniform draws in [0, 1)
// *vmath.FastRand satisfies it; tests script exact r1/r2 values
type RandSource interface {
	Float64() float64
}

// Particle is one swarm agent, identified by its slot in the Population
type Particle struct {
	Position     vmath.Vec2 `json:"position" toml:"position"`
	Velocity     vmath.Vec2 `json:"velocity" toml:"velocity"`
	Fitness      float64    `json:"fitness" toml:"fitness"`
	BestFitness  float64    `json:"best_fitness" toml:"best_fitness"`
	BestPosition vmath.Vec2 `json:"best_position" toml:"best_position"`
}

// NewParticle creates a particle whose personal best is its starting position
func NewParticle(pos, vel vmath.Vec2, obj Objective) Particle {
	f := obj.Fitness(pos)
	return Particle{
		Position:     pos,
		Velocity:     vel,
		Fitness:      f,
		BestFitness:  f,
		BestPosition: pos,
	}
}

// observe scores the current position and promotes it to personal best on strict improvement
// Ties keep the older best
func (p *Particle) observe(obj Objective) bool {
	p.Fitness = obj.Fitness(p.Position)
	if p.Fitness > p.BestFitness {
		p.BestFitness = p.Fitness
		p.BestPosition = p.Position
		return true
	}
	return false
}

// Population is the fixed-size particle set, mutated in place every tick
type Population []Particle

// Nearest returns the slot and distance of the particle closest to pos
// Ties go to the lowest slot; empty population returns -1
func (pop Population) Nearest(pos vmath.Vec2) (int, float64) {
	idx := -1
	minDist := 0.0
	for i := range pop {
		d := vmath.V2Dist(pos, pop[i].Position)
		if idx < 0 || d < minDist {
			idx = i
			minDist = d
		}
	}
	return idx, minDist
}

// Clone returns a deep copy
func (pop Population) Clone() Population {
	out := make(Population, len(pop))
	copy(out, pop)
	return out
}
