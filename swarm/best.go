package swarm

import (
	"math"

	"github.com/lixenwraith/galileo/vmath"
)

// Best is the swarm's global best for a single tick
// Rederived from particle state each tick, never stored as authority
type Best struct {
	Position vmath.Vec2 `json:"position" toml:"position"`
	Fitness  float64    `json:"fitness" toml:"fitness"`
}

// RefreshPersonalBests scores every particle at its current position and updates personal bests on strict improvement
func RefreshPersonalBests(pop Population, obj Objective) {
	for i := range pop {
		pop[i].observe(obj)
	}
}

// GlobalBest reduces the population to the maximum personal best
// Ties keep the lowest slot. Population must be non-empty; an empty one yields Fitness -Inf
func GlobalBest(pop Population) Best {
	best := Best{Fitness: math.Inf(-1)}
	for i := range pop {
		if i == 0 || pop[i].BestFitness > best.Fitness {
			best.Fitness = pop[i].BestFitness
			best.Position = pop[i].BestPosition
		}
	}
	return best
}

// TrackBest refreshes personal bests then returns the tick's global best
func TrackBest(pop Population, obj Objective) Best {
	RefreshPersonalBests(pop, obj)
	return GlobalBest(pop)
}
