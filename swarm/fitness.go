package swarm

import (
	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/vmath"
)

// Objective scores positions by closeness to a fixed optimal point
type Objective struct {
	Optimum vmath.Vec2 `json:"optimum" toml:"optimum"`
}

func DefaultObjective() Objective {
	return Objective{Optimum: vmath.V2(parameter.FitnessOptimumX, parameter.FitnessOptimumY)}
}

// Fitness returns 1 - 0.001*distance(p, optimum)
// Higher is better; not clamped, so far positions go negative
func (o Objective) Fitness(p vmath.Vec2) float64 {
	return 1 - parameter.FitnessDistanceWeight*vmath.V2Dist(p, o.Optimum)
}
