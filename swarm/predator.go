package swarm

import (
	"math"

	"github.com/lixenwraith/galileo/vmath"
)

// PredatorState is re-evaluated every tick and never carried as input to the next one
type PredatorState uint8

const (
	Holding PredatorState = iota
	Pursuing
)

func (s PredatorState) String() string {
	switch s {
	case Holding:
		return "Holding"
	case Pursuing:
		return "Pursuing"
	default:
		return "Unknown"
	}
}

// Predator chases the nearest particle; it reads particle positions and never touches PSO bookkeeping
type Predator struct {
	Position vmath.Vec2    `json:"position" toml:"position"`
	Velocity vmath.Vec2    `json:"velocity" toml:"velocity"` // displacement applied on the last tick
	Facing   vmath.Vec2    `json:"facing" toml:"facing"`     // unit orientation
	State    PredatorState `json:"state" toml:"state"`
}

// Pursuit reports what the predator saw and did on one tick
type Pursuit struct {
	State    PredatorState `json:"state"`
	Nearest  int           `json:"nearest"` // particle slot, -1 if none
	Distance float64       `json:"distance"`
}

// Pursue runs one predator tick against the already-moved population
// dt is real elapsed time in seconds; only the predator consumes it
func (pr *Predator) Pursue(pop Population, dt float64, profile PredatorProfile, bounds vmath.Vec2) Pursuit {
	idx, dist := pop.Nearest(pr.Position)
	if idx < 0 {
		pr.hold()
		return Pursuit{State: Holding, Nearest: -1, Distance: math.Inf(1)}
	}

	dir, ok := vmath.V2Normalize(vmath.V2Sub(pop[idx].Position, pr.Position))
	if !ok {
		// Coincident with the target: no direction to face or move along
		pr.hold()
		return Pursuit{State: Holding, Nearest: idx, Distance: dist}
	}
	pr.Facing = dir

	if dist <= profile.StoppingDistance {
		pr.hold()
		return Pursuit{State: Holding, Nearest: idx, Distance: dist}
	}

	next := vmath.V2Add(pr.Position, vmath.V2Scale(dir, profile.Speed*dt))
	next = vmath.V2ClampBounds(next, bounds)
	pr.Velocity = vmath.V2Sub(next, pr.Position)
	pr.Position = next
	pr.State = Pursuing
	return Pursuit{State: Pursuing, Nearest: idx, Distance: dist}
}

func (pr *Predator) hold() {
	pr.Velocity = vmath.Vec2{}
	pr.State = Holding
}
