package swarm

import (
	"fmt"

	"github.com/lixenwraith/galileo/vmath"
)

// Snapshot is the full mutable state of a Simulation
// Restoring with the same Params replays identical ticks
type Snapshot struct {
	Tick      uint64     `json:"tick"`
	Particles Population `json:"particles"`
	Predator  Predator   `json:"predator"`
	RandState uint64     `json:"rand_state"`
}

// Snapshot captures a deep copy of the current state
func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Tick:      s.tick,
		Particles: s.pop.Clone(),
		Predator:  s.predator,
		RandState: s.rng.State(),
	}
}

// Restore rebuilds a Simulation from a snapshot
// Population size comes from the snapshot and overrides params.Population
func Restore(params Params, snap Snapshot) (*Simulation, error) {
	params.Population = len(snap.Particles)
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("restore tick %d: %w", snap.Tick, err)
	}

	rng := &vmath.FastRand{}
	rng.SetState(snap.RandState)

	s := &Simulation{
		params:   params,
		pop:      snap.Particles.Clone(),
		predator: snap.Predator,
		rng:      rng,
		tick:     snap.Tick,
	}
	s.last = Result{Tick: snap.Tick, Best: GlobalBest(s.pop), Pursuit: Pursuit{State: snap.Predator.State, Nearest: -1}}
	return s, nil
}
