package swarm

import (
	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/vmath"
)

// Result is the observable output of one tick
type Result struct {
	Tick       uint64     `json:"tick"`
	Best       Best       `json:"best"`
	Pursuit    Pursuit    `json:"pursuit"`
	Dispersion Dispersion `json:"dispersion"`
}

// Simulation owns the population, the predator and the random source
// Not safe for concurrent use; the engine scheduler serializes access
type Simulation struct {
	params   Params
	pop      Population
	predator Predator
	rng      *vmath.FastRand
	tick     uint64
	last     Result

	scratch []float64
}

// NewSimulation seeds a population uniformly over the world and places the predator near the origin
func NewSimulation(params Params, seed uint64) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rng := vmath.NewFastRand(seed)
	hx, hy := params.Bounds.X/2, params.Bounds.Y/2
	vs := params.InitialSpeed

	pop := make(Population, params.Population)
	for i := range pop {
		pos := vmath.V2(rng.Range(-hx, hx), rng.Range(-hy, hy))
		vel := vmath.V2(rng.Range(-vs, vs), rng.Range(-vs, vs))
		pop[i] = NewParticle(pos, vel, params.Objective)
	}

	px := params.Bounds.X * parameter.PredatorSpawnFraction
	py := params.Bounds.Y * parameter.PredatorSpawnFraction
	predator := Predator{
		Position: vmath.V2(rng.Range(-px, px), rng.Range(-py, py)),
		Facing:   vmath.V2(0, 1),
		State:    Holding,
	}

	s := &Simulation{
		params:   params,
		pop:      pop,
		predator: predator,
		rng:      rng,
	}
	s.last = Result{Best: GlobalBest(pop), Pursuit: Pursuit{Nearest: -1}}
	return s, nil
}

// Tick advances the simulation by one fixed step
// Order is strict: best tracking, swarm update with that best, then predator against the moved swarm
// A negative or non-finite dt is treated as zero, so the predator holds its position
func (s *Simulation) Tick(dt float64) Result {
	p := &s.params
	if dt < 0 || !vmath.Finite(dt) {
		dt = 0
	}

	best := TrackBest(s.pop, p.Objective)
	Update(s.pop, best, p.Objective, p.Coefficients, p.Bounds, s.rng)
	pursuit := s.predator.Pursue(s.pop, dt, p.Predator, p.Bounds)

	s.tick++
	var disp Dispersion
	disp, s.scratch = spreadInto(s.pop, best.Position, s.scratch)

	s.last = Result{
		Tick:       s.tick,
		Best:       best,
		Pursuit:    pursuit,
		Dispersion: disp,
	}
	return s.last
}

func (s *Simulation) Params() Params {
	return s.params
}

// Population exposes particles for read-only rendering; callers must not retain it across ticks
func (s *Simulation) Population() Population {
	return s.pop
}

func (s *Simulation) Predator() Predator {
	return s.predator
}

// TickCount returns the number of completed ticks
func (s *Simulation) TickCount() uint64 {
	return s.tick
}

// Last returns the result of the most recent tick, or the seeded state before the first
func (s *Simulation) Last() Result {
	return s.last
}
