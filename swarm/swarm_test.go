package swarm

import (
	"errors"
	"math"
	"testing"

	"github.com/lixenwraith/galileo/vmath"
)

const eps = 1e-9

// scriptedRand replays a fixed sequence of draws, cycling when exhausted
type scriptedRand struct {
	vals  []float64
	calls int
}

func (r *scriptedRand) Float64() float64 {
	v := r.vals[r.calls%len(r.vals)]
	r.calls++
	return v
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func nearVec(a, b vmath.Vec2) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func newTestSim(t *testing.T, pop int, seed uint64) *Simulation {
	t.Helper()
	p := DefaultParams()
	p.Population = pop
	s, err := NewSimulation(p, seed)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return s
}

// ============================================================================
// Fitness
// ============================================================================

func TestFitnessValues(t *testing.T) {
	obj := Objective{Optimum: vmath.V2(-300, 0)}
	tests := []struct {
		pos  vmath.Vec2
		want float64
	}{
		{vmath.V2(-300, 0), 1},
		{vmath.V2(0, 0), 0.7},
		{vmath.V2(-300, 400), 0.6},
		{vmath.V2(1700, 0), -1},
	}

	for _, tt := range tests {
		if got := obj.Fitness(tt.pos); !near(got, tt.want) {
			t.Errorf("Fitness(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestFitnessDeterministic(t *testing.T) {
	obj := DefaultObjective()
	p := vmath.V2(123.25, -77.5)
	first := obj.Fitness(p)
	for i := 0; i < 100; i++ {
		if got := obj.Fitness(p); got != first {
			t.Fatalf("call %d: Fitness = %v, first call returned %v", i, got, first)
		}
	}
}

// ============================================================================
// Best Tracking
// ============================================================================

func TestNewParticleStartsAtOwnBest(t *testing.T) {
	obj := DefaultObjective()
	pos := vmath.V2(10, 20)
	p := NewParticle(pos, vmath.V2(1, -1), obj)

	if p.BestPosition != pos {
		t.Errorf("BestPosition = %v, want %v", p.BestPosition, pos)
	}
	if p.BestFitness != obj.Fitness(pos) || p.Fitness != p.BestFitness {
		t.Errorf("Fitness/BestFitness = %v/%v, want %v", p.Fitness, p.BestFitness, obj.Fitness(pos))
	}
}

func TestRefreshPersonalBestsStrictImprovement(t *testing.T) {
	obj := Objective{Optimum: vmath.V2(0, 0)}

	improved := NewParticle(vmath.V2(100, 0), vmath.Vec2{}, obj)
	improved.Position = vmath.V2(50, 0)

	worse := NewParticle(vmath.V2(10, 0), vmath.Vec2{}, obj)
	worse.Position = vmath.V2(20, 0)

	// Same distance, different point: a tie must not move the recorded best
	tied := NewParticle(vmath.V2(30, 0), vmath.Vec2{}, obj)
	tied.Position = vmath.V2(0, 30)

	pop := Population{improved, worse, tied}
	RefreshPersonalBests(pop, obj)

	if pop[0].BestPosition != vmath.V2(50, 0) || !near(pop[0].BestFitness, 0.95) {
		t.Errorf("improved particle best = %v @ %v, want 0.95 @ (50,0)", pop[0].BestFitness, pop[0].BestPosition)
	}
	if pop[1].BestPosition != vmath.V2(10, 0) {
		t.Errorf("worse particle best moved to %v", pop[1].BestPosition)
	}
	if !near(pop[1].Fitness, 0.98) {
		t.Errorf("worse particle current fitness = %v, want 0.98", pop[1].Fitness)
	}
	if pop[2].BestPosition != vmath.V2(30, 0) {
		t.Errorf("tied particle best moved to %v", pop[2].BestPosition)
	}
}

func TestGlobalBestIsMaxOfPersonalBests(t *testing.T) {
	pop := Population{
		{BestFitness: 0.2, BestPosition: vmath.V2(1, 1)},
		{BestFitness: 0.9, BestPosition: vmath.V2(2, 2)},
		{BestFitness: 0.9, BestPosition: vmath.V2(3, 3)},
		{BestFitness: -4, BestPosition: vmath.V2(4, 4)},
	}

	got := GlobalBest(pop)
	if got.Fitness != 0.9 {
		t.Errorf("GlobalBest fitness = %v, want 0.9", got.Fitness)
	}
	if got.Position != vmath.V2(2, 2) {
		t.Errorf("GlobalBest position = %v, want first maximal slot (2,2)", got.Position)
	}
}

func TestGlobalBestAllNegative(t *testing.T) {
	pop := Population{
		{BestFitness: -3, BestPosition: vmath.V2(1, 0)},
		{BestFitness: -2, BestPosition: vmath.V2(2, 0)},
	}
	if got := GlobalBest(pop); got.Fitness != -2 || got.Position != vmath.V2(2, 0) {
		t.Errorf("GlobalBest = %+v, want -2 @ (2,0)", got)
	}
}

func TestGlobalBestEmptyPopulation(t *testing.T) {
	got := GlobalBest(nil)
	if !math.IsInf(got.Fitness, -1) {
		t.Errorf("empty GlobalBest fitness = %v, want -Inf", got.Fitness)
	}
}

func TestTickReportsMaxOfRefreshedPersonalBests(t *testing.T) {
	s := newTestSim(t, 40, 11)

	for tick := 0; tick < 200; tick++ {
		// Mirror the tick's first phase on a copy to get the expected max
		shadow := s.Population().Clone()
		RefreshPersonalBests(shadow, s.Params().Objective)
		want := math.Inf(-1)
		for _, p := range shadow {
			want = math.Max(want, p.BestFitness)
		}

		res := s.Tick(1.0 / 60)
		if res.Best.Fitness != want {
			t.Fatalf("tick %d: global best %v, want max personal best %v", res.Tick, res.Best.Fitness, want)
		}
	}
}

// ============================================================================
// Update Step
// ============================================================================

func TestUpdateZeroMovementAtOwnBest(t *testing.T) {
	obj := Objective{Optimum: vmath.V2(-300, 0)}
	pop := Population{NewParticle(vmath.V2(0, 0), vmath.Vec2{}, obj)}
	gbest := Best{Position: vmath.V2(0, 0), Fitness: pop[0].BestFitness}
	rng := &scriptedRand{vals: []float64{1}}

	Update(pop, gbest, obj, DefaultParams().Coefficients, vmath.V2(1200, 640), rng)

	if pop[0].Velocity != (vmath.Vec2{}) {
		t.Errorf("velocity = %v, want zero", pop[0].Velocity)
	}
	if pop[0].Position != (vmath.Vec2{}) {
		t.Errorf("position = %v, want (0,0)", pop[0].Position)
	}
}

func TestUpdateVelocityRule(t *testing.T) {
	obj := Objective{Optimum: vmath.V2(0, 0)}
	c := Coefficients{Inertia: 0.95, Cognitive: 1.4, Social: 1.4, StepScale: 0.01}

	p := NewParticle(vmath.V2(10, -20), vmath.V2(2, 4), obj)
	p.BestPosition = vmath.V2(0, 0)
	pop := Population{p}
	gbest := Best{Position: vmath.V2(30, 40)}
	rng := &scriptedRand{vals: []float64{0.5, 0.25}}

	Update(pop, gbest, obj, c, vmath.V2(1200, 640), rng)

	wantVel := vmath.V2(
		0.95*2+0.5*1.4*(0-10)+0.25*1.4*(30-10),
		0.95*4+0.5*1.4*(0+20)+0.25*1.4*(40+20),
	)
	if !nearVec(pop[0].Velocity, wantVel) {
		t.Errorf("velocity = %v, want %v", pop[0].Velocity, wantVel)
	}

	wantPos := vmath.V2(10+wantVel.X*0.01, -20+wantVel.Y*0.01)
	if !nearVec(pop[0].Position, wantPos) {
		t.Errorf("position = %v, want %v", pop[0].Position, wantPos)
	}
}

func TestUpdateDrawsTwoPerParticle(t *testing.T) {
	s := newTestSim(t, 25, 3)
	rng := &scriptedRand{vals: []float64{0.1, 0.7, 0.3}}
	p := s.Params()
	Update(s.Population(), GlobalBest(s.Population()), p.Objective, p.Coefficients, p.Bounds, rng)

	if rng.calls != 50 {
		t.Errorf("random draws = %d, want 2 per particle (50)", rng.calls)
	}
}

func TestUpdateClampKeepsVelocity(t *testing.T) {
	obj := DefaultObjective()
	bounds := vmath.V2(1200, 640)
	c := Coefficients{Inertia: 1, StepScale: 1}

	pop := Population{NewParticle(vmath.V2(590, -310), vmath.V2(50, -50), obj)}
	Update(pop, GlobalBest(pop), obj, c, bounds, &scriptedRand{vals: []float64{0}})

	if pop[0].Position != vmath.V2(600, -320) {
		t.Errorf("position = %v, want clamped to (600,-320)", pop[0].Position)
	}
	if pop[0].Velocity != vmath.V2(50, -50) {
		t.Errorf("velocity = %v, want unchanged (50,-50)", pop[0].Velocity)
	}
}

func TestUpdateRechecksPersonalBestAfterMove(t *testing.T) {
	obj := Objective{Optimum: vmath.V2(100, 0)}
	c := Coefficients{Inertia: 1, StepScale: 1}

	pop := Population{NewParticle(vmath.V2(0, 0), vmath.V2(40, 0), obj)}
	Update(pop, GlobalBest(pop), obj, c, vmath.V2(1200, 640), &scriptedRand{vals: []float64{0}})

	if pop[0].BestPosition != vmath.V2(40, 0) {
		t.Errorf("BestPosition = %v, want post-move (40,0)", pop[0].BestPosition)
	}
	if !near(pop[0].BestFitness, 0.94) {
		t.Errorf("BestFitness = %v, want 0.94", pop[0].BestFitness)
	}
}

// ============================================================================
// Invariants over a running simulation
// ============================================================================

func TestMonotonicPersonalBest(t *testing.T) {
	s := newTestSim(t, 50, 2024)
	prev := make([]float64, 50)
	for i, p := range s.Population() {
		prev[i] = p.BestFitness
	}

	for tick := 0; tick < 500; tick++ {
		s.Tick(1.0 / 60)
		for i, p := range s.Population() {
			if p.BestFitness < prev[i] {
				t.Fatalf("tick %d particle %d: best fitness fell %v -> %v", tick, i, prev[i], p.BestFitness)
			}
			if !near(s.Params().Objective.Fitness(p.BestPosition), p.BestFitness) {
				t.Fatalf("tick %d particle %d: best position does not score best fitness", tick, i)
			}
			prev[i] = p.BestFitness
		}
	}
}

func TestPositionClampInvariant(t *testing.T) {
	p := DefaultParams()
	p.Population = 60
	p.InitialSpeed = 5000 // push particles into the walls
	s, err := NewSimulation(p, 5)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	for tick := 0; tick < 300; tick++ {
		s.Tick(1.0 / 60)
		for i, part := range s.Population() {
			if !vmath.V2InBounds(part.Position, p.Bounds) {
				t.Fatalf("tick %d particle %d escaped bounds: %v", tick, i, part.Position)
			}
		}
		if !vmath.V2InBounds(s.Predator().Position, p.Bounds) {
			t.Fatalf("tick %d predator escaped bounds: %v", tick, s.Predator().Position)
		}
	}
}

func TestSwarmConvergesTowardOptimum(t *testing.T) {
	s := newTestSim(t, 100, 77)
	start := s.Last().Best.Fitness

	var res Result
	for i := 0; i < 2000; i++ {
		res = s.Tick(1.0 / 60)
	}
	if res.Best.Fitness < start {
		t.Errorf("global best regressed: %v -> %v", start, res.Best.Fitness)
	}
	if res.Tick != 2000 || s.TickCount() != 2000 {
		t.Errorf("tick counter = %d/%d, want 2000", res.Tick, s.TickCount())
	}
}

// ============================================================================
// Setup
// ============================================================================

func TestNewSimulationSeeding(t *testing.T) {
	s := newTestSim(t, 100, 9)
	p := s.Params()

	if got := len(s.Population()); got != 100 {
		t.Fatalf("population = %d, want 100", got)
	}
	for i, part := range s.Population() {
		if !vmath.V2InBounds(part.Position, p.Bounds) {
			t.Errorf("particle %d seeded out of bounds: %v", i, part.Position)
		}
		if math.Abs(part.Velocity.X) > p.InitialSpeed || math.Abs(part.Velocity.Y) > p.InitialSpeed {
			t.Errorf("particle %d initial velocity too large: %v", i, part.Velocity)
		}
	}

	pred := s.Predator().Position
	if math.Abs(pred.X) > p.Bounds.X/4 || math.Abs(pred.Y) > p.Bounds.Y/4 {
		t.Errorf("predator seeded outside quarter bounds: %v", pred)
	}
}

func TestNewSimulationSameSeedSameWorld(t *testing.T) {
	a := newTestSim(t, 30, 1234)
	b := newTestSim(t, 30, 1234)
	for i := 0; i < 50; i++ {
		ra, rb := a.Tick(0.016), b.Tick(0.016)
		if ra != rb {
			t.Fatalf("tick %d diverged: %+v vs %+v", i, ra, rb)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"empty population", func(p *Params) { p.Population = 0 }},
		{"zero width", func(p *Params) { p.Bounds.X = 0 }},
		{"negative height", func(p *Params) { p.Bounds.Y = -1 }},
		{"zero step scale", func(p *Params) { p.Coefficients.StepScale = 0 }},
		{"negative stopping distance", func(p *Params) { p.Predator.StoppingDistance = -1 }},
		{"negative speed", func(p *Params) { p.Predator.Speed = -5 }},
		{"negative initial speed", func(p *Params) { p.InitialSpeed = -1 }},
		{"NaN inertia", func(p *Params) { p.Coefficients.Inertia = math.NaN() }},
		{"infinite width", func(p *Params) { p.Bounds.X = math.Inf(1) }},
		{"infinite optimum", func(p *Params) { p.Objective.Optimum.Y = math.Inf(-1) }},
		{"NaN predator speed", func(p *Params) { p.Predator.Speed = math.NaN() }},
	}

	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Validate() = %v, want ErrInvalidParams", err)
			}
			if _, err := NewSimulation(p, 1); err == nil {
				t.Error("NewSimulation accepted invalid params")
			}
		})
	}
}

func TestTickIgnoresBadDelta(t *testing.T) {
	for _, dt := range []float64{math.NaN(), math.Inf(1), -1} {
		s := newTestSim(t, 20, 3)
		before := s.Predator().Position

		res := s.Tick(dt)

		if got := s.Predator().Position; got != before {
			t.Errorf("dt=%v: predator moved %v -> %v", dt, before, got)
		}
		if !vmath.Finite(res.Best.Fitness) {
			t.Errorf("dt=%v: best fitness %v not finite", dt, res.Best.Fitness)
		}
		for i, p := range s.Population() {
			if !vmath.Finite(p.Position.X) || !vmath.Finite(p.Position.Y) {
				t.Fatalf("dt=%v: particle %d position %v not finite", dt, i, p.Position)
			}
		}
	}
}

// ============================================================================
// Dispersion
// ============================================================================

func TestSpread(t *testing.T) {
	pop := Population{
		{Position: vmath.V2(3, 4)},
		{Position: vmath.V2(0, 0)},
		{Position: vmath.V2(-6, 8)},
	}
	d := Spread(pop, vmath.Vec2{})
	if !near(d.Mean, 5) {
		t.Errorf("Mean = %v, want 5", d.Mean)
	}
	if !near(d.StdDev, 5) {
		t.Errorf("StdDev = %v, want 5", d.StdDev)
	}
	if d.Max != 10 {
		t.Errorf("Max = %v, want 10", d.Max)
	}

	single := Spread(Population{{Position: vmath.V2(0, 2)}}, vmath.Vec2{})
	if single.Mean != 2 || single.StdDev != 0 {
		t.Errorf("single-particle spread = %+v, want mean 2 std 0", single)
	}
}
