package swarm

import (
	"math"
	"testing"

	"github.com/lixenwraith/galileo/vmath"
)

var testBounds = vmath.V2(1200, 640)

func popAt(points ...vmath.Vec2) Population {
	pop := make(Population, len(points))
	for i, p := range points {
		pop[i] = Particle{Position: p}
	}
	return pop
}

func TestPursueMovesTowardNearest(t *testing.T) {
	pr := Predator{Facing: vmath.V2(0, 1)}
	pop := popAt(vmath.V2(100, 0), vmath.V2(-300, 200))
	dt := 1.0 / 60

	got := pr.Pursue(pop, dt, DefaultParams().Predator, testBounds)

	if got.State != Pursuing || got.Nearest != 0 || got.Distance != 100 {
		t.Errorf("pursuit = %+v, want Pursuing slot 0 at 100", got)
	}
	if !nearVec(pr.Position, vmath.V2(100*dt, 0)) {
		t.Errorf("position = %v, want (%v, 0)", pr.Position, 100*dt)
	}
	if !nearVec(pr.Facing, vmath.V2(1, 0)) {
		t.Errorf("facing = %v, want +x", pr.Facing)
	}
	if !nearVec(pr.Velocity, vmath.V2(100*dt, 0)) {
		t.Errorf("velocity = %v, want displacement (%v, 0)", pr.Velocity, 100*dt)
	}
}

func TestPursueStateTransition(t *testing.T) {
	profile := PredatorProfile{StoppingDistance: 50, Speed: 100}

	tests := []struct {
		name      string
		target    vmath.Vec2
		wantState PredatorState
		wantMoved bool
	}{
		{"beyond threshold", vmath.V2(60, 0), Pursuing, true},
		{"inside threshold", vmath.V2(0, 30), Holding, false},
		{"exactly at threshold", vmath.V2(-50, 0), Holding, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr := Predator{Facing: vmath.V2(0, -1)}
			got := pr.Pursue(popAt(tt.target), 0.1, profile, testBounds)

			if got.State != tt.wantState || pr.State != tt.wantState {
				t.Errorf("state = %v/%v, want %v", got.State, pr.State, tt.wantState)
			}

			moved := pr.Position != (vmath.Vec2{})
			if moved != tt.wantMoved {
				t.Errorf("moved = %v (position %v), want %v", moved, pr.Position, tt.wantMoved)
			}

			wantFacing, _ := vmath.V2Normalize(tt.target)
			if !nearVec(pr.Facing, wantFacing) {
				t.Errorf("facing = %v, want %v", pr.Facing, wantFacing)
			}
		})
	}
}

func TestPursueHoldingZeroesVelocity(t *testing.T) {
	pr := Predator{Velocity: vmath.V2(3, 3), Facing: vmath.V2(1, 0)}
	pr.Pursue(popAt(vmath.V2(10, 10)), 0.1, DefaultParams().Predator, testBounds)
	if pr.Velocity != (vmath.Vec2{}) {
		t.Errorf("holding velocity = %v, want zero", pr.Velocity)
	}
}

func TestPursueCoincidentKeepsFacing(t *testing.T) {
	facing := vmath.V2(0, 1)
	pr := Predator{Position: vmath.V2(5, 5), Facing: facing}

	got := pr.Pursue(popAt(vmath.V2(5, 5), vmath.V2(400, 0)), 0.1, DefaultParams().Predator, testBounds)

	if got.State != Holding || got.Distance != 0 || got.Nearest != 0 {
		t.Errorf("pursuit = %+v, want Holding on slot 0 at distance 0", got)
	}
	if pr.Facing != facing {
		t.Errorf("facing changed to %v on zero-length direction", pr.Facing)
	}
	if math.IsNaN(pr.Position.X) || math.IsNaN(pr.Position.Y) || pr.Position != vmath.V2(5, 5) {
		t.Errorf("position = %v, want unchanged (5,5)", pr.Position)
	}
}

func TestPursueEmptyPopulation(t *testing.T) {
	pr := Predator{Position: vmath.V2(1, 2), Facing: vmath.V2(1, 0)}
	got := pr.Pursue(nil, 0.1, DefaultParams().Predator, testBounds)

	if got.State != Holding || got.Nearest != -1 || !math.IsInf(got.Distance, 1) {
		t.Errorf("pursuit = %+v, want Holding with no target", got)
	}
	if pr.Position != vmath.V2(1, 2) {
		t.Errorf("position = %v, want unchanged", pr.Position)
	}
}

func TestPursueTieGoesToFirst(t *testing.T) {
	pr := Predator{}
	got := pr.Pursue(popAt(vmath.V2(0, 200), vmath.V2(200, 0), vmath.V2(0, -200)), 0.1, DefaultParams().Predator, testBounds)
	if got.Nearest != 0 {
		t.Errorf("nearest = %d, want first equidistant slot 0", got.Nearest)
	}
	if !nearVec(pr.Facing, vmath.V2(0, 1)) {
		t.Errorf("facing = %v, want +y toward slot 0", pr.Facing)
	}
}

func TestPursueScalesWithElapsedTime(t *testing.T) {
	profile := PredatorProfile{StoppingDistance: 50, Speed: 100}
	for _, dt := range []float64{1.0 / 120, 1.0 / 60, 0.25} {
		pr := Predator{}
		pr.Pursue(popAt(vmath.V2(0, 500)), dt, profile, testBounds)
		if !near(pr.Position.Y, 100*dt) {
			t.Errorf("dt %v: moved %v, want %v", dt, pr.Position.Y, 100*dt)
		}
	}
}

func TestPursueClampsToBounds(t *testing.T) {
	pr := Predator{Position: vmath.V2(595, 0)}
	pr.Pursue(popAt(vmath.V2(600, 0), vmath.V2(-600, 0)), 0.1, PredatorProfile{StoppingDistance: 0, Speed: 1000}, testBounds)
	if pr.Position.X != 600 {
		t.Errorf("x = %v, want clamped to 600", pr.Position.X)
	}
}

func TestPredatorStateString(t *testing.T) {
	tests := []struct {
		state PredatorState
		want  string
	}{
		{Holding, "Holding"},
		{Pursuing, "Pursuing"},
		{PredatorState(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("PredatorState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestTickMovesPredatorAfterSwarm(t *testing.T) {
	p := DefaultParams()
	p.Population = 1
	p.Predator.StoppingDistance = 0
	s, err := NewSimulation(p, 8)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	res := s.Tick(0.5)
	moved := s.Population()[0].Position

	start := vmath.V2Sub(s.Predator().Position, s.Predator().Velocity)
	want := vmath.V2Dist(start, moved)
	if !near(res.Pursuit.Distance, want) {
		t.Errorf("pursuit distance %v measured against a stale particle position (want %v)", res.Pursuit.Distance, want)
	}
}
