package swarm

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/vmath"
)

// ErrInvalidParams is returned when simulation parameters violate a precondition
var ErrInvalidParams = errors.New("invalid simulation parameters")

// Coefficients are the PSO velocity rule weights
type Coefficients struct {
	Inertia   float64 `json:"inertia" toml:"inertia"`
	Cognitive float64 `json:"cognitive" toml:"cognitive"`
	Social    float64 `json:"social" toml:"social"`
	StepScale float64 `json:"step_scale" toml:"step_scale"`
}

// PredatorProfile defines pursuit behavior parameters
type PredatorProfile struct {
	StoppingDistance float64 `json:"stopping_distance" toml:"stopping_distance"`
	Speed            float64 `json:"speed" toml:"speed"` // world units per second
}

// Params is the immutable configuration of one simulation run
type Params struct {
	Population   int             `json:"population" toml:"population"`
	Bounds       vmath.Vec2      `json:"bounds" toml:"bounds"`
	InitialSpeed float64         `json:"initial_speed" toml:"initial_speed"`
	Objective    Objective       `json:"objective" toml:"objective"`
	Coefficients Coefficients    `json:"coefficients" toml:"coefficients"`
	Predator     PredatorProfile `json:"predator" toml:"predator"`
}

// DefaultParams returns the parameter package defaults
func DefaultParams() Params {
	return Params{
		Population:   parameter.SwarmPopulation,
		Bounds:       vmath.V2(parameter.WorldWidth, parameter.WorldHeight),
		InitialSpeed: parameter.SwarmInitialSpeed,
		Objective:    DefaultObjective(),
		Coefficients: Coefficients{
			Inertia:   parameter.SwarmInertia,
			Cognitive: parameter.SwarmCognitive,
			Social:    parameter.SwarmSocial,
			StepScale: parameter.SwarmStepScale,
		},
		Predator: PredatorProfile{
			StoppingDistance: parameter.PredatorStoppingDistance,
			Speed:            parameter.PredatorSpeed,
		},
	}
}

// Validate checks the preconditions the tick loop relies on
func (p Params) Validate() error {
	if name, ok := p.firstNonFinite(); ok {
		return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, name)
	}
	switch {
	case p.Population < 1:
		return fmt.Errorf("%w: population %d, need at least 1", ErrInvalidParams, p.Population)
	case p.Bounds.X <= 0 || p.Bounds.Y <= 0:
		return fmt.Errorf("%w: bounds %vx%v must be positive", ErrInvalidParams, p.Bounds.X, p.Bounds.Y)
	case p.InitialSpeed < 0:
		return fmt.Errorf("%w: initial speed %v is negative", ErrInvalidParams, p.InitialSpeed)
	case p.Coefficients.StepScale <= 0:
		return fmt.Errorf("%w: step scale %v must be positive", ErrInvalidParams, p.Coefficients.StepScale)
	case p.Predator.StoppingDistance < 0:
		return fmt.Errorf("%w: stopping distance %v is negative", ErrInvalidParams, p.Predator.StoppingDistance)
	case p.Predator.Speed < 0:
		return fmt.Errorf("%w: predator speed %v is negative", ErrInvalidParams, p.Predator.Speed)
	}
	return nil
}

func (p Params) firstNonFinite() (string, bool) {
	fields := []struct {
		name string
		v    float64
	}{
		{"bounds.x", p.Bounds.X},
		{"bounds.y", p.Bounds.Y},
		{"initial speed", p.InitialSpeed},
		{"optimum.x", p.Objective.Optimum.X},
		{"optimum.y", p.Objective.Optimum.Y},
		{"inertia", p.Coefficients.Inertia},
		{"cognitive", p.Coefficients.Cognitive},
		{"social", p.Coefficients.Social},
		{"step scale", p.Coefficients.StepScale},
		{"stopping distance", p.Predator.StoppingDistance},
		{"predator speed", p.Predator.Speed},
	}
	for _, f := range fields {
		if !vmath.Finite(f.v) {
			return f.name, true
		}
	}
	return "", false
}
