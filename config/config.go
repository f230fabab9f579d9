// Package config loads run configuration from an optional TOML file layered over parameter defaults
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/swarm"
	"github.com/lixenwraith/galileo/vmath"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Seed     uint64         `toml:"seed"`
	Swarm    SwarmConfig    `toml:"swarm"`
	World    WorldConfig    `toml:"world"`
	Predator PredatorConfig `toml:"predator"`
	Engine   EngineConfig   `toml:"engine"`
	Trace    TraceConfig    `toml:"trace"`
	Audio    AudioConfig    `toml:"audio"`
}

type SwarmConfig struct {
	Population   int     `toml:"population"`
	InitialSpeed float64 `toml:"initial_speed"`
	Inertia      float64 `toml:"inertia"`
	Cognitive    float64 `toml:"cognitive"`
	Social       float64 `toml:"social"`
	StepScale    float64 `toml:"step_scale"`
}

type WorldConfig struct {
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	OptimumX float64 `toml:"optimum_x"`
	OptimumY float64 `toml:"optimum_y"`
}

type PredatorConfig struct {
	StoppingDistance float64 `toml:"stopping_distance"`
	Speed            float64 `toml:"speed"`
}

type EngineConfig struct {
	TickRate      int    `toml:"tick_rate"` // Hz
	CheckpointDir string `toml:"checkpoint_dir"`
}

type TraceConfig struct {
	Enabled       bool   `toml:"enabled"`
	Backend       string `toml:"backend"` // memory | sqlite
	Path          string `toml:"path"`
	FlushEvery    int    `toml:"flush_every"`
	SnapshotEvery int    `toml:"snapshot_every"`
}

type AudioConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default mirrors the parameter package
func Default() Config {
	return Config{
		Seed: 1,
		Swarm: SwarmConfig{
			Population:   parameter.SwarmPopulation,
			InitialSpeed: parameter.SwarmInitialSpeed,
			Inertia:      parameter.SwarmInertia,
			Cognitive:    parameter.SwarmCognitive,
			Social:       parameter.SwarmSocial,
			StepScale:    parameter.SwarmStepScale,
		},
		World: WorldConfig{
			Width:    parameter.WorldWidth,
			Height:   parameter.WorldHeight,
			OptimumX: parameter.FitnessOptimumX,
			OptimumY: parameter.FitnessOptimumY,
		},
		Predator: PredatorConfig{
			StoppingDistance: parameter.PredatorStoppingDistance,
			Speed:            parameter.PredatorSpeed,
		},
		Engine: EngineConfig{
			TickRate:      parameter.TickRate,
			CheckpointDir: parameter.CheckpointDir,
		},
		Trace: TraceConfig{
			Backend:       "sqlite",
			Path:          parameter.TracePath,
			FlushEvery:    parameter.TraceFlushEvery,
			SnapshotEvery: parameter.TraceSnapshotEvery,
		},
		Audio: AudioConfig{Enabled: true},
	}
}

// Load decodes path over Default; an empty path returns the defaults
// Keys not present in Config are rejected. Values are not validated here so
// command line overrides can still apply; call Validate on the final Config
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}

	log.Printf("config: loaded %s", path)
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Engine.TickRate < 1 || c.Engine.TickRate > 1000 {
		return fmt.Errorf("%w: engine.tick_rate %d outside [1, 1000]", ErrInvalid, c.Engine.TickRate)
	}
	switch c.Trace.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("%w: trace.backend %q", ErrInvalid, c.Trace.Backend)
	}
	if c.Trace.Enabled && c.Trace.Backend == "sqlite" && c.Trace.Path == "" {
		return fmt.Errorf("%w: trace.path required for sqlite backend", ErrInvalid)
	}
	if c.Trace.FlushEvery < 1 || c.Trace.SnapshotEvery < 1 {
		return fmt.Errorf("%w: trace intervals must be positive", ErrInvalid)
	}
	if err := c.SimParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// SimParams projects the swarm-facing sections into simulation parameters
func (c Config) SimParams() swarm.Params {
	return swarm.Params{
		Population:   c.Swarm.Population,
		Bounds:       vmath.V2(c.World.Width, c.World.Height),
		InitialSpeed: c.Swarm.InitialSpeed,
		Objective:    swarm.Objective{Optimum: vmath.V2(c.World.OptimumX, c.World.OptimumY)},
		Coefficients: swarm.Coefficients{
			Inertia:   c.Swarm.Inertia,
			Cognitive: c.Swarm.Cognitive,
			Social:    c.Swarm.Social,
			StepScale: c.Swarm.StepScale,
		},
		Predator: swarm.PredatorProfile{
			StoppingDistance: c.Predator.StoppingDistance,
			Speed:            c.Predator.Speed,
		},
	}
}

func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Engine.TickRate)
}
