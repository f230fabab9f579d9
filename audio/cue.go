package audio

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/galileo/engine"
	"github.com/lixenwraith/galileo/swarm"
)

// CatchCue is a scheduler observer that beeps when the predator closes on its prey
// It fires on the transition into Holding, at most once per cooldown
type CatchCue struct {
	player   Player
	clock    engine.TimeProvider
	freq     float64
	duration time.Duration
	cooldown time.Duration

	wasHolding bool
	lastCue    time.Time
	fired      atomic.Int64
}

// NewCatchCue creates the cue, nil clock uses system time
func NewCatchCue(player Player, clock engine.TimeProvider, config *AudioConfig) *CatchCue {
	if config == nil {
		config = DefaultAudioConfig()
	}
	if clock == nil {
		clock = engine.SystemTime{}
	}
	return &CatchCue{
		player:   player,
		clock:    clock,
		freq:     config.Frequency,
		duration: config.Duration,
		cooldown: config.Cooldown,
	}
}

func (c *CatchCue) OnTick(res swarm.Result, _ *swarm.Simulation) {
	caught := res.Pursuit.State == swarm.Holding && res.Pursuit.Nearest >= 0
	edge := caught && !c.wasHolding
	c.wasHolding = caught
	if !edge {
		return
	}

	now := c.clock.Now()
	if !c.lastCue.IsZero() && now.Sub(c.lastCue) < c.cooldown {
		return
	}
	c.lastCue = now
	c.fired.Add(1)
	c.player.PlayTone(c.freq, c.duration)
}

// Fired counts cues that passed edge and cooldown checks
func (c *CatchCue) Fired() int64 {
	return c.fired.Load()
}
