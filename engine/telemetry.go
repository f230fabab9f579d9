package engine

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/galileo/status"
	"github.com/lixenwraith/galileo/swarm"
)

// Telemetry metric keys
const (
	MetricTicks        = "engine.ticks"
	MetricPaused       = "engine.paused"
	MetricTickDelta    = "engine.dt_ms"
	MetricBestFitness  = "swarm.best_fitness"
	MetricBestX        = "swarm.best_x"
	MetricBestY        = "swarm.best_y"
	MetricSpreadMean   = "swarm.spread_mean"
	MetricSpreadStdDev = "swarm.spread_std"
	MetricPredatorDist = "predator.distance"
	MetricPredatorHold = "predator.holding"
	MetricPredatorPrey = "predator.nearest"
	MetricPredatorMode = "predator.state"
)

// Telemetry caches registry pointers and publishes one tick result at a time
type Telemetry struct {
	ticks      *atomic.Int64
	paused     *atomic.Bool
	dt         *status.AtomicFloat
	best       *status.AtomicFloat
	bestX      *status.AtomicFloat
	bestY      *status.AtomicFloat
	spreadMean *status.AtomicFloat
	spreadStd  *status.AtomicFloat
	predDist   *status.AtomicFloat
	predHold   *atomic.Bool
	predPrey   *atomic.Int64
	predMode   *status.AtomicString
}

// NewTelemetry registers all simulation metrics in reg
func NewTelemetry(reg *status.Registry) *Telemetry {
	return &Telemetry{
		ticks:      reg.Ints.Get(MetricTicks),
		paused:     reg.Bools.Get(MetricPaused),
		dt:         reg.Floats.Get(MetricTickDelta),
		best:       reg.Floats.Get(MetricBestFitness),
		bestX:      reg.Floats.Get(MetricBestX),
		bestY:      reg.Floats.Get(MetricBestY),
		spreadMean: reg.Floats.Get(MetricSpreadMean),
		spreadStd:  reg.Floats.Get(MetricSpreadStdDev),
		predDist:   reg.Floats.Get(MetricPredatorDist),
		predHold:   reg.Bools.Get(MetricPredatorHold),
		predPrey:   reg.Ints.Get(MetricPredatorPrey),
		predMode:   reg.Strings.Get(MetricPredatorMode),
	}
}

// Publish stores a tick result and the delta it was run with
func (t *Telemetry) Publish(res swarm.Result, dt time.Duration) {
	t.ticks.Store(int64(res.Tick))
	t.dt.Set(float64(dt) / float64(time.Millisecond))
	t.best.Set(res.Best.Fitness)
	t.bestX.Set(res.Best.Position.X)
	t.bestY.Set(res.Best.Position.Y)
	t.spreadMean.Set(res.Dispersion.Mean)
	t.spreadStd.Set(res.Dispersion.StdDev)
	t.predDist.Set(res.Pursuit.Distance)
	t.predHold.Store(res.Pursuit.State == swarm.Holding)
	t.predPrey.Store(int64(res.Pursuit.Nearest))
	t.predMode.Store(res.Pursuit.State.String())
}

func (t *Telemetry) SetPaused(paused bool) {
	t.paused.Store(paused)
}
