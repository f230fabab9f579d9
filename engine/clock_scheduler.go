package engine

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/status"
	"github.com/lixenwraith/galileo/swarm"
)

// Observer receives every tick result on the scheduler goroutine while the simulation lock is held
// Implementations must not block and must not call back into the scheduler
type Observer interface {
	OnTick(res swarm.Result, sim *swarm.Simulation)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(res swarm.Result, sim *swarm.Simulation)

func (f ObserverFunc) OnTick(res swarm.Result, sim *swarm.Simulation) {
	f(res, sim)
}

// ClockScheduler owns a Simulation and advances it on a fixed tick
// Ticks never overlap; readers go through View, which shares the tick lock
type ClockScheduler struct {
	mu  sync.Mutex
	sim *swarm.Simulation

	clock *PausableClock

	// Tick configuration
	tickInterval     time.Duration
	maxDelta         time.Duration
	lastTickTime     time.Time // last tick in simulation time
	nextTickDeadline time.Time // next deadline for drift correction

	observers []Observer
	telemetry *Telemetry

	// Control
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// updates signals the render loop that a new tick is visible
	updates chan struct{}
}

// NewClockScheduler creates a scheduler ticking sim every tickInterval
// A non-positive tickInterval falls back to parameter.TickInterval
func NewClockScheduler(sim *swarm.Simulation, clock *PausableClock, reg *status.Registry, tickInterval time.Duration) *ClockScheduler {
	if tickInterval <= 0 {
		tickInterval = parameter.TickInterval
	}
	if clock == nil {
		clock = NewPausableClock(nil)
	}
	if reg == nil {
		reg = status.NewRegistry()
	}

	return &ClockScheduler{
		sim:          sim,
		clock:        clock,
		tickInterval: tickInterval,
		maxDelta:     parameter.MaxTickDelta,
		lastTickTime: clock.Now(),
		telemetry:    NewTelemetry(reg),
		stopChan:     make(chan struct{}),
		updates:      make(chan struct{}, 1),
	}
}

// AddObserver registers an observer, must be called before Start
func (cs *ClockScheduler) AddObserver(o Observer) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.observers = append(cs.observers, o)
}

// Updates is signaled (non-blocking, buffered 1) after each tick
func (cs *ClockScheduler) Updates() <-chan struct{} {
	return cs.updates
}

// TickInterval returns the fixed tick period
func (cs *ClockScheduler) TickInterval() time.Duration {
	return cs.tickInterval
}

// View runs fn with exclusive access to the simulation between ticks
func (cs *ClockScheduler) View(fn func(sim *swarm.Simulation)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	fn(cs.sim)
}

// Start begins the scheduler loop; it exits on Stop or when ctx is done
func (cs *ClockScheduler) Start(ctx context.Context) {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		log.Printf("scheduler: start, interval %v", cs.tickInterval)
		Go(func() { cs.schedulerLoop(ctx) })
	}
}

// Stop halts the scheduler loop and waits for it to exit
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		close(cs.stopChan)
		cs.wg.Wait()
		cs.running.Store(false)
		log.Printf("scheduler: stop after %d ticks", cs.ticks())
	})
}

// TogglePause flips the pause state and returns it
func (cs *ClockScheduler) TogglePause() bool {
	paused := cs.clock.Toggle()
	cs.telemetry.SetPaused(paused)
	return paused
}

func (cs *ClockScheduler) IsPaused() bool {
	return cs.clock.IsPaused()
}

// Advance runs n ticks synchronously with a fixed dt, bypassing the clock
// Used by headless runs and tests; must not be mixed with a running loop
func (cs *ClockScheduler) Advance(n int, dt time.Duration) swarm.Result {
	var res swarm.Result
	for i := 0; i < n; i++ {
		res = cs.step(dt)
	}
	return res
}

// schedulerLoop runs the fixed-step loop with pause awareness and drift correction
func (cs *ClockScheduler) schedulerLoop(ctx context.Context) {
	defer cs.wg.Done()

	cs.lastTickTime = cs.clock.Now()
	deadline := cs.lastTickTime.Add(cs.tickInterval)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cs.stopChan:
			return
		default:
		}

		var sleepDuration time.Duration

		if cs.clock.IsPaused() {
			// Longer sleep while paused to save CPU
			sleepDuration = cs.tickInterval * 2
		} else {
			now := cs.clock.Now()
			if !now.Before(deadline) {
				dt := now.Sub(cs.lastTickTime)
				cs.lastTickTime = now
				cs.step(dt)

				deadline = deadline.Add(cs.tickInterval)
				if now.Sub(deadline) > cs.tickInterval*parameter.MaxTickLag {
					deadline = now.Add(cs.tickInterval)
				}
				sleepDuration = deadline.Sub(cs.clock.Now())
			} else {
				sleepDuration = deadline.Sub(now)
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-ctx.Done():
				return
			case <-cs.stopChan:
				return
			}
		}
	}
}

// step executes one tick: simulation, observers, telemetry, render signal
func (cs *ClockScheduler) step(dt time.Duration) swarm.Result {
	if dt > cs.maxDelta {
		dt = cs.maxDelta
	}
	if dt < 0 {
		dt = 0
	}

	cs.mu.Lock()
	res := cs.sim.Tick(dt.Seconds())
	for _, o := range cs.observers {
		o.OnTick(res, cs.sim)
	}
	cs.mu.Unlock()

	cs.telemetry.Publish(res, dt)

	select {
	case cs.updates <- struct{}{}:
	default:
	}
	return res
}

func (cs *ClockScheduler) ticks() uint64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.sim.TickCount()
}
