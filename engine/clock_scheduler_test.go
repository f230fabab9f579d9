package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/galileo/status"
	"github.com/lixenwraith/galileo/swarm"
)

func newTestScheduler(t *testing.T, interval time.Duration) (*ClockScheduler, *status.Registry) {
	t.Helper()
	p := swarm.DefaultParams()
	p.Population = 16
	sim, err := swarm.NewSimulation(p, 99)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	reg := status.NewRegistry()
	return NewClockScheduler(sim, NewPausableClock(nil), reg, interval), reg
}

func TestAdvanceRunsTicksInOrder(t *testing.T) {
	cs, _ := newTestScheduler(t, 0)

	var seen []uint64
	cs.AddObserver(ObserverFunc(func(res swarm.Result, sim *swarm.Simulation) {
		if sim.TickCount() != res.Tick {
			t.Errorf("observer saw tick %d while simulation reports %d", res.Tick, sim.TickCount())
		}
		seen = append(seen, res.Tick)
	}))

	res := cs.Advance(5, 16*time.Millisecond)
	if res.Tick != 5 {
		t.Errorf("last tick = %d, want 5", res.Tick)
	}
	for i, tick := range seen {
		if tick != uint64(i+1) {
			t.Fatalf("observer order %v, want 1..5", seen)
		}
	}
}

func TestAdvancePublishesTelemetry(t *testing.T) {
	cs, reg := newTestScheduler(t, 0)
	res := cs.Advance(3, 20*time.Millisecond)

	if got := reg.Ints.Get(MetricTicks).Load(); got != 3 {
		t.Errorf("%s = %d, want 3", MetricTicks, got)
	}
	if got := reg.Floats.Get(MetricBestFitness).Get(); got != res.Best.Fitness {
		t.Errorf("%s = %v, want %v", MetricBestFitness, got, res.Best.Fitness)
	}
	if got := reg.Floats.Get(MetricTickDelta).Get(); got != 20 {
		t.Errorf("%s = %v, want 20", MetricTickDelta, got)
	}
	if got := reg.Strings.Get(MetricPredatorMode).Load(); got != res.Pursuit.State.String() {
		t.Errorf("%s = %q, want %q", MetricPredatorMode, got, res.Pursuit.State)
	}
}

func TestAdvanceCapsDelta(t *testing.T) {
	cs, reg := newTestScheduler(t, 0)
	cs.Advance(1, 10*time.Second)

	if got := reg.Floats.Get(MetricTickDelta).Get(); got != 250 {
		t.Errorf("capped dt = %vms, want 250ms", got)
	}
}

func TestAdvanceSignalsUpdates(t *testing.T) {
	cs, _ := newTestScheduler(t, 0)
	cs.Advance(3, time.Millisecond)

	select {
	case <-cs.Updates():
	default:
		t.Fatal("no update signal after ticks")
	}
	select {
	case <-cs.Updates():
		t.Fatal("update signal should coalesce to one pending")
	default:
	}
}

func TestSchedulerLoopTicks(t *testing.T) {
	cs, reg := newTestScheduler(t, 2*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cs.Start(ctx)
	deadline := time.After(2 * time.Second)
	for reg.Ints.Get(MetricTicks).Load() < 5 {
		select {
		case <-cs.Updates():
		case <-deadline:
			t.Fatalf("only %d ticks after 2s", reg.Ints.Get(MetricTicks).Load())
		}
	}
	cs.Stop()
	cs.Stop() // idempotent

	after := reg.Ints.Get(MetricTicks).Load()
	time.Sleep(20 * time.Millisecond)
	if got := reg.Ints.Get(MetricTicks).Load(); got != after {
		t.Errorf("ticks advanced after Stop: %d -> %d", after, got)
	}
}

func TestSchedulerLoopStopsOnContext(t *testing.T) {
	cs, _ := newTestScheduler(t, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cs.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		cs.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not exit after context cancel")
	}
}

func TestSchedulerPauseHaltsTicks(t *testing.T) {
	cs, reg := newTestScheduler(t, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer cs.Stop()

	if !cs.TogglePause() || !reg.Bools.Get(MetricPaused).Load() {
		t.Fatal("TogglePause should report and publish paused")
	}
	cs.Start(ctx)
	time.Sleep(30 * time.Millisecond)

	if got := reg.Ints.Get(MetricTicks).Load(); got != 0 {
		t.Errorf("ticks while paused = %d, want 0", got)
	}

	cs.TogglePause()
	select {
	case <-cs.Updates():
	case <-time.After(time.Second):
		t.Fatal("no tick after resume")
	}
}

func TestViewSeesConsistentState(t *testing.T) {
	cs, _ := newTestScheduler(t, 0)
	cs.Advance(2, time.Millisecond)

	cs.View(func(sim *swarm.Simulation) {
		if sim.TickCount() != 2 {
			t.Errorf("TickCount in View = %d, want 2", sim.TickCount())
		}
		if sim.Last().Tick != 2 {
			t.Errorf("Last().Tick in View = %d, want 2", sim.Last().Tick)
		}
	})
}

func TestGoRoutesPanicToHandler(t *testing.T) {
	got := make(chan any, 1)
	SetCrashHandler(func(r any) { got <- r })
	defer SetCrashHandler(nil)

	Go(func() { panic("boom") })

	select {
	case r := <-got:
		if r != "boom" {
			t.Errorf("handler got %v, want boom", r)
		}
	case <-time.After(time.Second):
		t.Fatal("crash handler not called")
	}
}

func TestGoRunsFunction(t *testing.T) {
	var ran atomic.Bool
	done := make(chan struct{})
	Go(func() {
		ran.Store(true)
		close(done)
	})
	<-done
	if !ran.Load() {
		t.Error("function did not run")
	}
}

func TestSchedulerServiceLifecycle(t *testing.T) {
	cs, reg := newTestScheduler(t, 2*time.Millisecond)
	svc := NewSchedulerService(cs, "trace", "audio")

	if svc.Name() != "scheduler" {
		t.Errorf("Name = %q", svc.Name())
	}
	if deps := svc.Dependencies(); len(deps) != 2 || deps[0] != "trace" {
		t.Errorf("Dependencies = %v", deps)
	}

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	deadline := time.After(2 * time.Second)
	for reg.Ints.Get(MetricTicks).Load() < 1 {
		select {
		case <-cs.Updates():
		case <-deadline:
			t.Fatal("no tick after 2s")
		}
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
