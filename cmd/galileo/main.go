package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/galileo/audio"
	"github.com/lixenwraith/galileo/config"
	"github.com/lixenwraith/galileo/engine"
	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/persistence"
	"github.com/lixenwraith/galileo/render"
	"github.com/lixenwraith/galileo/service"
	"github.com/lixenwraith/galileo/status"
	"github.com/lixenwraith/galileo/storage"
	"github.com/lixenwraith/galileo/swarm"
)

var (
	configPath     = flag.String("config", "", "TOML config file")
	seedFlag       = flag.Uint64("seed", 1, "Random seed")
	populationFlag = flag.Int("population", parameter.SwarmPopulation, "Number of particles")
	headlessFlag   = flag.Bool("headless", false, "Run without the terminal viewer")
	ticksFlag      = flag.Int("ticks", 600, "Ticks to run in headless mode")
	traceFlag      = flag.Bool("trace", false, "Record a run trace")
	tracePathFlag  = flag.String("trace-path", parameter.TracePath, "Trace database path (sqlite backend)")
	checkpointFlag = flag.String("checkpoint", "", "Checkpoint name to save on exit and on 's'")
	resumeFlag     = flag.String("resume", "", "Checkpoint name to resume from; seed and simulation parameters come from the checkpoint")
	debugFlag      = flag.Bool("debug", false, "Write debug log to "+parameter.LogDir)
	noAudioFlag    = flag.Bool("no-audio", false, "Disable the catch cue")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// applyFlags overrides config with flags the user set explicitly
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seedFlag
		case "population":
			cfg.Swarm.Population = *populationFlag
		case "trace":
			cfg.Trace.Enabled = *traceFlag
		case "trace-path":
			cfg.Trace.Path = *tracePathFlag
		case "no-audio":
			cfg.Audio.Enabled = !*noAudioFlag
		}
	})
}

// resumeOverrides lists explicit flags a resumed run cannot honor
func resumeOverrides() []string {
	var names []string
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed", "population":
			names = append(names, "-"+f.Name)
		}
	})
	return names
}

// app bundles the wiring shared by headless and interactive runs
type app struct {
	cfg   config.Config
	runID string
	sched *engine.ClockScheduler
	reg   *status.Registry
	hub   *service.Hub
	ckpt  *persistence.Manager
	trace *storage.TraceService
}

func run() int {
	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "galileo: %v\n", err)
		return 2
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "galileo: %v\n", err)
		return 2
	}

	a, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "galileo: %v\n", err)
		return 1
	}

	if *headlessFlag {
		return a.runHeadless(*ticksFlag)
	}
	return a.runInteractive()
}

func newApp(cfg config.Config) (*app, error) {
	a := &app{
		cfg:   cfg,
		runID: storage.NewRunID(),
		reg:   status.NewRegistry(),
		hub:   service.NewHub(),
		ckpt:  persistence.NewManager(cfg.Engine.CheckpointDir),
	}

	var sim *swarm.Simulation
	if *resumeFlag != "" {
		// The checkpoint carries its own params and RNG state; config [swarm], [world] and [predator] are not applied
		if ignored := resumeOverrides(); len(ignored) > 0 {
			fmt.Fprintf(os.Stderr, "galileo: resuming %s, ignoring %s\n", *resumeFlag, strings.Join(ignored, " "))
		}
		dto, err := a.ckpt.Load(*resumeFlag)
		if err != nil {
			return nil, err
		}
		if sim, err = dto.Restore(); err != nil {
			return nil, fmt.Errorf("resume %s: %w", *resumeFlag, err)
		}
		if dto.RunID != "" {
			a.runID = dto.RunID
		}
	} else {
		var err error
		if sim, err = swarm.NewSimulation(cfg.SimParams(), cfg.Seed); err != nil {
			return nil, err
		}
	}

	a.sched = engine.NewClockScheduler(sim, engine.NewPausableClock(nil), a.reg, cfg.TickInterval())

	if cfg.Trace.Enabled {
		store, err := storage.NewStore(cfg.Trace.Backend, cfg.Trace.Path)
		if err != nil {
			return nil, fmt.Errorf("trace: %w", err)
		}
		run := storage.RunRecord{
			VersionedRecord: storage.CurrentVersion(),
			ID:              a.runID,
			StartedAt:       time.Now().UTC(),
			Seed:            cfg.Seed,
			Params:          sim.Params(),
		}
		a.trace = storage.NewTraceService(store, run, a.sched, cfg.Trace.FlushEvery, cfg.Trace.SnapshotEvery)
		if err := a.hub.Register(a.trace); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// start brings up registered services; interactive runs add the scheduler loop after its observers
func (a *app) start(ctx context.Context, withLoop bool) error {
	if withLoop {
		deps := a.hub.Names()
		if err := a.hub.Register(engine.NewSchedulerService(a.sched, deps...)); err != nil {
			return err
		}
	}
	return a.hub.StartAll(ctx)
}

// saveCheckpoint snapshots under the tick lock and writes outside it
func (a *app) saveCheckpoint(name string) error {
	var dto persistence.CheckpointDTO
	a.sched.View(func(sim *swarm.Simulation) {
		dto = persistence.FromSimulation(sim, a.runID)
	})
	return a.ckpt.Save(name, dto)
}

// shutdown stops services in reverse dependency order, then writes the exit checkpoint
func (a *app) shutdown() error {
	err := a.hub.StopAll()
	if err != nil {
		log.Printf("galileo: shutdown: %v", err)
	}
	a.sched.Stop()

	if *checkpointFlag != "" {
		if cerr := a.saveCheckpoint(*checkpointFlag); cerr != nil {
			log.Printf("galileo: checkpoint on exit: %v", cerr)
			err = errors.Join(err, cerr)
		}
	}
	return err
}

func (a *app) runHeadless(ticks int) (code int) {
	if ticks < 0 {
		fmt.Fprintln(os.Stderr, "galileo: -ticks must not be negative")
		return 2
	}

	// Advance outruns the trace writer, block rather than lose ticks
	if a.trace != nil {
		a.trace.SetBlocking(true)
	}
	if err := a.start(context.Background(), false); err != nil {
		fmt.Fprintf(os.Stderr, "galileo: %v\n", err)
		return 1
	}
	defer func() {
		if err := a.shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "galileo: %v\n", err)
			if code == 0 {
				code = 1
			}
		}
	}()

	start := time.Now()
	res := a.sched.Advance(ticks, a.cfg.TickInterval())
	elapsed := time.Since(start)

	var pred swarm.Predator
	a.sched.View(func(sim *swarm.Simulation) {
		pred = sim.Predator()
		if ticks == 0 {
			res = sim.Last()
		}
	})

	fmt.Printf("run %s: %d ticks in %v\n", a.runID, res.Tick, elapsed.Round(time.Millisecond))
	fmt.Printf("best fitness %.6f at (%.2f, %.2f)\n", res.Best.Fitness, res.Best.Position.X, res.Best.Position.Y)
	fmt.Printf("predator %s at (%.2f, %.2f), nearest %d at %.2f\n",
		pred.State, pred.Position.X, pred.Position.Y, res.Pursuit.Nearest, res.Pursuit.Distance)
	fmt.Printf("spread mean %.2f std %.2f max %.2f\n", res.Dispersion.Mean, res.Dispersion.StdDev, res.Dispersion.Max)
	return 0
}

func (a *app) runInteractive() int {
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	// Panic Recovery: restore the terminal before printing
	crash := func(r any) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\r\nGALILEO CRASHED: %v\r\nStack Trace:\r\n%s\r\n", r, debug.Stack())
		os.Exit(1)
	}
	engine.SetCrashHandler(crash)
	defer func() {
		if r := recover(); r != nil {
			crash(r)
		}
	}()

	if a.cfg.Audio.Enabled {
		svc := audio.NewService(audio.DefaultAudioConfig())
		a.sched.AddObserver(svc.Cue())
		if err := a.hub.Register(svc); err != nil {
			log.Printf("galileo: audio: %v", err)
		}
	}

	viewer := render.NewViewer(screen, a.reg)
	draw := func() {
		paused := a.sched.IsPaused()
		a.sched.View(func(sim *swarm.Simulation) {
			viewer.Draw(sim, paused)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan tcell.Event, 64)
	engine.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	})

	if err := a.start(ctx, true); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "galileo: %v\n", err)
		return 1
	}
	defer func() { _ = a.shutdown() }()
	draw()

	frame := time.NewTicker(parameter.FrameUpdateInterval)
	defer frame.Stop()
	dirty := false

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.handleKey(ev) {
					return 0
				}
				draw()
			case *tcell.EventResize:
				screen.Sync()
				draw()
			}

		case <-a.sched.Updates():
			dirty = true

		case <-frame.C:
			if dirty {
				dirty = false
				draw()
			}
		}
	}
}

// handleKey returns false when the user asks to quit
func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			a.sched.TogglePause()
		case 's':
			name := *checkpointFlag
			if name == "" {
				name = parameter.CheckpointName
			}
			if err := a.saveCheckpoint(name); err != nil {
				log.Printf("galileo: checkpoint: %v", err)
			}
		}
	}
	return true
}
