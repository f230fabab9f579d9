package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lixenwraith/galileo/config"
	"github.com/lixenwraith/galileo/engine"
	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/render/window"
	"github.com/lixenwraith/galileo/status"
	"github.com/lixenwraith/galileo/swarm"
)

var (
	configPath = flag.String("config", "", "TOML config file")
	seedFlag   = flag.Uint64("seed", 1, "Random seed")
)

func main() {
	flag.Parse()
	log.SetOutput(io.Discard)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "galileo-window: %v\n", err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Seed = *seedFlag
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "galileo-window: %v\n", err)
		os.Exit(2)
	}

	sim, err := swarm.NewSimulation(cfg.SimParams(), cfg.Seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "galileo-window: %v\n", err)
		os.Exit(1)
	}

	bounds := sim.Params().Bounds
	reg := status.NewRegistry()
	sched := engine.NewClockScheduler(sim, engine.NewPausableClock(nil), reg, cfg.TickInterval())

	ctx, cancel := context.WithCancel(context.Background())
	sched.Start(ctx)

	ebiten.SetWindowSize(parameter.WindowWidth, parameter.WindowHeight)
	ebiten.SetWindowTitle(parameter.WindowTitle)

	err = ebiten.RunGame(window.NewGame(sched, reg, bounds))
	cancel()
	sched.Stop()

	if err != nil && !errors.Is(err, ebiten.Termination) {
		fmt.Fprintf(os.Stderr, "galileo-window: %v\n", err)
		os.Exit(1)
	}
}
