package storage

import (
	"context"
	"log"
	"time"

	"github.com/lixenwraith/galileo/engine"
)

// ObserverRegistrar is satisfied by engine.ClockScheduler
type ObserverRegistrar interface {
	AddObserver(o engine.Observer)
}

// TraceService owns a trace store for one run and the recorder feeding it
type TraceService struct {
	store         Store
	run           RunRecord
	sched         ObserverRegistrar
	flushEvery    int
	snapshotEvery int
	blocking      bool

	recorder *Recorder
}

func NewTraceService(store Store, run RunRecord, sched ObserverRegistrar, flushEvery, snapshotEvery int) *TraceService {
	return &TraceService{
		store:         store,
		run:           run,
		sched:         sched,
		flushEvery:    flushEvery,
		snapshotEvery: snapshotEvery,
	}
}

func (s *TraceService) Name() string {
	return "trace"
}

func (s *TraceService) Dependencies() []string {
	return nil
}

// SetBlocking makes the recorder apply backpressure to the scheduler instead of dropping
// Headless runs driven by ClockScheduler.Advance need this to keep every tick
func (s *TraceService) SetBlocking(on bool) {
	s.blocking = on
	if s.recorder != nil {
		s.recorder.SetBlocking(on)
	}
}

// Start initializes the store, records the run header and attaches the recorder
func (s *TraceService) Start(ctx context.Context) error {
	if err := s.store.Init(ctx); err != nil {
		return err
	}
	if err := s.store.SaveRun(ctx, s.run); err != nil {
		_ = CloseIfSupported(s.store)
		return err
	}

	s.recorder = NewRecorder(s.store, s.run.ID, s.flushEvery, s.snapshotEvery)
	s.recorder.SetBlocking(s.blocking)
	s.sched.AddObserver(s.recorder)
	log.Printf("storage: tracing run %s", s.run.ID)
	return nil
}

// Stop flushes the recorder and closes the store; the scheduler must already be stopped
func (s *TraceService) Stop() error {
	if s.recorder == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.recorder.Close(ctx)
	if cerr := CloseIfSupported(s.store); err == nil {
		err = cerr
	}
	s.recorder = nil
	return err
}

func (s *TraceService) Recorder() *Recorder {
	return s.recorder
}
