package engine

import "context"

// SchedulerService runs the scheduler loop under a service hub
// deps name the services whose observers must be attached before the first tick
type SchedulerService struct {
	sched *ClockScheduler
	deps  []string
}

func NewSchedulerService(sched *ClockScheduler, deps ...string) *SchedulerService {
	return &SchedulerService{sched: sched, deps: deps}
}

func (s *SchedulerService) Name() string {
	return "scheduler"
}

func (s *SchedulerService) Dependencies() []string {
	return s.deps
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.sched.Start(ctx)
	return nil
}

func (s *SchedulerService) Stop() error {
	s.sched.Stop()
	return nil
}
