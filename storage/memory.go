package storage

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]RunRecord
	ticks       map[string][]TickRecord
	snapshots   map[string]SnapshotRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]RunRecord)
	s.ticks = make(map[string][]TickRecord)
	s.snapshots = make(map[string]SnapshotRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) AppendTicks(_ context.Context, runID string, ticks []TickRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}

	s.ticks[runID] = append(s.ticks[runID], ticks...)
	return nil
}

func (s *MemoryStore) GetTicks(_ context.Context, runID string) ([]TickRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticks, ok := s.ticks[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]TickRecord(nil), ticks...), true, nil
}

func (s *MemoryStore) SaveSnapshot(_ context.Context, rec SnapshotRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}

	if prev, ok := s.snapshots[rec.RunID]; ok && prev.Snapshot.Tick > rec.Snapshot.Tick {
		return nil
	}
	rec.Snapshot.Particles = rec.Snapshot.Particles.Clone()
	s.snapshots[rec.RunID] = rec
	return nil
}

func (s *MemoryStore) GetLatestSnapshot(_ context.Context, runID string) (SnapshotRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.snapshots[runID]
	if ok {
		rec.Snapshot.Particles = rec.Snapshot.Particles.Clone()
	}
	return rec, ok, nil
}
