package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock provides simulation time that stops while paused
// Elapsed simulation time = real elapsed - total paused
type PausableClock struct {
	mu sync.RWMutex

	provider  TimeProvider
	realStart time.Time

	isPaused        atomic.Bool
	pauseStartTime  time.Time
	totalPausedTime time.Duration
}

// NewPausableClock creates a clock reading from provider, nil uses the system clock
func NewPausableClock(provider TimeProvider) *PausableClock {
	if provider == nil {
		provider = SystemTime{}
	}
	return &PausableClock{
		provider:  provider,
		realStart: provider.Now(),
	}
}

// Now returns current simulation time, frozen at the pause point while paused
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		return pc.realStart.Add(pc.pauseStartTime.Sub(pc.realStart) - pc.totalPausedTime)
	}
	return pc.realStart.Add(pc.provider.Now().Sub(pc.realStart) - pc.totalPausedTime)
}

// Elapsed returns simulation time since the clock was created
func (pc *PausableClock) Elapsed() time.Duration {
	return pc.Now().Sub(pc.realStart)
}

// Pause stops simulation time advancement
func (pc *PausableClock) Pause() {
	if pc.isPaused.CompareAndSwap(false, true) {
		pc.mu.Lock()
		pc.pauseStartTime = pc.provider.Now()
		pc.mu.Unlock()
	}
}

// Resume continues simulation time advancement
func (pc *PausableClock) Resume() {
	if pc.isPaused.CompareAndSwap(true, false) {
		pc.mu.Lock()
		if !pc.pauseStartTime.IsZero() {
			pc.totalPausedTime += pc.provider.Now().Sub(pc.pauseStartTime)
			pc.pauseStartTime = time.Time{}
		}
		pc.mu.Unlock()
	}
}

// Toggle flips pause state and returns the new state
func (pc *PausableClock) Toggle() bool {
	if pc.IsPaused() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time including a pause in progress
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.isPaused.Load() && !pc.pauseStartTime.IsZero() {
		total += pc.provider.Now().Sub(pc.pauseStartTime)
	}
	return total
}
