package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/galileo/engine"
	"github.com/lixenwraith/galileo/parameter"
	"github.com/lixenwraith/galileo/swarm"
)

// ErrTraceIncomplete is returned by Close when batches were dropped
var ErrTraceIncomplete = errors.New("trace incomplete")

// batch is one unit of work for the writer goroutine
type batch struct {
	ticks    []TickRecord
	snapshot *SnapshotRecord
}

// Recorder is a scheduler observer that streams a run trace into a Store
// All store writes happen on a single writer goroutine. By default OnTick never
// blocks and drops a batch when the writer is behind; in blocking mode OnTick
// waits for queue space instead
type Recorder struct {
	store Store
	runID string

	flushEvery    int
	snapshotEvery uint64

	pending []TickRecord
	queue   chan batch

	blocking atomic.Bool
	dropped  atomic.Int64
	errOnce sync.Once
	err     error
	done    chan struct{}
	closed  atomic.Bool
}

// NewRecorder starts the writer goroutine for runID
// Non-positive intervals fall back to parameter defaults
func NewRecorder(store Store, runID string, flushEvery, snapshotEvery int) *Recorder {
	if flushEvery <= 0 {
		flushEvery = parameter.TraceFlushEvery
	}
	if snapshotEvery <= 0 {
		snapshotEvery = parameter.TraceSnapshotEvery
	}

	r := &Recorder{
		store:         store,
		runID:         runID,
		flushEvery:    flushEvery,
		snapshotEvery: uint64(snapshotEvery),
		pending:       make([]TickRecord, 0, flushEvery),
		queue:         make(chan batch, 16),
		done:          make(chan struct{}),
	}
	engine.Go(r.writeLoop)
	return r
}

func (r *Recorder) RunID() string {
	return r.runID
}

// SetBlocking selects backpressure over dropping, for runs driven faster than real time
func (r *Recorder) SetBlocking(on bool) {
	r.blocking.Store(on)
}

// Dropped reports batches discarded because the writer fell behind
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// OnTick buffers the tick and hands full batches to the writer
func (r *Recorder) OnTick(res swarm.Result, sim *swarm.Simulation) {
	if r.closed.Load() {
		return
	}

	r.pending = append(r.pending, NewTickRecord(res, sim.Predator()))

	var snap *SnapshotRecord
	if res.Tick%r.snapshotEvery == 0 {
		snap = &SnapshotRecord{VersionedRecord: CurrentVersion(), RunID: r.runID, Snapshot: sim.Snapshot()}
	}

	if len(r.pending) < r.flushEvery && snap == nil {
		return
	}
	r.enqueue(batch{ticks: r.takePending(), snapshot: snap})
}

func (r *Recorder) takePending() []TickRecord {
	out := r.pending
	r.pending = make([]TickRecord, 0, r.flushEvery)
	return out
}

func (r *Recorder) enqueue(b batch) {
	if r.blocking.Load() {
		r.queue <- b
		return
	}
	select {
	case r.queue <- b:
	default:
		if r.dropped.Add(1) == 1 {
			log.Printf("storage: trace writer behind, dropping batches for run %s", r.runID)
		}
	}
}

// Close flushes buffered ticks, waits for the writer and returns the first write error,
// or ErrTraceIncomplete if any batch was dropped
// Must not race with OnTick; stop the scheduler first
func (r *Recorder) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		<-r.done
		return r.result()
	}

	if len(r.pending) > 0 {
		select {
		case r.queue <- batch{ticks: r.takePending()}:
		case <-ctx.Done():
		}
	}
	close(r.queue)

	select {
	case <-r.done:
		return r.result()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) result() error {
	if r.err != nil {
		return r.err
	}
	if n := r.dropped.Load(); n > 0 {
		return fmt.Errorf("%w: run %s dropped %d batches", ErrTraceIncomplete, r.runID, n)
	}
	return nil
}

func (r *Recorder) writeLoop() {
	defer close(r.done)

	ctx := context.Background()
	for b := range r.queue {
		if len(b.ticks) > 0 {
			if err := r.store.AppendTicks(ctx, r.runID, b.ticks); err != nil {
				r.fail(err)
			}
		}
		if b.snapshot != nil {
			if err := r.store.SaveSnapshot(ctx, *b.snapshot); err != nil {
				r.fail(err)
			}
		}
	}
}

func (r *Recorder) fail(err error) {
	r.errOnce.Do(func() {
		r.err = err
		log.Printf("storage: trace write for run %s failed: %v", r.runID, err)
	})
}
