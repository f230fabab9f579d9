package parameter

import "time"

// Simulation Loop & Engine Timing
const (
	// TickRate is the fixed simulation rate in ticks per second
	TickRate = 60

	// TickInterval is the duration of one fixed simulation tick (~16.6ms)
	TickInterval = time.Second / TickRate

	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxTickLag is how many intervals the scheduler may fall behind before it re-anchors its deadline instead of bursting
	MaxTickLag = 2

	// MaxTickDelta caps elapsed time handed to a tick, a stall (debugger, suspend) must not teleport the predator
	MaxTickDelta = 250 * time.Millisecond
)

// World
const (
	// WorldWidth and WorldHeight are the world bounds in world units, centered at origin
	WorldWidth  = 1200.0
	WorldHeight = 640.0
)

// Trace Recording
const (
	// TraceFlushEvery is the number of buffered tick records that triggers a store write
	TraceFlushEvery = 120

	// TraceSnapshotEvery is the tick interval between full-state snapshots in the trace store
	TraceSnapshotEvery = 600

	// TracePath is the default sqlite trace database
	TracePath = "galileo-trace.db"
)

// Checkpoints
const (
	CheckpointDir  = "checkpoints"
	CheckpointName = "galileo"
)
