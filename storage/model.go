package storage

import (
	"time"

	"github.com/lixenwraith/galileo/swarm"
)

type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

func CurrentVersion() VersionedRecord {
	return VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

// RunRecord describes one simulation run
type RunRecord struct {
	VersionedRecord
	ID        string       `json:"id"`
	StartedAt time.Time    `json:"started_at"`
	Seed      uint64       `json:"seed"`
	Params    swarm.Params `json:"params"`
}

// TickRecord is the per-tick telemetry row of a run trace
type TickRecord struct {
	Tick          uint64  `json:"tick"`
	BestFitness   float64 `json:"best_fitness"`
	BestX         float64 `json:"best_x"`
	BestY         float64 `json:"best_y"`
	PredatorX     float64 `json:"predator_x"`
	PredatorY     float64 `json:"predator_y"`
	PredatorState string  `json:"predator_state"`
	Nearest       int     `json:"nearest"`
	Distance      float64 `json:"distance"`
	SpreadMean    float64 `json:"spread_mean"`
	SpreadStdDev  float64 `json:"spread_std_dev"`
}

// NewTickRecord flattens a tick result and the predator position after that tick
func NewTickRecord(res swarm.Result, predator swarm.Predator) TickRecord {
	return TickRecord{
		Tick:          res.Tick,
		BestFitness:   res.Best.Fitness,
		BestX:         res.Best.Position.X,
		BestY:         res.Best.Position.Y,
		PredatorX:     predator.Position.X,
		PredatorY:     predator.Position.Y,
		PredatorState: res.Pursuit.State.String(),
		Nearest:       res.Pursuit.Nearest,
		Distance:      res.Pursuit.Distance,
		SpreadMean:    res.Dispersion.Mean,
		SpreadStdDev:  res.Dispersion.StdDev,
	}
}

// SnapshotRecord is a full-state checkpoint stored alongside a trace
type SnapshotRecord struct {
	VersionedRecord
	RunID    string         `json:"run_id"`
	Snapshot swarm.Snapshot `json:"snapshot"`
}
