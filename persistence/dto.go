package persistence

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lixenwraith/galileo/swarm"
)

// CheckpointVersion is bumped whenever CheckpointDTO changes shape
const CheckpointVersion = 1

var ErrCheckpointVersion = errors.New("unsupported checkpoint version")

// CheckpointDTO is the serializable simulation state
// RandState is hex text since TOML integers are signed 64-bit
type CheckpointDTO struct {
	Version   int              `toml:"version"`
	RunID     string           `toml:"run_id"`
	SavedAt   time.Time        `toml:"saved_at"`
	Tick      uint64           `toml:"tick"`
	RandState string           `toml:"rand_state"`
	Params    swarm.Params     `toml:"params"`
	Predator  swarm.Predator   `toml:"predator"`
	Particles swarm.Population `toml:"particles"`
}

// FromSimulation captures sim into a DTO
func FromSimulation(sim *swarm.Simulation, runID string) CheckpointDTO {
	snap := sim.Snapshot()
	return CheckpointDTO{
		Version:   CheckpointVersion,
		RunID:     runID,
		SavedAt:   time.Now().UTC().Truncate(time.Second),
		Tick:      snap.Tick,
		RandState: strconv.FormatUint(snap.RandState, 16),
		Params:    sim.Params(),
		Predator:  snap.Predator,
		Particles: snap.Particles,
	}
}

// Snapshot converts the DTO back into a swarm snapshot
func (dto CheckpointDTO) Snapshot() (swarm.Snapshot, error) {
	if dto.Version != CheckpointVersion {
		return swarm.Snapshot{}, fmt.Errorf("%w: %d", ErrCheckpointVersion, dto.Version)
	}
	state, err := strconv.ParseUint(dto.RandState, 16, 64)
	if err != nil {
		return swarm.Snapshot{}, fmt.Errorf("rand_state: %w", err)
	}
	return swarm.Snapshot{
		Tick:      dto.Tick,
		Particles: dto.Particles.Clone(),
		Predator:  dto.Predator,
		RandState: state,
	}, nil
}

// Restore rebuilds the simulation with the checkpointed params
func (dto CheckpointDTO) Restore() (*swarm.Simulation, error) {
	snap, err := dto.Snapshot()
	if err != nil {
		return nil, err
	}
	return swarm.Restore(dto.Params, snap)
}
