package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotInitialized = errors.New("store is not initialized")

// Store persists run traces: run metadata, per-tick telemetry and periodic snapshots
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	AppendTicks(ctx context.Context, runID string, ticks []TickRecord) error
	GetTicks(ctx context.Context, runID string) ([]TickRecord, bool, error)
	SaveSnapshot(ctx context.Context, rec SnapshotRecord) error
	GetLatestSnapshot(ctx context.Context, runID string) (SnapshotRecord, bool, error)
}

// NewRunID returns a fresh random run identifier
func NewRunID() string {
	return uuid.NewString()
}
