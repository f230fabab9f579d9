package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	log.Printf("storage: sqlite trace store at %s", s.path)
	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeRun(run)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, seed, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			seed = excluded.seed,
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, run.ID, run.StartedAt.UnixNano(), int64(run.Seed), run.SchemaVersion, run.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}

	run, err := DecodeRun(payload)
	if err != nil {
		return RunRecord{}, false, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, true, nil
}

// AppendTicks writes one batch in a single transaction; re-written ticks replace earlier rows
func (s *SQLiteStore) AppendTicks(ctx context.Context, runID string, ticks []TickRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if len(ticks) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO ticks (
			run_id, tick, best_fitness, best_x, best_y, predator_x, predator_y,
			predator_state, nearest, distance, spread_mean, spread_std_dev
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range ticks {
		if _, err := stmt.ExecContext(ctx,
			runID, int64(t.Tick), t.BestFitness, t.BestX, t.BestY, t.PredatorX, t.PredatorY,
			t.PredatorState, t.Nearest, t.Distance, t.SpreadMean, t.SpreadStdDev,
		); err != nil {
			return fmt.Errorf("insert tick %d: %w", t.Tick, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) GetTicks(ctx context.Context, runID string) ([]TickRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT tick, best_fitness, best_x, best_y, predator_x, predator_y,
			predator_state, nearest, distance, spread_mean, spread_std_dev
		FROM ticks WHERE run_id = ? ORDER BY tick
	`, runID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var out []TickRecord
	for rows.Next() {
		var t TickRecord
		var tick int64
		if err := rows.Scan(&tick, &t.BestFitness, &t.BestX, &t.BestY, &t.PredatorX, &t.PredatorY,
			&t.PredatorState, &t.Nearest, &t.Distance, &t.SpreadMean, &t.SpreadStdDev); err != nil {
			return nil, false, err
		}
		t.Tick = uint64(tick)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return out, len(out) > 0, nil
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, rec SnapshotRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := EncodeSnapshot(rec)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO snapshots (run_id, tick, schema_version, codec_version, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, tick) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			payload = excluded.payload
	`, rec.RunID, int64(rec.Snapshot.Tick), rec.SchemaVersion, rec.CodecVersion, payload)
	return err
}

func (s *SQLiteStore) GetLatestSnapshot(ctx context.Context, runID string) (SnapshotRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return SnapshotRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE run_id = ? ORDER BY tick DESC LIMIT 1`, runID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SnapshotRecord{}, false, nil
		}
		return SnapshotRecord{}, false, err
	}

	rec, err := DecodeSnapshot(payload)
	if err != nil {
		return SnapshotRecord{}, false, fmt.Errorf("decode snapshot %s: %w", runID, err)
	}
	return rec, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS ticks (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			best_x REAL NOT NULL,
			best_y REAL NOT NULL,
			predator_x REAL NOT NULL,
			predator_y REAL NOT NULL,
			predator_state TEXT NOT NULL,
			nearest INTEGER NOT NULL,
			distance REAL NOT NULL,
			spread_mean REAL NOT NULL,
			spread_std_dev REAL NOT NULL,
			PRIMARY KEY (run_id, tick)
		);
		CREATE TABLE IF NOT EXISTS snapshots (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, tick)
		);
	`)
	return err
}
