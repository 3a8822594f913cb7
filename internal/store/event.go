package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// sequenceCounter manages the global monotonic sequence number shared by
// training runs, prediction events and snapshots. Each lives in its own
// table, so per-table row IDs can't order them against each other; the
// shared counter can, and a snapshot's sequence marks which events it
// already reflects.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo backed by SQL and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendPrediction(ctx context.Context, data PredictionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	features, err := json.Marshal(data.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO prediction_events
			(sequence, timestamp, model_id, features, class, label, direction, applied, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixNano(), data.ModelID, string(features),
		data.Class, data.Label, data.Direction, data.Applied, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save prediction event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPredictions(ctx context.Context, opts QueryOpts) ([]PredictionEvent, error) {
	where, args := opts.where()
	limit, largs := opts.limit()
	rows, err := r.db.QueryContext(ctx,
		`SELECT sequence, timestamp, model_id, features, class, label, direction, applied, error_message
		FROM prediction_events`+where+` ORDER BY sequence DESC`+limit,
		append(args, largs...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("query prediction events: %w", err)
	}
	defer rows.Close()

	var events []PredictionEvent
	for rows.Next() {
		var (
			e        PredictionEvent
			ts       int64
			features string
		)
		if err := rows.Scan(&e.Sequence, &ts, &e.ModelID, &features, &e.Class,
			&e.Label, &e.Direction, &e.Applied, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan prediction event: %w", err)
		}
		if err := json.Unmarshal([]byte(features), &e.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features of event %d: %w", e.Sequence, err)
		}
		e.Timestamp = time.Unix(0, ts).UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}
