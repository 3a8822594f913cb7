package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// runRepo implements RunRepo.
type runRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *runRepo) AppendTrainingRun(ctx context.Context, run *TrainingRun) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	run.Sequence = seqNum

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO training_runs
			(id, sequence, timestamp, model_id, dataset_path, model_path, raw_rows, clean_rows,
			 train_rows, test_rows, train_error, test_error, split_seed, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Sequence, run.Timestamp.UnixNano(), run.ModelID, run.DatasetPath, run.ModelPath,
		run.RawRows, run.CleanRows, run.TrainRows, run.TestRows,
		run.TrainError, run.TestError, int64(run.SplitSeed), run.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("save training run: %w", err)
	}
	return nil
}

func (r *runRepo) ListTrainingRuns(ctx context.Context, opts QueryOpts) ([]TrainingRun, error) {
	where, args := opts.where()
	limit, largs := opts.limit()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sequence, timestamp, model_id, dataset_path, model_path, raw_rows, clean_rows,
			train_rows, test_rows, train_error, test_error, split_seed, duration_ms
		FROM training_runs`+where+` ORDER BY sequence DESC`+limit,
		append(args, largs...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("query training runs: %w", err)
	}
	defer rows.Close()

	var runs []TrainingRun
	for rows.Next() {
		var (
			run  TrainingRun
			ts   int64
			seed int64
		)
		if err := rows.Scan(&run.ID, &run.Sequence, &ts, &run.ModelID, &run.DatasetPath, &run.ModelPath,
			&run.RawRows, &run.CleanRows, &run.TrainRows, &run.TestRows,
			&run.TrainError, &run.TestError, &seed, &run.DurationMs); err != nil {
			return nil, fmt.Errorf("scan training run: %w", err)
		}
		run.Timestamp = time.Unix(0, ts).UTC()
		run.SplitSeed = uint64(seed)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
