package store

import (
	"context"
	"strings"
	"time"
)

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// where renders the filters as a SQL WHERE clause over the sequence and
// timestamp columns. Timestamps are stored as Unix nanoseconds.
func (o QueryOpts) where() (string, []any) {
	var conds []string
	var args []any
	if o.After > 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, o.After)
	}
	if o.Before > 0 {
		conds = append(conds, "sequence < ?")
		args = append(args, o.Before)
	}
	if !o.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, o.From.UnixNano())
	}
	if !o.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, o.To.UnixNano())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (o QueryOpts) limit() (string, []any) {
	if o.Limit <= 0 {
		return "", nil
	}
	return " LIMIT ?", []any{o.Limit}
}

// GameSnapshot is the persisted game difficulty state.
type GameSnapshot struct {
	ModelIndex      int    `json:"model_index"`
	NumDiamonds     int    `json:"num_diamonds"`
	NumCopAgents    int    `json:"num_cop_agents"`
	NumRobberAgents int    `json:"num_robber_agents"`
	Role            int    `json:"role"`
	LastDirection   string `json:"last_direction,omitempty"`
}

// SnapshotData captures the full game state at a point in time.
type SnapshotData struct {
	Version int           `json:"version"`
	Game    *GameSnapshot `json:"game,omitempty"`
}

// Snapshot represents a point-in-time capture of game state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages game state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot. A zero Sequence is assigned from the
	// global counter and a zero Timestamp is set to now.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// TrainingRun records one completed training stage.
type TrainingRun struct {
	ID          string
	Sequence    int64
	Timestamp   time.Time
	ModelID     string
	DatasetPath string
	ModelPath   string
	RawRows     int
	CleanRows   int
	TrainRows   int
	TestRows    int
	TrainError  float64
	TestError   float64
	SplitSeed   uint64
	DurationMs  int64
}

// RunRepo stores training run history.
type RunRepo interface {
	// AppendTrainingRun records a run, filling in ID, Sequence and
	// Timestamp when they are unset.
	AppendTrainingRun(ctx context.Context, run *TrainingRun) error

	// ListTrainingRuns returns runs newest first.
	ListTrainingRuns(ctx context.Context, opts QueryOpts) ([]TrainingRun, error)
}

// PredictionEventData captures a single difficulty adjustment.
type PredictionEventData struct {
	ModelID      string
	Features     map[string]float64
	Class        int
	Label        string
	Direction    string
	Applied      bool
	ErrorMessage string
}

// PredictionEvent is a stored PredictionEventData with its ordering.
type PredictionEvent struct {
	Sequence  int64
	Timestamp time.Time
	PredictionEventData
}

// EventRepo provides append and query access to prediction events.
type EventRepo interface {
	// AppendPrediction records an inference adjustment.
	AppendPrediction(ctx context.Context, data PredictionEventData) error

	// QueryPredictions returns events newest first.
	QueryPredictions(ctx context.Context, opts QueryOpts) ([]PredictionEvent, error)
}
