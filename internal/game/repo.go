package game

import (
	"context"
	"fmt"

	"github.com/abhisek/diffeval/internal/session"
	"github.com/abhisek/diffeval/internal/store"
)

// snapshotVersion is written into every game state snapshot.
const snapshotVersion = 1

// DefaultSnapshotKeep is how many state snapshots survive a save.
const DefaultSnapshotKeep = 20

// StateRepo persists the game state between sessions.
type StateRepo interface {
	// Load returns the saved state, or DefaultState if none was saved.
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
}

type snapshotStateRepo struct {
	snapshots store.SnapshotRepo
	keep      int
}

// NewStateRepo stores game state as snapshots, pruning all but the most
// recent keep of them.
func NewStateRepo(snapshots store.SnapshotRepo, keep int) StateRepo {
	if keep <= 0 {
		keep = DefaultSnapshotKeep
	}
	return &snapshotStateRepo{snapshots: snapshots, keep: keep}
}

func (r *snapshotStateRepo) Load(ctx context.Context) (State, error) {
	snap, err := r.snapshots.Latest(ctx)
	if err != nil {
		return State{}, fmt.Errorf("load game state: %w", err)
	}
	if snap == nil || snap.Data.Game == nil {
		return DefaultState(), nil
	}
	g := snap.Data.Game
	return State{
		ModelIndex:      g.ModelIndex,
		NumDiamonds:     g.NumDiamonds,
		NumCopAgents:    g.NumCopAgents,
		NumRobberAgents: g.NumRobberAgents,
		Role:            session.PlayerType(g.Role),
		LastDirection:   session.Direction(g.LastDirection),
	}, nil
}

func (r *snapshotStateRepo) Save(ctx context.Context, s State) error {
	err := r.snapshots.Save(ctx, &store.Snapshot{
		Data: store.SnapshotData{
			Version: snapshotVersion,
			Game: &store.GameSnapshot{
				ModelIndex:      s.ModelIndex,
				NumDiamonds:     s.NumDiamonds,
				NumCopAgents:    s.NumCopAgents,
				NumRobberAgents: s.NumRobberAgents,
				Role:            int(s.Role),
				LastDirection:   string(s.LastDirection),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("save game state: %w", err)
	}
	if err := r.snapshots.Prune(ctx, r.keep); err != nil {
		return fmt.Errorf("save game state: %w", err)
	}
	return nil
}
