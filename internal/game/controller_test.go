package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/abhisek/diffeval/internal/session"
	"github.com/abhisek/diffeval/internal/store"
)

func openTestRepo(t *testing.T) (StateRepo, *store.Store) {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewStateRepo(s.SnapshotRepo(), 3), s
}

func TestStateRepo_DefaultsWhenEmpty(t *testing.T) {
	repo, _ := openTestRepo(t)
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != DefaultState() {
		t.Errorf("Load() = %+v, want defaults", got)
	}
}

func TestStateRepo_RoundTripAndPrune(t *testing.T) {
	repo, s := openTestRepo(t)
	ctx := context.Background()

	st := DefaultState()
	for i := 0; i < 5; i++ {
		st.ModelIndex = i
		st.Role = session.Robber
		st.LastDirection = session.Increase
		if err := repo.Save(ctx, st); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != st {
		t.Errorf("Load() = %+v, want %+v", got, st)
	}

	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("snapshots = %d, want 3 after pruning", n)
	}
}

func TestController_AdjustDifficultyPersists(t *testing.T) {
	repo, _ := openTestRepo(t)
	ctx := context.Background()
	features := map[string]float64{session.ColSessionLength: 42}

	c, err := NewController(ctx, repo, features)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	got, err := c.SessionFeatures(ctx)
	if err != nil {
		t.Fatalf("SessionFeatures: %v", err)
	}
	if got[session.ColSessionLength] != 42 {
		t.Errorf("features = %v", got)
	}

	if err := c.AdjustDifficulty(ctx, session.Increase); err != nil {
		t.Fatalf("AdjustDifficulty: %v", err)
	}
	if c.State().ModelIndex != 6 {
		t.Errorf("ModelIndex = %d, want 6", c.State().ModelIndex)
	}

	// A new controller sees the saved state.
	next, err := NewController(ctx, repo, nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if next.State().ModelIndex != 6 || next.State().LastDirection != session.Increase {
		t.Errorf("reloaded state = %+v", next.State())
	}

	changed, err := next.SelectRole(ctx, session.Cop, 99)
	if err != nil {
		t.Fatalf("SelectRole: %v", err)
	}
	if !changed || next.State().NumRobberAgents != 4 {
		t.Errorf("changed = %v, robbers = %d, want true and 4", changed, next.State().NumRobberAgents)
	}
}

type failingRepo struct{ State }

func (r failingRepo) Load(context.Context) (State, error) { return r.State, nil }
func (failingRepo) Save(context.Context, State) error     { return errors.New("disk full") }

func TestController_SaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	c, err := NewController(ctx, failingRepo{DefaultState()}, nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if err := c.AdjustDifficulty(ctx, session.Decrease); err == nil {
		t.Fatal("expected save error")
	}
	if c.State().ModelIndex != 5 {
		t.Errorf("ModelIndex = %d, want unchanged 5", c.State().ModelIndex)
	}
}
