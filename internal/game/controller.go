package game

import (
	"context"
	"maps"

	"github.com/abhisek/diffeval/internal/session"
)

// Controller is the end-of-session screen: it exposes the finished
// session's statistics and applies difficulty adjustments to the saved
// game state.
type Controller struct {
	repo     StateRepo
	features map[string]float64
	state    State
}

// NewController loads the saved state for a session that produced features.
func NewController(ctx context.Context, repo StateRepo, features map[string]float64) (*Controller, error) {
	st, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Controller{repo: repo, features: maps.Clone(features), state: st}, nil
}

// State returns the current game state.
func (c *Controller) State() State {
	return c.state
}

// SessionFeatures returns the finished session's statistics.
func (c *Controller) SessionFeatures(ctx context.Context) (map[string]float64, error) {
	return maps.Clone(c.features), ctx.Err()
}

// AdjustDifficulty applies d to the model index and saves the state.
func (c *Controller) AdjustDifficulty(ctx context.Context, d session.Direction) error {
	next := c.state
	if err := next.ApplyDirection(d); err != nil {
		return err
	}
	if err := c.repo.Save(ctx, next); err != nil {
		return err
	}
	c.state = next
	return nil
}

// SelectRole picks the role for the next session and saves the state. It
// reports whether the role's objective changed.
func (c *Controller) SelectRole(ctx context.Context, role session.PlayerType, roll int) (bool, error) {
	next := c.state
	changed, err := next.SelectRole(role, roll)
	if err != nil {
		return false, err
	}
	if err := c.repo.Save(ctx, next); err != nil {
		return false, err
	}
	c.state = next
	return changed, nil
}
