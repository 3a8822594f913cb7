// Package game holds the difficulty knobs the classifier's adjustments act
// on between sessions.
package game

import (
	"fmt"

	"github.com/abhisek/diffeval/internal/session"
)

const (
	// MinModelIndex and MaxModelIndex bound the opponent AI model index.
	MinModelIndex = 0
	MaxModelIndex = 9

	// MinObjective and MaxObjective bound the diamond and robber counts.
	MinObjective = 1
	MaxObjective = 4

	// ObjectiveRollThreshold is the roll in [0,100) a role selection must
	// exceed before the last adjustment also moves the role's objective.
	ObjectiveRollThreshold = 80
)

// State is the game difficulty carried from one session to the next.
type State struct {
	ModelIndex      int
	NumDiamonds     int
	NumCopAgents    int
	NumRobberAgents int
	Role            session.PlayerType
	LastDirection   session.Direction
}

// DefaultState is the difficulty of a fresh install.
func DefaultState() State {
	return State{
		ModelIndex:      5,
		NumDiamonds:     2,
		NumCopAgents:    2,
		NumRobberAgents: 3,
		Role:            session.Cop,
	}
}

// ApplyDirection moves the model index one step and remembers d for the
// next role selection.
func (s *State) ApplyDirection(d session.Direction) error {
	step, err := stepFor(d)
	if err != nil {
		return err
	}
	s.ModelIndex = clamp(s.ModelIndex+step, MinModelIndex, MaxModelIndex)
	s.LastDirection = d
	return nil
}

// SelectRole starts the next session as role. When roll exceeds
// ObjectiveRollThreshold the last adjustment also moves the role's
// objective: robbers to chase for a cop, diamonds to steal for a robber.
// It reports whether the objective changed.
func (s *State) SelectRole(role session.PlayerType, roll int) (bool, error) {
	if role != session.Cop && role != session.Robber {
		return false, fmt.Errorf("unknown role %v", role)
	}
	s.Role = role
	if roll <= ObjectiveRollThreshold || s.LastDirection == "" {
		return false, nil
	}

	step, err := stepFor(s.LastDirection)
	if err != nil {
		return false, err
	}
	target := &s.NumRobberAgents
	if role == session.Robber {
		target = &s.NumDiamonds
	}
	before := *target
	*target = clamp(*target+step, MinObjective, MaxObjective)
	return *target != before, nil
}

func stepFor(d session.Direction) (int, error) {
	switch d {
	case session.Increase:
		return 1, nil
	case session.Decrease:
		return -1, nil
	case session.Stay:
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown difficulty direction %q", string(d))
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
