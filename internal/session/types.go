package session

import (
	"fmt"
	"strconv"
)

// PlayerType is the role the player occupied during a session.
type PlayerType int

const (
	Cop    PlayerType = 0
	Robber PlayerType = 1
)

// String returns the in-game role name.
func (p PlayerType) String() string {
	switch p {
	case Cop:
		return "Cop"
	case Robber:
		return "Robber"
	default:
		return fmt.Sprintf("PlayerType(%d)", int(p))
	}
}

// MarshalCSV writes the numeric code so the dataset stays all-numeric.
func (p PlayerType) MarshalCSV() (string, error) {
	return strconv.Itoa(int(p)), nil
}

// UnmarshalCSV reads the numeric code or a role name.
func (p *PlayerType) UnmarshalCSV(s string) error {
	v, err := ParsePlayerType(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePlayerType accepts a role name ("cop", "robber") or its numeric code.
func ParsePlayerType(s string) (PlayerType, error) {
	switch s {
	case "cop", "Cop", "0":
		return Cop, nil
	case "robber", "Robber", "1":
		return Robber, nil
	default:
		return 0, fmt.Errorf("unknown player type %q", s)
	}
}

// Label is the three-way difficulty recommendation attached to a record.
type Label string

const (
	LabelEasier Label = "Easier"
	LabelSame   Label = "Same"
	LabelHarder Label = "Harder"
)

// AllLabels returns the labels in encoding order.
func AllLabels() []Label {
	return []Label{LabelEasier, LabelSame, LabelHarder}
}

// Class returns the integer encoding of the label: Easier 0, Same 1, Harder 2.
func (l Label) Class() (int, error) {
	switch l {
	case LabelEasier:
		return 0, nil
	case LabelSame:
		return 1, nil
	case LabelHarder:
		return 2, nil
	default:
		return -1, fmt.Errorf("unknown difficulty evaluation %q", string(l))
	}
}

// Direction is the adjustment handed to the game session controller.
type Direction string

const (
	Decrease Direction = "Decrease"
	Stay     Direction = "Stay the same"
	Increase Direction = "Increase"
)

// DirectionForClass maps a predicted class to a difficulty adjustment.
func DirectionForClass(class int) (Direction, error) {
	switch class {
	case 0:
		return Decrease, nil
	case 1:
		return Stay, nil
	case 2:
		return Increase, nil
	default:
		return "", fmt.Errorf("class %d has no difficulty direction", class)
	}
}

// Action is the human-readable action for the direction.
func (d Direction) Action() string {
	switch d {
	case Decrease:
		return "decrease difficulty"
	case Stay:
		return "keep difficulty"
	case Increase:
		return "increase difficulty"
	default:
		return string(d)
	}
}
