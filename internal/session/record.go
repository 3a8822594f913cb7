package session

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names as they appear in the dataset header.
const (
	ColSuccessState      = "Success State"
	ColSessionLength     = "Session Length"
	ColPlayerType        = "Player Type"
	ColRobbersTagged     = "Percentage Robbers Tagged"
	ColTimesSpedUp       = "Times Sped Up"
	ColDiamondsCollected = "Percentage Diamonds Collected"
	ColTimesHidden       = "Times Hidden"
	ColEvaluation        = "Difficulty Evaluation"
)

// MaxSessionLength is the upper bound of Session Length in minutes.
const MaxSessionLength = 180

// FeatureColumns is the fixed feature order shared by training and inference.
var FeatureColumns = []string{
	ColSuccessState,
	ColSessionLength,
	ColPlayerType,
	ColRobbersTagged,
	ColTimesSpedUp,
	ColDiamondsCollected,
	ColTimesHidden,
}

// Record is one play session, either synthesized or observed live.
// Evaluation is empty until the record has been scored.
type Record struct {
	SuccessState      int        `csv:"Success State"`
	SessionLength     float64    `csv:"Session Length"`
	PlayerType        PlayerType `csv:"Player Type"`
	RobbersTagged     float64    `csv:"Percentage Robbers Tagged"`
	TimesSpedUp       int        `csv:"Times Sped Up"`
	DiamondsCollected float64    `csv:"Percentage Diamonds Collected"`
	TimesHidden       int        `csv:"Times Hidden"`
	Evaluation        Label      `csv:"Difficulty Evaluation"`
}

// Value returns the numeric value of a feature column.
func (r Record) Value(column string) (float64, bool) {
	switch column {
	case ColSuccessState:
		return float64(r.SuccessState), true
	case ColSessionLength:
		return r.SessionLength, true
	case ColPlayerType:
		return float64(r.PlayerType), true
	case ColRobbersTagged:
		return r.RobbersTagged, true
	case ColTimesSpedUp:
		return float64(r.TimesSpedUp), true
	case ColDiamondsCollected:
		return r.DiamondsCollected, true
	case ColTimesHidden:
		return float64(r.TimesHidden), true
	default:
		return 0, false
	}
}

// Vector returns the feature values in FeatureColumns order.
func (r Record) Vector() []float64 {
	v := make([]float64, len(FeatureColumns))
	for i, c := range FeatureColumns {
		v[i], _ = r.Value(c)
	}
	return v
}

// Features returns the record as a column-name keyed mapping, label excluded.
func (r Record) Features() map[string]float64 {
	m := make(map[string]float64, len(FeatureColumns))
	for _, c := range FeatureColumns {
		m[c], _ = r.Value(c)
	}
	return m
}

// integerColumns hold counts or codes and never carry a fraction.
var integerColumns = []string{ColSuccessState, ColPlayerType, ColTimesSpedUp, ColTimesHidden}

// FromFeatures builds a record from a feature mapping. Missing columns are
// reported together.
func FromFeatures(m map[string]float64) (Record, error) {
	var missing []string
	for _, c := range FeatureColumns {
		if _, ok := m[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return Record{}, fmt.Errorf("missing features: %s", strings.Join(missing, ", "))
	}
	for _, c := range integerColumns {
		if v := m[c]; math.Trunc(v) != v {
			return Record{}, fmt.Errorf("%s = %g, want an integer", c, v)
		}
	}
	return Record{
		SuccessState:      int(m[ColSuccessState]),
		SessionLength:     m[ColSessionLength],
		PlayerType:        PlayerType(int(m[ColPlayerType])),
		RobbersTagged:     m[ColRobbersTagged],
		TimesSpedUp:       int(m[ColTimesSpedUp]),
		DiamondsCollected: m[ColDiamondsCollected],
		TimesHidden:       int(m[ColTimesHidden]),
	}, nil
}

// Validate checks the documented value ranges.
func (r Record) Validate() error {
	switch {
	case r.SuccessState != 0 && r.SuccessState != 1:
		return fmt.Errorf("%s = %d, want 0 or 1", ColSuccessState, r.SuccessState)
	case r.SessionLength < 0 || r.SessionLength > MaxSessionLength:
		return fmt.Errorf("%s = %g, want [0,%d]", ColSessionLength, r.SessionLength, MaxSessionLength)
	case r.PlayerType != Cop && r.PlayerType != Robber:
		return fmt.Errorf("%s = %d, want 0 or 1", ColPlayerType, int(r.PlayerType))
	case r.RobbersTagged < 0 || r.RobbersTagged > 100:
		return fmt.Errorf("%s = %g, want [0,100]", ColRobbersTagged, r.RobbersTagged)
	case r.DiamondsCollected < 0 || r.DiamondsCollected > 100:
		return fmt.Errorf("%s = %g, want [0,100]", ColDiamondsCollected, r.DiamondsCollected)
	case r.TimesSpedUp < 0:
		return fmt.Errorf("%s = %d, want >= 0", ColTimesSpedUp, r.TimesSpedUp)
	case r.TimesHidden < 0:
		return fmt.Errorf("%s = %d, want >= 0", ColTimesHidden, r.TimesHidden)
	}
	return nil
}

// ParseFeature parses a "Column=value" pair as given on the command line.
func ParseFeature(s string) (string, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("feature %q: want Name=value", s)
	}
	name = strings.TrimSpace(name)
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("feature %q: %w", name, err)
	}
	return name, v, nil
}
