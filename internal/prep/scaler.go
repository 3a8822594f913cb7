package prep

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/abhisek/diffeval/internal/session"
)

// ScaledColumns are the continuous columns rescaled to [0,1].
var ScaledColumns = []string{
	session.ColSessionLength,
	session.ColRobbersTagged,
	session.ColDiamondsCollected,
}

// Scaler is a per-column min-max transform. A column whose min equals its
// max maps every value v to v-min.
type Scaler struct {
	Columns []string  `json:"columns"`
	Min     []float64 `json:"min"`
	Max     []float64 `json:"max"`
}

// FitScaler learns the min and max of each column over records.
func FitScaler(records []session.Record, columns []string) (*Scaler, error) {
	s := &Scaler{
		Columns: append([]string(nil), columns...),
		Min:     make([]float64, len(columns)),
		Max:     make([]float64, len(columns)),
	}
	for i, col := range columns {
		values := columnValues(records, col)
		lo, err := stats.Min(values)
		if err != nil {
			return nil, fmt.Errorf("min of %s: %w", col, err)
		}
		hi, err := stats.Max(values)
		if err != nil {
			return nil, fmt.Errorf("max of %s: %w", col, err)
		}
		s.Min[i], s.Max[i] = lo, hi
	}
	return s, nil
}

func (s *Scaler) index(column string) int {
	for i, c := range s.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

func (s *Scaler) span(i int) float64 {
	if r := s.Max[i] - s.Min[i]; r != 0 {
		return r
	}
	return 1
}

// Scale maps v of column into the fitted range. Columns the scaler was
// not fitted on are returned unchanged with ok == false.
func (s *Scaler) Scale(column string, v float64) (scaled float64, ok bool) {
	i := s.index(column)
	if i < 0 {
		return v, false
	}
	return (v - s.Min[i]) / s.span(i), true
}

// Unscale is the inverse of Scale.
func (s *Scaler) Unscale(column string, v float64) (float64, bool) {
	i := s.index(column)
	if i < 0 {
		return v, false
	}
	return v*s.span(i) + s.Min[i], true
}

// Transform scales, in place, the entries of vec whose column (given by
// columns, aligned with vec) the scaler knows about.
func (s *Scaler) Transform(vec []float64, columns []string) {
	for j, col := range columns {
		vec[j], _ = s.Scale(col, vec[j])
	}
}

// Inverse undoes Transform in place.
func (s *Scaler) Inverse(vec []float64, columns []string) {
	for j, col := range columns {
		vec[j], _ = s.Unscale(col, vec[j])
	}
}

// Validate checks the scaler's arrays are aligned.
func (s *Scaler) Validate() error {
	if len(s.Min) != len(s.Columns) || len(s.Max) != len(s.Columns) {
		return fmt.Errorf("scaler has %d columns but %d mins and %d maxes", len(s.Columns), len(s.Min), len(s.Max))
	}
	for i := range s.Columns {
		if s.Min[i] > s.Max[i] {
			return fmt.Errorf("scaler column %s: min %g > max %g", s.Columns[i], s.Min[i], s.Max[i])
		}
	}
	return nil
}
