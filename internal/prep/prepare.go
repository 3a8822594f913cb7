// Package prep cleans, scales and encodes a session dataset into a
// feature matrix and label vector.
package prep

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/abhisek/diffeval/internal/session"
)

// Counts tracks rows through the preparation stages.
type Counts struct {
	Raw     int
	Deduped int
	Clean   int
}

// Prepared is the output of Prepare. Features rows are aligned with Labels
// and columns follow session.FeatureColumns.
type Prepared struct {
	Features *mat.Dense
	Labels   []int
	Columns  []string
	Scaler   *Scaler
	Outliers []ColumnOutliers
	Counts   Counts
}

// EncodeLabel maps a label to its class: Easier 0, Same 1, Harder 2.
func EncodeLabel(l session.Label) (int, error) {
	return l.Class()
}

// Prepare deduplicates records, removes outliers, fits the min-max scaler
// on ScaledColumns and encodes labels.
func Prepare(records []session.Record, log *zap.Logger) (*Prepared, error) {
	if log == nil {
		log = zap.NewNop()
	}
	counts := Counts{Raw: len(records)}
	if counts.Raw == 0 {
		return nil, &EmptyDatasetError{Stage: "load"}
	}

	deduped := Dedup(records)
	counts.Deduped = len(deduped)
	if counts.Deduped == 0 {
		return nil, &EmptyDatasetError{Stage: "deduplication", Input: counts.Raw}
	}

	clean, report := RemoveOutliers(deduped)
	counts.Clean = len(clean)
	for _, co := range report {
		if co.Removed > 0 {
			log.Debug("removed outliers",
				zap.String("column", co.Column),
				zap.Int("removed", co.Removed),
				zap.Float64("lower", co.Lower),
				zap.Float64("upper", co.Upper),
			)
		}
	}
	if counts.Clean == 0 {
		return nil, &EmptyDatasetError{Stage: "outlier removal", Input: counts.Deduped}
	}

	scaler, err := FitScaler(clean, ScaledColumns)
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}

	cols := session.FeatureColumns
	features := mat.NewDense(len(clean), len(cols), nil)
	labels := make([]int, len(clean))
	for i, r := range clean {
		vec := r.Vector()
		scaler.Transform(vec, cols)
		features.SetRow(i, vec)

		k, err := EncodeLabel(r.Evaluation)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		labels[i] = k
	}

	log.Info("prepared dataset",
		zap.Int("raw", counts.Raw),
		zap.Int("deduped", counts.Deduped),
		zap.Int("clean", counts.Clean),
	)

	return &Prepared{
		Features: features,
		Labels:   labels,
		Columns:  append([]string(nil), cols...),
		Scaler:   scaler,
		Outliers: report,
		Counts:   counts,
	}, nil
}
