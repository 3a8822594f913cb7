package prep

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/abhisek/diffeval/internal/session"
)

// OutlierCutoff is the width of the accepted band in standard deviations.
const OutlierCutoff = 3

// ColumnOutliers summarizes outlier removal for one column.
type ColumnOutliers struct {
	Column  string
	Mean    float64
	StdDev  float64
	Lower   float64
	Upper   float64
	Removed int
	Skipped bool // too few rows for a sample standard deviation
}

// Dedup drops exact-duplicate records, keeping the first occurrence.
func Dedup(records []session.Record) []session.Record {
	seen := make(map[session.Record]struct{}, len(records))
	out := make([]session.Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// RemoveOutliers walks the feature columns in order and drops every row
// whose value lies outside mean ± 3 sample standard deviations. Each
// column's statistics are computed over the rows that survived the
// previous columns.
func RemoveOutliers(records []session.Record) ([]session.Record, []ColumnOutliers) {
	kept := append([]session.Record(nil), records...)
	report := make([]ColumnOutliers, 0, len(session.FeatureColumns))

	for _, col := range session.FeatureColumns {
		co := ColumnOutliers{Column: col}
		values := columnValues(kept, col)

		mean, err := stats.Mean(values)
		if err != nil {
			co.Skipped = true
			report = append(report, co)
			continue
		}
		sd, err := stats.StdDevS(values)
		if err != nil || math.IsNaN(sd) || len(values) < 2 {
			co.Mean, co.Skipped = mean, true
			report = append(report, co)
			continue
		}

		co.Mean, co.StdDev = mean, sd
		co.Lower = mean - OutlierCutoff*sd
		co.Upper = mean + OutlierCutoff*sd

		next := kept[:0]
		for i, r := range kept {
			if v := values[i]; v < co.Lower || v > co.Upper {
				co.Removed++
				continue
			}
			next = append(next, r)
		}
		kept = next
		report = append(report, co)
	}
	return kept, report
}

func columnValues(records []session.Record, col string) stats.Float64Data {
	values := make(stats.Float64Data, len(records))
	for i, r := range records {
		values[i], _ = r.Value(col)
	}
	return values
}
