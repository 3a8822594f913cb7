// Package train fits the difficulty classifier on a prepared dataset and
// reports its train and test error.
package train

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/abhisek/diffeval/internal/artifact"
	"github.com/abhisek/diffeval/internal/gbt"
	"github.com/abhisek/diffeval/internal/prep"
	"github.com/abhisek/diffeval/internal/session"
)

// Config controls the train/test split and the booster.
type Config struct {
	SplitSeed    uint64
	TestFraction float64
	Boost        gbt.Config
}

// DefaultConfig returns the fixed-seed 80/20 split with stock boosting.
func DefaultConfig() Config {
	return Config{
		SplitSeed:    DefaultSplitSeed,
		TestFraction: DefaultTestFraction,
		Boost:        gbt.DefaultConfig(),
	}
}

// MetricError indicates an error metric could not be computed, which
// would otherwise surface as a silent NaN.
type MetricError struct {
	Partition string
	Value     float64
}

func (e *MetricError) Error() string {
	return fmt.Sprintf("%s error is undefined (%v)", e.Partition, e.Value)
}

// Result is a fitted model together with its error on both partitions.
type Result struct {
	Model      *gbt.Classifier
	TrainError float64
	TestError  float64
	TrainRows  int
	TestRows   int
	Duration   time.Duration
}

// Artifact packages the result with the preparation scaler for inference.
func (r *Result) Artifact(p *prep.Prepared) *artifact.Artifact {
	classes := make([]string, 0, 3)
	for _, l := range session.AllLabels() {
		classes = append(classes, string(l))
	}
	return artifact.New(r.Model, p.Scaler, p.Columns, classes, artifact.Metrics{
		TrainError: r.TrainError,
		TestError:  r.TestError,
		TrainRows:  r.TrainRows,
		TestRows:   r.TestRows,
	})
}

// Train splits the prepared data, fits the classifier on the training rows
// and measures error = 1 - accuracy on both partitions.
func Train(ctx context.Context, p *prep.Prepared, cfg Config, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, _ := p.Features.Dims()
	part, err := Split(rows, cfg.TestFraction, cfg.SplitSeed)
	if err != nil {
		return nil, fmt.Errorf("split dataset: %w", err)
	}

	Xtr, ytr := subset(p.Features, p.Labels, part.Train)
	Xte, yte := subset(p.Features, p.Labels, part.Test)

	start := time.Now()
	model, err := gbt.Fit(Xtr, ytr, len(session.AllLabels()), cfg.Boost)
	if err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}
	elapsed := time.Since(start)

	trainErr, err := errorRate(model, Xtr, ytr, "training")
	if err != nil {
		return nil, err
	}
	testErr, err := errorRate(model, Xte, yte, "testing")
	if err != nil {
		return nil, err
	}

	log.Info("trained classifier",
		zap.Int("train_rows", len(ytr)),
		zap.Int("test_rows", len(yte)),
		zap.Int("trees", model.NumTrees()),
		zap.Float64("train_error", trainErr),
		zap.Float64("test_error", testErr),
		zap.Duration("elapsed", elapsed),
	)

	return &Result{
		Model:      model,
		TrainError: trainErr,
		TestError:  testErr,
		TrainRows:  len(ytr),
		TestRows:   len(yte),
		Duration:   elapsed,
	}, nil
}

func subset(X *mat.Dense, y []int, idx []int) (*mat.Dense, []int) {
	_, cols := X.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	labels := make([]int, len(idx))
	for i, r := range idx {
		out.SetRow(i, X.RawRowView(r))
		labels[i] = y[r]
	}
	return out, labels
}

// Accuracy is the share of predictions equal to the labels.
func Accuracy(pred, labels []int) float64 {
	if len(labels) == 0 || len(pred) != len(labels) {
		return math.NaN()
	}
	correct := 0
	for i := range labels {
		if pred[i] == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(labels))
}

func errorRate(model *gbt.Classifier, X mat.Matrix, y []int, partition string) (float64, error) {
	pred, err := model.PredictMatrix(X)
	if err != nil {
		return 0, fmt.Errorf("predict %s partition: %w", partition, err)
	}
	e := 1 - Accuracy(pred, y)
	if math.IsNaN(e) || math.IsInf(e, 0) || e < 0 || e > 1 {
		return 0, &MetricError{Partition: partition, Value: e}
	}
	return e, nil
}
