// Package inference applies a trained difficulty model to a finished game
// session and hands the resulting adjustment to the game.
package inference

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/abhisek/diffeval/internal/artifact"
	"github.com/abhisek/diffeval/internal/session"
)

// Host is the game session the adapter reads features from and adjusts.
type Host interface {
	// SessionFeatures returns the finished session's statistics keyed by
	// feature column name.
	SessionFeatures(ctx context.Context) (map[string]float64, error)

	// AdjustDifficulty applies the predicted adjustment.
	AdjustDifficulty(ctx context.Context, d session.Direction) error
}

// Prediction is the outcome of one Apply call.
type Prediction struct {
	ModelID       string
	Features      map[string]float64
	Class         int
	Label         session.Label
	Direction     session.Direction
	Probabilities []float64
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithWriteBack controls whether the model file is rewritten after each
// prediction. It is on by default.
func WithWriteBack(on bool) Option {
	return func(a *Adapter) { a.writeBack = on }
}

// WithLogger sets the logger used for prediction summaries.
func WithLogger(log *zap.Logger) Option {
	return func(a *Adapter) {
		if log != nil {
			a.log = log
		}
	}
}

// Adapter loads the model artifact and turns session features into a
// difficulty adjustment.
type Adapter struct {
	modelPath string
	writeBack bool
	log       *zap.Logger
}

// New returns an adapter for the model at modelPath. The file is read on
// every Apply so a retrained model is picked up without a restart.
func New(modelPath string, opts ...Option) *Adapter {
	a := &Adapter{
		modelPath: modelPath,
		writeBack: true,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply predicts the adjustment for host's session and applies it.
func (a *Adapter) Apply(ctx context.Context, host Host) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	art, err := artifact.Load(a.modelPath)
	if err != nil {
		return nil, err
	}

	features, err := host.SessionFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session features: %w", err)
	}

	vec, err := Vector(art, features)
	if err != nil {
		return nil, err
	}

	proba, err := art.Model.Proba(vec)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	class, err := art.Model.Predict(vec)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	dir, err := session.DirectionForClass(class)
	if err != nil {
		return nil, err
	}

	pred := &Prediction{
		ModelID:       art.ModelID,
		Features:      maps.Clone(features),
		Class:         class,
		Label:         session.Label(art.Classes[class]),
		Direction:     dir,
		Probabilities: proba,
	}

	// The model is persisted before the game changes so a failed write
	// leaves the session untouched.
	if a.writeBack {
		if err := artifact.Save(a.modelPath, art); err != nil {
			return nil, fmt.Errorf("write back model: %w", err)
		}
	}

	if err := host.AdjustDifficulty(withPrediction(ctx, pred), dir); err != nil {
		return nil, fmt.Errorf("adjust difficulty: %w", err)
	}

	a.log.Info("applied difficulty prediction",
		zap.String("model_id", pred.ModelID),
		zap.String("label", string(pred.Label)),
		zap.String("direction", string(pred.Direction)),
		zap.Float64s("probabilities", pred.Probabilities),
	)
	return pred, nil
}

// Vector orders features by the artifact's columns and applies its scaler.
// Every missing column is reported in a single *SchemaMismatchError.
func Vector(art *artifact.Artifact, features map[string]float64) ([]float64, error) {
	vec := make([]float64, len(art.FeatureColumns))
	var missing []string
	for i, col := range art.FeatureColumns {
		v, ok := features[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		vec[i] = v
	}
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Missing: missing}
	}
	art.Scaler.Transform(vec, art.FeatureColumns)
	return vec, nil
}
