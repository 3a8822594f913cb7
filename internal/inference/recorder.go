package inference

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/diffeval/internal/session"
	"github.com/abhisek/diffeval/internal/store"
)

// RecordingHost is a decorator that records every difficulty adjustment
// as a prediction event.
type RecordingHost struct {
	inner     Host
	eventRepo store.EventRepo
}

// WithRecorder wraps a Host with prediction event recording.
func WithRecorder(h Host, repo store.EventRepo) Host {
	return &RecordingHost{inner: h, eventRepo: repo}
}

func (r *RecordingHost) SessionFeatures(ctx context.Context) (map[string]float64, error) {
	return r.inner.SessionFeatures(ctx)
}

func (r *RecordingHost) AdjustDifficulty(ctx context.Context, d session.Direction) error {
	err := r.inner.AdjustDifficulty(ctx, d)

	data := store.PredictionEventData{
		Direction: string(d),
		Applied:   err == nil,
	}
	if p, ok := PredictionFrom(ctx); ok {
		data.ModelID = p.ModelID
		data.Features = p.Features
		data.Class = p.Class
		data.Label = string(p.Label)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Record the event but don't fail the adjustment if recording fails.
	if recErr := r.eventRepo.AppendPrediction(ctx, data); recErr != nil {
		zap.L().Warn("failed to record prediction event", zap.Error(recErr))
	}

	return err
}
