package inference

import "context"

type predictionKey struct{}

func withPrediction(ctx context.Context, p *Prediction) context.Context {
	return context.WithValue(ctx, predictionKey{}, p)
}

// PredictionFrom returns the prediction being applied, if any. Hosts see it
// in the context passed to AdjustDifficulty.
func PredictionFrom(ctx context.Context) (*Prediction, bool) {
	p, ok := ctx.Value(predictionKey{}).(*Prediction)
	return p, ok
}
