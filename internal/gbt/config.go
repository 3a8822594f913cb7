package gbt

import "fmt"

// Config holds the boosting parameters.
type Config struct {
	// Rounds is the number of boosting iterations. Each round grows one
	// tree per class.
	Rounds int `json:"rounds"`
	// MaxDepth bounds the depth of every tree.
	MaxDepth int `json:"max_depth"`
	// LearningRate shrinks every leaf weight.
	LearningRate float64 `json:"learning_rate"`
	// Lambda is the L2 penalty on leaf weights.
	Lambda float64 `json:"lambda"`
	// Gamma is the minimum loss reduction required to split.
	Gamma float64 `json:"gamma"`
	// MinChildWeight is the minimum hessian sum allowed in a child.
	MinChildWeight float64 `json:"min_child_weight"`
	// BaseScore is the initial margin of every class.
	BaseScore float64 `json:"base_score"`
}

// DefaultConfig returns the stock gradient boosting parameters.
func DefaultConfig() Config {
	return Config{
		Rounds:         100,
		MaxDepth:       6,
		LearningRate:   0.3,
		Lambda:         1,
		Gamma:          0,
		MinChildWeight: 1,
		BaseScore:      0.5,
	}
}

// Validate rejects parameters that cannot produce a model.
func (c Config) Validate() error {
	switch {
	case c.Rounds <= 0:
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	case c.MaxDepth <= 0:
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	case c.LearningRate <= 0 || c.LearningRate > 1:
		return fmt.Errorf("learning rate must be in (0,1], got %g", c.LearningRate)
	case c.Lambda < 0:
		return fmt.Errorf("lambda must be non-negative, got %g", c.Lambda)
	case c.Gamma < 0:
		return fmt.Errorf("gamma must be non-negative, got %g", c.Gamma)
	case c.MinChildWeight < 0:
		return fmt.Errorf("min child weight must be non-negative, got %g", c.MinChildWeight)
	}
	return nil
}
