package gbt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Classifier is a multiclass boosted tree model. Ensembles[k] produces the
// margin of class k; the predicted class is the one with the largest margin.
type Classifier struct {
	NumClasses  int        `json:"num_classes"`
	FeatureSize int        `json:"feature_size"`
	BaseScore   float64    `json:"base_score"`
	Ensembles   []Ensemble `json:"ensembles"`
}

// Validate checks the class layout and every tree, so a loaded model can be
// evaluated without indexing out of range.
func (c *Classifier) Validate() error {
	if c.NumClasses < 1 || c.FeatureSize < 1 {
		return fmt.Errorf("model has %d classes over %d features", c.NumClasses, c.FeatureSize)
	}
	if len(c.Ensembles) != c.NumClasses {
		return fmt.Errorf("model has %d ensembles for %d classes", len(c.Ensembles), c.NumClasses)
	}
	for k := range c.Ensembles {
		for i := range c.Ensembles[k].Trees {
			if err := c.Ensembles[k].Trees[i].Validate(c.FeatureSize); err != nil {
				return fmt.Errorf("class %d tree %d: %w", k, i, err)
			}
		}
	}
	return nil
}

// Margins returns the raw score of every class for x.
func (c *Classifier) Margins(x []float64) ([]float64, error) {
	if len(x) != c.FeatureSize {
		return nil, fmt.Errorf("feature vector has %d values, model expects %d", len(x), c.FeatureSize)
	}
	if len(c.Ensembles) != c.NumClasses {
		return nil, fmt.Errorf("model has %d ensembles for %d classes", len(c.Ensembles), c.NumClasses)
	}
	m := make([]float64, c.NumClasses)
	for k := range c.Ensembles {
		m[k] = c.BaseScore + c.Ensembles[k].Evaluate(x)
	}
	return m, nil
}

// Proba returns the softmax class probabilities for x.
func (c *Classifier) Proba(x []float64) ([]float64, error) {
	m, err := c.Margins(x)
	if err != nil {
		return nil, err
	}
	softmax(m, m)
	return m, nil
}

// Predict returns the most likely class for x. Ties go to the lower class.
func (c *Classifier) Predict(x []float64) (int, error) {
	m, err := c.Margins(x)
	if err != nil {
		return -1, err
	}
	return argmax(m), nil
}

// PredictMatrix predicts every row of X.
func (c *Classifier) PredictMatrix(X mat.Matrix) ([]int, error) {
	rows, cols := X.Dims()
	if cols != c.FeatureSize {
		return nil, fmt.Errorf("matrix has %d columns, model expects %d", cols, c.FeatureSize)
	}
	out := make([]int, rows)
	x := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(x, i, X)
		k, err := c.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = k
	}
	return out, nil
}

// NumTrees returns the total number of trees across all classes.
func (c *Classifier) NumTrees() int {
	n := 0
	for _, e := range c.Ensembles {
		n += len(e.Trees)
	}
	return n
}

// softmax writes the normalized exponentials of src into dst.
func softmax(dst, src []float64) {
	hi := math.Inf(-1)
	for _, v := range src {
		hi = math.Max(hi, v)
	}
	var sum float64
	for i, v := range src {
		dst[i] = math.Exp(v - hi)
		sum += dst[i]
	}
	for i := range dst {
		dst[i] /= sum
	}
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
