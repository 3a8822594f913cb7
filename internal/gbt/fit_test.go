package gbt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// bands returns a one-feature problem where class = x / 10.
func bands() (*mat.Dense, []int) {
	n := 30
	X := mat.NewDense(n, 1, nil)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y[i] = i / 10
	}
	return X, y
}

func TestFit_SeparatesBands(t *testing.T) {
	X, y := bands()
	clf, err := Fit(X, y, 3, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 3, clf.NumClasses)
	assert.Equal(t, 1, clf.FeatureSize)
	assert.Equal(t, 300, clf.NumTrees())

	pred, err := clf.PredictMatrix(X)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	// Points between the bands follow the nearest training data.
	k, err := clf.Predict([]float64{4.2})
	require.NoError(t, err)
	assert.Equal(t, 0, k)
	k, err = clf.Predict([]float64{25})
	require.NoError(t, err)
	assert.Equal(t, 2, k)
}

func TestFit_TwoFeatureInteraction(t *testing.T) {
	// Class depends on both features: 0 if a<5 && b<5, 2 if a>=5 && b>=5, else 1.
	var data []float64
	var y []int
	for a := 0; a < 10; a++ {
		for b := 0; b < 10; b++ {
			data = append(data, float64(a), float64(b))
			switch {
			case a < 5 && b < 5:
				y = append(y, 0)
			case a >= 5 && b >= 5:
				y = append(y, 2)
			default:
				y = append(y, 1)
			}
		}
	}
	X := mat.NewDense(len(y), 2, data)

	clf, err := Fit(X, y, 3, DefaultConfig())
	require.NoError(t, err)

	pred, err := clf.PredictMatrix(X)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
}

func TestFit_ConstantFeaturesPredictMajority(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	y := []int{2, 2, 2, 2, 2, 2, 2, 0, 1, 1}

	cfg := DefaultConfig()
	cfg.Rounds = 10
	clf, err := Fit(X, y, 3, cfg)
	require.NoError(t, err)

	for _, e := range clf.Ensembles {
		for _, tree := range e.Trees {
			assert.Empty(t, tree.Nodes, "constant features cannot be split")
			assert.Len(t, tree.Outputs, 1)
		}
	}

	k, err := clf.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 2, k)
}

func TestFit_RespectsMaxDepth(t *testing.T) {
	X, y := bands()
	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	cfg.Rounds = 5
	clf, err := Fit(X, y, 3, cfg)
	require.NoError(t, err)
	for _, e := range clf.Ensembles {
		for _, tree := range e.Trees {
			assert.LessOrEqual(t, tree.Depth, 1)
			assert.LessOrEqual(t, len(tree.Nodes), 1)
		}
	}
}

func TestProbaSumsToOne(t *testing.T) {
	X, y := bands()
	cfg := DefaultConfig()
	cfg.Rounds = 20
	clf, err := Fit(X, y, 3, cfg)
	require.NoError(t, err)

	for _, x := range []float64{0, 9.5, 15, 29, 100} {
		p, err := clf.Proba([]float64{x})
		require.NoError(t, err)
		sum := 0.0
		for _, v := range p {
			assert.False(t, math.IsNaN(v))
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "x=%g", x)
	}
}

func TestFit_RejectsBadInput(t *testing.T) {
	X, y := bands()

	_, err := Fit(&mat.Dense{}, nil, 3, DefaultConfig())
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = Fit(X, y[:5], 3, DefaultConfig())
	assert.Error(t, err, "label count mismatch")

	_, err = Fit(X, y, 1, DefaultConfig())
	assert.Error(t, err, "too few classes")

	bad := append([]int(nil), y...)
	bad[3] = 7
	_, err = Fit(X, bad, 3, DefaultConfig())
	assert.Error(t, err, "label out of range")

	cfg := DefaultConfig()
	cfg.Rounds = 0
	_, err = Fit(X, y, 3, cfg)
	assert.Error(t, err, "invalid config")
}

func TestPredict_WrongFeatureCount(t *testing.T) {
	X, y := bands()
	cfg := DefaultConfig()
	cfg.Rounds = 2
	clf, err := Fit(X, y, 3, cfg)
	require.NoError(t, err)

	_, err = clf.Predict([]float64{1, 2})
	assert.Error(t, err)
	_, err = clf.PredictMatrix(mat.NewDense(2, 3, nil))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	mutations := []func(*Config){
		func(c *Config) { c.Rounds = -1 },
		func(c *Config) { c.MaxDepth = 0 },
		func(c *Config) { c.LearningRate = 0 },
		func(c *Config) { c.LearningRate = 1.5 },
		func(c *Config) { c.Lambda = -1 },
		func(c *Config) { c.Gamma = -0.1 },
		func(c *Config) { c.MinChildWeight = -1 },
	}
	for i, mutate := range mutations {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), "mutation %d", i)
	}
}
