package train

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// DefaultSplitSeed fixes the train/test shuffle so runs are comparable.
const DefaultSplitSeed = 22

// DefaultTestFraction is the share of rows held out for testing.
const DefaultTestFraction = 0.2

// Partition holds row indices of the train and test sets.
type Partition struct {
	Train []int
	Test  []int
}

// Split shuffles row indices 0..n-1 with seed and holds out
// ceil(n*testFraction) of them for testing.
func Split(n int, testFraction float64, seed uint64) (Partition, error) {
	if n < 2 {
		return Partition{}, fmt.Errorf("need at least 2 rows to split, got %d", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return Partition{}, fmt.Errorf("test fraction must be in (0,1), got %g", testFraction)
	}

	nTest := int(math.Ceil(float64(n) * testFraction))
	if nTest >= n {
		nTest = n - 1
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	return Partition{
		Test:  perm[:nTest],
		Train: perm[nTest:],
	}, nil
}
