package gbt

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// minSplitGain is the smallest loss reduction treated as an improvement.
const minSplitGain = 1e-6

// minHessian keeps second-order statistics away from zero.
const minHessian = 1e-16

// ErrNoRows indicates Fit was called without training data.
var ErrNoRows = errors.New("no training rows")

// Fit trains a softmax boosted tree classifier on X (rows are samples) and
// integer class labels y in [0, numClasses).
func Fit(X mat.Matrix, y []int, numClasses int, cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return nil, ErrNoRows
	}
	if len(y) != n {
		return nil, fmt.Errorf("got %d labels for %d rows", len(y), n)
	}
	if numClasses < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", numClasses)
	}
	for i, k := range y {
		if k < 0 || k >= numClasses {
			return nil, fmt.Errorf("row %d: label %d outside [0,%d)", i, k, numClasses)
		}
	}

	b := newBuilder(X, cfg)
	clf := &Classifier{
		NumClasses:  numClasses,
		FeatureSize: d,
		BaseScore:   cfg.BaseScore,
		Ensembles:   make([]Ensemble, numClasses),
	}

	margins := make([][]float64, n)
	for i := range margins {
		margins[i] = make([]float64, numClasses)
		for k := range margins[i] {
			margins[i][k] = cfg.BaseScore
		}
	}

	probs := make([][]float64, n)
	for i := range probs {
		probs[i] = make([]float64, numClasses)
	}
	grad := make([]float64, n)
	hess := make([]float64, n)

	for round := 0; round < cfg.Rounds; round++ {
		for i := range margins {
			softmax(probs[i], margins[i])
		}

		// Every class tree of a round is fit against the same probabilities.
		updates := make([][]float64, numClasses)
		for k := 0; k < numClasses; k++ {
			for i := 0; i < n; i++ {
				p := probs[i][k]
				target := 0.0
				if y[i] == k {
					target = 1
				}
				grad[i] = p - target
				hess[i] = math.Max(2*p*(1-p), minHessian)
			}
			tree, leafOf := b.grow(grad, hess)
			clf.Ensembles[k].Trees = append(clf.Ensembles[k].Trees, tree)

			upd := make([]float64, n)
			for i, leaf := range leafOf {
				upd[i] = tree.Outputs[leaf]
			}
			updates[k] = upd
		}
		for k, upd := range updates {
			for i, v := range upd {
				margins[i][k] += v
			}
		}
	}

	return clf, nil
}

// builder grows regression trees over a fixed training matrix.
type builder struct {
	cfg    Config
	n, d   int
	cols   [][]float64 // column-major copy of X
	sorted [][]int     // row indices of each column in ascending value order
}

func newBuilder(X mat.Matrix, cfg Config) *builder {
	n, d := X.Dims()
	b := &builder{cfg: cfg, n: n, d: d}
	b.cols = make([][]float64, d)
	b.sorted = make([][]int, d)
	for f := 0; f < d; f++ {
		col := make([]float64, n)
		mat.Col(col, f, X)
		b.cols[f] = col

		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, c int) bool { return col[idx[a]] < col[idx[c]] })
		b.sorted[f] = idx
	}
	return b
}

// candidate is a tree position waiting to become a split or a leaf.
type candidate struct {
	parent int // index into Tree.Nodes, -1 for the root
	left   bool
	depth  int
	g, h   float64
}

type split struct {
	ok        bool
	feature   int
	threshold float64
	gain      float64
	gl, hl    float64
}

// grow builds one tree level by level and returns it together with the
// leaf index of every training row.
func (b *builder) grow(grad, hess []float64) (Tree, []int) {
	tree := Tree{FeatureSize: b.d}
	leafOf := make([]int, b.n)

	pos := make([]int, b.n) // candidate index on the current level, -1 once settled
	root := candidate{parent: -1}
	for i := 0; i < b.n; i++ {
		root.g += grad[i]
		root.h += hess[i]
	}
	level := []candidate{root}

	for len(level) > 0 {
		best := b.findSplits(level, pos, grad, hess)

		var next []candidate
		// route[c] is the next-level index of candidate c's left child, or
		// -1 - leaf when the candidate became a leaf.
		route := make([]int, len(level))
		for c, cand := range level {
			s := best[c]
			if !s.ok || cand.depth >= b.cfg.MaxDepth {
				leaf := len(tree.Outputs)
				tree.Outputs = append(tree.Outputs, b.leafWeight(cand.g, cand.h))
				link(&tree, cand, leaf, true)
				tree.Depth = max(tree.Depth, cand.depth)
				route[c] = -1 - leaf
				continue
			}

			node := len(tree.Nodes)
			tree.Nodes = append(tree.Nodes, Node{FeatureIndex: s.feature, Threshold: s.threshold})
			link(&tree, cand, node, false)
			route[c] = len(next)
			next = append(next,
				candidate{parent: node, left: true, depth: cand.depth + 1, g: s.gl, h: s.hl},
				candidate{parent: node, left: false, depth: cand.depth + 1, g: cand.g - s.gl, h: cand.h - s.hl},
			)
		}

		for i := 0; i < b.n; i++ {
			c := pos[i]
			if c < 0 {
				continue
			}
			r := route[c]
			if r < 0 {
				leafOf[i] = -1 - r
				pos[i] = -1
				continue
			}
			s := best[c]
			if b.cols[s.feature][i] < s.threshold {
				pos[i] = r
			} else {
				pos[i] = r + 1
			}
		}
		level = next
	}

	return tree, leafOf
}

// findSplits scans every presorted column once and returns the best split
// of each candidate on the level.
func (b *builder) findSplits(level []candidate, pos []int, grad, hess []float64) []split {
	best := make([]split, len(level))
	gl := make([]float64, len(level))
	hl := make([]float64, len(level))
	last := make([]float64, len(level))
	seen := make([]bool, len(level))

	for f := 0; f < b.d; f++ {
		clear(gl)
		clear(hl)
		clear(seen)
		col := b.cols[f]
		for _, i := range b.sorted[f] {
			c := pos[i]
			if c < 0 {
				continue
			}
			v := col[i]
			if seen[c] && v != last[c] {
				cand := level[c]
				if gain, ok := b.gain(cand, gl[c], hl[c]); ok && gain > best[c].gain {
					thr := last[c] + (v-last[c])/2
					if thr <= last[c] {
						thr = v
					}
					best[c] = split{ok: true, feature: f, threshold: thr, gain: gain, gl: gl[c], hl: hl[c]}
				}
			}
			gl[c] += grad[i]
			hl[c] += hess[i]
			last[c] = v
			seen[c] = true
		}
	}
	return best
}

// gain returns the loss reduction of sending (gl, hl) left and the rest of
// the candidate right.
func (b *builder) gain(cand candidate, gl, hl float64) (float64, bool) {
	gr, hr := cand.g-gl, cand.h-hl
	if hl < b.cfg.MinChildWeight || hr < b.cfg.MinChildWeight {
		return 0, false
	}
	lambda := b.cfg.Lambda
	g := 0.5*(gl*gl/(hl+lambda)+gr*gr/(hr+lambda)-cand.g*cand.g/(cand.h+lambda)) - b.cfg.Gamma
	if g <= minSplitGain {
		return 0, false
	}
	return g, true
}

func (b *builder) leafWeight(g, h float64) float64 {
	return -g / (h + b.cfg.Lambda) * b.cfg.LearningRate
}

// link attaches a node or leaf to its parent.
func link(t *Tree, cand candidate, idx int, leaf bool) {
	if cand.parent < 0 {
		return
	}
	p := &t.Nodes[cand.parent]
	if cand.left {
		p.LeftChild, p.LeftIsLeaf = idx, leaf
	} else {
		p.RightChild, p.RightIsLeaf = idx, leaf
	}
}
