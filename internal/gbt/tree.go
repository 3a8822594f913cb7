package gbt

import "fmt"

// A Node represents a splitting decision of the form "x[FeatureIndex] < Threshold ?" in a decision tree
type Node struct {
	// FeatureIndex indicates which feature is used in this splitting decision
	FeatureIndex int `json:"feature_index"`
	// Threshold indicates the cutoff value between the left and right subtrees
	Threshold float64 `json:"threshold"`
	// LeftChild is the index of the node (or leaf output) for the left subtree
	LeftChild int `json:"left_child"`
	// LeftIsLeaf indicates whether the left subtree is a leaf
	LeftIsLeaf bool `json:"left_is_leaf"`
	// RightChild is the index of the node (or leaf output) for the right subtree
	RightChild int `json:"right_child"`
	// RightIsLeaf indicates whether the right subtree is a leaf
	RightIsLeaf bool `json:"right_is_leaf"`
}

// A Tree is a regression tree mapping a feature vector to a leaf weight.
// A tree without nodes is a single leaf.
type Tree struct {
	// Nodes is a flat list of all internal nodes; Nodes[0] is the root
	Nodes []Node `json:"nodes"`
	// Outputs holds the weight of every leaf
	Outputs []float64 `json:"outputs"`
	// FeatureSize is the length of feature vectors processed by this tree
	FeatureSize int `json:"feature_size"`
	// Depth is the maximum depth of any leaf in the tree
	Depth int `json:"depth"`
}

// Bin drops a feature vector down the tree and returns the index of the leaf it ends up in.
func (t *Tree) Bin(x []float64) int {
	if len(x) != t.FeatureSize {
		panic("feature vector had incorrect length")
	}
	if len(t.Nodes) == 0 {
		return 0
	}
	cur := t.Nodes[0]
	for i := 0; i < t.Depth; i++ {
		if x[cur.FeatureIndex] < cur.Threshold {
			if cur.LeftIsLeaf {
				return cur.LeftChild
			}
			cur = t.Nodes[cur.LeftChild]
		} else {
			if cur.RightIsLeaf {
				return cur.RightChild
			}
			cur = t.Nodes[cur.RightChild]
		}
	}
	panic("tree traversal did not terminate")
}

// Validate checks that every node and leaf reference is in range, that every
// split reads a feature below featureSize, and that Depth is enough for Bin
// to reach every leaf.
func (t *Tree) Validate(featureSize int) error {
	if t.FeatureSize != featureSize {
		return fmt.Errorf("tree reads %d features, want %d", t.FeatureSize, featureSize)
	}
	if len(t.Nodes) == 0 {
		if len(t.Outputs) == 0 {
			return fmt.Errorf("single-leaf tree has no output")
		}
		return nil
	}
	return t.validateNode(0, 1)
}

func (t *Tree) validateNode(idx, level int) error {
	// a path longer than the node count revisits a node
	if level > t.Depth || level > len(t.Nodes) {
		return fmt.Errorf("node %d at level %d exceeds depth %d", idx, level, t.Depth)
	}
	n := t.Nodes[idx]
	if n.FeatureIndex < 0 || n.FeatureIndex >= t.FeatureSize {
		return fmt.Errorf("node %d splits on feature %d of %d", idx, n.FeatureIndex, t.FeatureSize)
	}
	if err := t.validateChild(idx, "left", n.LeftChild, n.LeftIsLeaf, level); err != nil {
		return err
	}
	return t.validateChild(idx, "right", n.RightChild, n.RightIsLeaf, level)
}

func (t *Tree) validateChild(parent int, side string, child int, leaf bool, level int) error {
	if leaf {
		if child < 0 || child >= len(t.Outputs) {
			return fmt.Errorf("node %d %s leaf %d out of %d outputs", parent, side, child, len(t.Outputs))
		}
		return nil
	}
	if child < 0 || child >= len(t.Nodes) {
		return fmt.Errorf("node %d %s child %d out of %d nodes", parent, side, child, len(t.Nodes))
	}
	return t.validateNode(child, level+1)
}

// Evaluate returns the weight of the leaf x lands in.
func (t *Tree) Evaluate(x []float64) float64 {
	return t.Outputs[t.Bin(x)]
}

// An Ensemble outputs the sum of several trees
type Ensemble struct {
	Trees []Tree `json:"trees"`
}

// Evaluate computes the sum of the outputs of the component trees
func (e *Ensemble) Evaluate(x []float64) float64 {
	var sum float64
	for i := range e.Trees {
		sum += e.Trees[i].Evaluate(x)
	}
	return sum
}
