package ml

import (
	"math/rand"
	"sort"
)

// TreeNode is a node of a binary CART tree. Fields are exported so trained
// trees survive gob encoding.
type TreeNode struct {
	Feature   int
	Threshold float64
	Gain      float64
	Left      *TreeNode
	Right     *TreeNode
	Value     float64
	Leaf      bool
}

// Tree is a single CART tree for classification (gini impurity, leaf value
// is the positive-class fraction) or regression (variance impurity, leaf
// value is the mean target).
type Tree struct {
	Root       *TreeNode
	NumFeature int
}

type treeConfig struct {
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // 0 means consider all features
	regression      bool
}

func (t *Tree) Predict(x []float64) float64 {
	node := t.Root
	for node != nil && !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	if node == nil {
		return 0
	}
	return node.Value
}

// FeatureImportance accumulates weighted impurity decrease per feature and
// normalizes to sum to 1.
func (t *Tree) FeatureImportance() []float64 {
	imp := make([]float64, t.NumFeature)
	t.accumulateImportance(t.Root, imp)
	total := 0.0
	for _, v := range imp {
		total += v
	}
	if total > 0 {
		for i := range imp {
			imp[i] /= total
		}
	}
	return imp
}

func (t *Tree) accumulateImportance(n *TreeNode, imp []float64) {
	if n == nil || n.Leaf {
		return
	}
	imp[n.Feature] += n.Gain
	t.accumulateImportance(n.Left, imp)
	t.accumulateImportance(n.Right, imp)
}

func growTree(x [][]float64, y []float64, idx []int, cfg treeConfig, rng *rand.Rand) *Tree {
	numFeature := 0
	if len(x) > 0 {
		numFeature = len(x[0])
	}
	root := growNode(x, y, idx, 0, cfg, rng)
	return &Tree{Root: root, NumFeature: numFeature}
}

func growNode(x [][]float64, y []float64, idx []int, depth int, cfg treeConfig, rng *rand.Rand) *TreeNode {
	value := leafValue(y, idx, cfg.regression)
	if len(idx) < cfg.minSamplesSplit || depth >= cfg.maxDepth || pure(y, idx) {
		return &TreeNode{Leaf: true, Value: value}
	}

	feature, threshold, gain, ok := bestSplit(x, y, idx, cfg, rng)
	if !ok {
		return &TreeNode{Leaf: true, Value: value}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < cfg.minSamplesLeaf || len(right) < cfg.minSamplesLeaf {
		return &TreeNode{Leaf: true, Value: value}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Gain:      gain * float64(len(idx)),
		Left:      growNode(x, y, left, depth+1, cfg, rng),
		Right:     growNode(x, y, right, depth+1, cfg, rng),
		Value:     value,
	}
}

func leafValue(y []float64, idx []int, regression bool) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	mean := sum / float64(len(idx))
	if regression {
		return mean
	}
	// Positive-class fraction doubles as the probability estimate.
	return mean
}

func pure(y []float64, idx []int) bool {
	if len(idx) == 0 {
		return true
	}
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

func impurity(y []float64, idx []int, regression bool) float64 {
	n := float64(len(idx))
	if n == 0 {
		return 0
	}
	if regression {
		mean := 0.0
		for _, i := range idx {
			mean += y[i]
		}
		mean /= n
		v := 0.0
		for _, i := range idx {
			v += (y[i] - mean) * (y[i] - mean)
		}
		return v / n
	}
	pos := 0.0
	for _, i := range idx {
		if y[i] >= 0.5 {
			pos++
		}
	}
	p := pos / n
	return 2 * p * (1 - p)
}

// bestSplit scans a subset of features for the threshold minimizing the
// weighted child impurity. Thresholds are midpoints between consecutive
// distinct sorted values.
func bestSplit(x [][]float64, y []float64, idx []int, cfg treeConfig, rng *rand.Rand) (feature int, threshold, gain float64, ok bool) {
	numFeature := len(x[idx[0]])
	features := make([]int, numFeature)
	for i := range features {
		features[i] = i
	}
	if cfg.maxFeatures > 0 && cfg.maxFeatures < numFeature {
		rng.Shuffle(numFeature, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:cfg.maxFeatures]
	}

	parent := impurity(y, idx, cfg.regression)
	bestGain := 0.0
	sorted := make([]int, len(idx))

	for _, f := range features {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		for s := cfg.minSamplesLeaf; s <= len(sorted)-cfg.minSamplesLeaf; s++ {
			if s == 0 || s == len(sorted) {
				continue
			}
			lo, hi := x[sorted[s-1]][f], x[sorted[s]][f]
			if lo == hi {
				continue
			}
			left := sorted[:s]
			right := sorted[s:]
			w := float64(len(left)) / float64(len(idx))
			child := w*impurity(y, left, cfg.regression) + (1-w)*impurity(y, right, cfg.regression)
			if g := parent - child; g > bestGain {
				bestGain = g
				feature = f
				threshold = (lo + hi) / 2
				ok = true
			}
		}
	}
	return feature, threshold, bestGain, ok
}
