// Package ml implements the estimator internals: datasets, scaling, CART
// trees, bagged and boosted ensembles, evaluation metrics, cross-validation,
// and a bounded randomized hyperparameter search. Everything is seeded;
// identical inputs and seeds produce identical models.
package ml

import (
	"fmt"
	"math/rand"
)

// DefaultSeed matches the training protocol's fixed random state.
const DefaultSeed = 42

// Dataset is a dense feature matrix with aligned targets.
type Dataset struct {
	X [][]float64
	Y []float64
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.X) }

// Subset returns the rows at idx. Rows are shared, not copied.
func (d *Dataset) Subset(idx []int) *Dataset {
	sub := &Dataset{
		X: make([][]float64, len(idx)),
		Y: make([]float64, len(idx)),
	}
	for i, j := range idx {
		sub.X[i] = d.X[j]
		sub.Y[i] = d.Y[j]
	}
	return sub
}

// Validate checks the matrix is rectangular and aligned with Y.
func (d *Dataset) Validate() error {
	if len(d.X) != len(d.Y) {
		return fmt.Errorf("ml: %d feature rows but %d targets", len(d.X), len(d.Y))
	}
	if len(d.X) == 0 {
		return fmt.Errorf("ml: empty dataset")
	}
	width := len(d.X[0])
	for i, row := range d.X {
		if len(row) != width {
			return fmt.Errorf("ml: row %d has %d features, want %d", i, len(row), width)
		}
	}
	return nil
}

// TrainTestSplit splits the dataset into train and test partitions. When
// stratify is set the positive/negative class ratio is preserved in both
// partitions (binary targets assumed).
func TrainTestSplit(d *Dataset, testSize float64, stratify bool, seed int64) (train, test *Dataset) {
	rng := rand.New(rand.NewSource(seed))

	if !stratify {
		idx := rng.Perm(d.Len())
		nTest := int(float64(d.Len()) * testSize)
		return d.Subset(idx[nTest:]), d.Subset(idx[:nTest])
	}

	var pos, neg []int
	for i, y := range d.Y {
		if y >= 0.5 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}
	shuffle(rng, pos)
	shuffle(rng, neg)

	nTestPos := int(float64(len(pos)) * testSize)
	nTestNeg := int(float64(len(neg)) * testSize)

	testIdx := append(append([]int{}, pos[:nTestPos]...), neg[:nTestNeg]...)
	trainIdx := append(append([]int{}, pos[nTestPos:]...), neg[nTestNeg:]...)
	shuffle(rng, testIdx)
	shuffle(rng, trainIdx)
	return d.Subset(trainIdx), d.Subset(testIdx)
}

// KFold returns k (train, test) index splits over n rows, shuffled with seed.
func KFold(n, k int, seed int64) [][2][]int {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(n)

	folds := make([][2][]int, 0, k)
	for f := 0; f < k; f++ {
		lo := f * n / k
		hi := (f + 1) * n / k
		test := append([]int{}, perm[lo:hi]...)
		train := make([]int, 0, n-len(test))
		train = append(train, perm[:lo]...)
		train = append(train, perm[hi:]...)
		folds = append(folds, [2][]int{train, test})
	}
	return folds
}

func shuffle(rng *rand.Rand, idx []int) {
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
}
