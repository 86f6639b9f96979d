package ml

import (
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// ForestConfig holds the tunable hyperparameters of a random forest.
type ForestConfig struct {
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            int64
}

// DefaultForestConfig mirrors the settings the outcome and duration models
// are trained with.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:        100,
		MaxDepth:        20,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		Seed:            DefaultSeed,
	}
}

// RandomForest is a bagged ensemble of CART trees. Regression forests
// average leaf means over all features; classification forests average
// positive-class fractions over sqrt(p) feature subsets per split.
type RandomForest struct {
	Trees      []*Tree
	Config     ForestConfig
	Regression bool
}

// FitForest trains the ensemble. Trees are grown concurrently, each on its
// own bootstrap sample and derived RNG so results do not depend on
// scheduling order.
func FitForest(d *Dataset, cfg ForestConfig, regression bool) (*RandomForest, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	numFeature := len(d.X[0])
	maxFeatures := 0
	if !regression {
		maxFeatures = int(math.Sqrt(float64(numFeature)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}
	tc := treeConfig{
		maxDepth:        cfg.MaxDepth,
		minSamplesSplit: cfg.MinSamplesSplit,
		minSamplesLeaf:  cfg.MinSamplesLeaf,
		maxFeatures:     maxFeatures,
		regression:      regression,
	}

	trees := make([]*Tree, cfg.NumTrees)
	var g errgroup.Group
	g.SetLimit(8)
	for t := 0; t < cfg.NumTrees; t++ {
		t := t
		g.Go(func() error {
			rng := rand.New(rand.NewSource(cfg.Seed + int64(t)))
			idx := make([]int, d.Len())
			for i := range idx {
				idx[i] = rng.Intn(d.Len())
			}
			trees[t] = growTree(d.X, d.Y, idx, tc, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &RandomForest{Trees: trees, Config: cfg, Regression: regression}, nil
}

// Predict returns the ensemble mean for one row. For classifiers this is
// the positive-class probability.
func (f *RandomForest) Predict(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range f.Trees {
		sum += t.Predict(x)
	}
	return sum / float64(len(f.Trees))
}

// PredictBatch applies Predict to every row.
func (f *RandomForest) PredictBatch(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = f.Predict(row)
	}
	return out
}

// FeatureImportance averages per-tree importances and renormalizes.
func (f *RandomForest) FeatureImportance() []float64 {
	if len(f.Trees) == 0 {
		return nil
	}
	imp := make([]float64, f.Trees[0].NumFeature)
	for _, t := range f.Trees {
		for i, v := range t.FeatureImportance() {
			imp[i] += v
		}
	}
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
