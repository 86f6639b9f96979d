package ml

import (
	"math"
	"math/rand"
)

// GBTConfig holds the tunable hyperparameters of the boosted classifier.
type GBTConfig struct {
	NumRounds      int
	MaxDepth       int
	LearningRate   float64
	Subsample      float64
	ColsampleTree  float64
	MinChildWeight int
	Seed           int64
}

// DefaultGBTConfig mirrors the hyperparameters the draft model ships with
// when the corpus is too small for a search.
func DefaultGBTConfig() GBTConfig {
	return GBTConfig{
		NumRounds:      200,
		MaxDepth:       7,
		LearningRate:   0.05,
		Subsample:      0.9,
		ColsampleTree:  0.9,
		MinChildWeight: 3,
		Seed:           DefaultSeed,
	}
}

// GradientBoost is a binary classifier built from additive regression trees
// fit to logistic-loss gradients. The raw score starts at the log-odds of
// the training class balance and each round adds a shrunken tree fit to the
// current residuals.
type GradientBoost struct {
	Prior  float64
	Trees  []*Tree
	Config GBTConfig
}

// FitGBT trains the booster. Each round draws a row subsample and a column
// subsample from a seeded RNG, then fits a regression tree to the residuals
// y - p.
func FitGBT(d *Dataset, cfg GBTConfig) (*GradientBoost, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	n := d.Len()
	numFeature := len(d.X[0])

	pos := 0.0
	for _, y := range d.Y {
		if y >= 0.5 {
			pos++
		}
	}
	p := pos / float64(n)
	if p <= 0 {
		p = 1e-6
	}
	if p >= 1 {
		p = 1 - 1e-6
	}
	prior := math.Log(p / (1 - p))

	rng := rand.New(rand.NewSource(cfg.Seed))
	raw := make([]float64, n)
	for i := range raw {
		raw[i] = prior
	}

	colCount := int(cfg.ColsampleTree * float64(numFeature))
	if colCount < 1 {
		colCount = 1
	}
	rowCount := int(cfg.Subsample * float64(n))
	if rowCount < 1 {
		rowCount = 1
	}

	tc := treeConfig{
		maxDepth:        cfg.MaxDepth,
		minSamplesSplit: 2 * cfg.MinChildWeight,
		minSamplesLeaf:  cfg.MinChildWeight,
		maxFeatures:     colCount,
		regression:      true,
	}

	trees := make([]*Tree, 0, cfg.NumRounds)
	residual := make([]float64, n)
	for round := 0; round < cfg.NumRounds; round++ {
		for i := range residual {
			residual[i] = d.Y[i] - sigmoid(raw[i])
		}

		idx := rng.Perm(n)[:rowCount]
		tree := growTree(d.X, residual, idx, tc, rng)
		trees = append(trees, tree)

		for i := range raw {
			raw[i] += cfg.LearningRate * tree.Predict(d.X[i])
		}
	}
	return &GradientBoost{Prior: prior, Trees: trees, Config: cfg}, nil
}

// PredictProba returns the positive-class probability for one row.
func (g *GradientBoost) PredictProba(x []float64) float64 {
	raw := g.Prior
	for _, t := range g.Trees {
		raw += g.Config.LearningRate * t.Predict(x)
	}
	return sigmoid(raw)
}

// PredictBatch applies PredictProba to every row.
func (g *GradientBoost) PredictBatch(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = g.PredictProba(row)
	}
	return out
}

// FeatureImportance averages per-tree importances and renormalizes.
func (g *GradientBoost) FeatureImportance() []float64 {
	if len(g.Trees) == 0 {
		return nil
	}
	imp := make([]float64, g.Trees[0].NumFeature)
	for _, t := range g.Trees {
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

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
