package ml

import (
	"context"
	"math/rand"

	"go.uber.org/zap"
)

// SearchSpace enumerates the candidate values drawn for each boosted-model
// hyperparameter. The grids match the draft model's tuning protocol.
type SearchSpace struct {
	NumRounds      []int
	MaxDepth       []int
	LearningRate   []float64
	Subsample      []float64
	ColsampleTree  []float64
	MinChildWeight []int
}

// DefaultSearchSpace returns the grid the draft model is tuned over.
func DefaultSearchSpace() SearchSpace {
	return SearchSpace{
		NumRounds:      []int{100, 200, 300, 500},
		MaxDepth:       []int{4, 5, 6, 7, 8},
		LearningRate:   []float64{0.01, 0.03, 0.05, 0.1},
		Subsample:      []float64{0.8, 0.9, 1.0},
		ColsampleTree:  []float64{0.8, 0.9, 1.0},
		MinChildWeight: []int{1, 3, 5},
	}
}

// MinSearchRows gates the randomized search. Below this many training rows
// the defaults are used as-is.
const MinSearchRows = 1000

// RandomizedSearch samples iterations random configurations from the space,
// scores each with k-fold cross-validated accuracy, and returns the best
// configuration with its mean score. Candidate draws come from a seeded RNG
// so the search is reproducible.
func RandomizedSearch(ctx context.Context, d *Dataset, space SearchSpace, iterations, folds int, seed int64, logger *zap.SugaredLogger) (GBTConfig, float64, error) {
	rng := rand.New(rand.NewSource(seed))

	best := DefaultGBTConfig()
	best.Seed = seed
	bestScore := -1.0

	for iter := 0; iter < iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return best, bestScore, err
		}
		cfg := GBTConfig{
			NumRounds:      space.NumRounds[rng.Intn(len(space.NumRounds))],
			MaxDepth:       space.MaxDepth[rng.Intn(len(space.MaxDepth))],
			LearningRate:   space.LearningRate[rng.Intn(len(space.LearningRate))],
			Subsample:      space.Subsample[rng.Intn(len(space.Subsample))],
			ColsampleTree:  space.ColsampleTree[rng.Intn(len(space.ColsampleTree))],
			MinChildWeight: space.MinChildWeight[rng.Intn(len(space.MinChildWeight))],
			Seed:           seed,
		}

		scores, err := CrossValidate(ctx, d, folds, seed, func(train *Dataset, testX [][]float64) ([]float64, error) {
			model, err := FitGBT(train, cfg)
			if err != nil {
				return nil, err
			}
			return model.PredictBatch(testX), nil
		}, Accuracy)
		if err != nil {
			return best, bestScore, err
		}

		mean, _ := MeanStd(scores)
		if mean > bestScore {
			bestScore = mean
			best = cfg
			logger.Infow("search improved",
				"iteration", iter,
				"cv_accuracy", mean,
				"rounds", cfg.NumRounds,
				"depth", cfg.MaxDepth,
				"learning_rate", cfg.LearningRate)
		}
	}
	return best, bestScore, nil
}
