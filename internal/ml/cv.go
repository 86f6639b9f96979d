package ml

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FitPredictFunc trains on the train partition and returns predictions for
// the test rows.
type FitPredictFunc func(train *Dataset, testX [][]float64) ([]float64, error)

// ScoreFunc reduces truth and predictions for one fold to a scalar.
type ScoreFunc func(yTrue, yPred []float64) float64

// CrossValidate runs k-fold cross-validation, training folds concurrently,
// and returns the per-fold scores in fold order.
func CrossValidate(ctx context.Context, d *Dataset, k int, seed int64, fit FitPredictFunc, score ScoreFunc) ([]float64, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	folds := KFold(d.Len(), k, seed)
	scores := make([]float64, len(folds))

	g, ctx := errgroup.WithContext(ctx)
	for f, fold := range folds {
		f, fold := f, fold
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			train := d.Subset(fold[0])
			test := d.Subset(fold[1])
			pred, err := fit(train, test.X)
			if err != nil {
				return err
			}
			scores[f] = score(test.Y, pred)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
