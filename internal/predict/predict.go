// Package predict implements the three trained estimators: the match
// outcome classifier, the duration regressor, and the draft outcome
// classifier. Each follows the same lifecycle: construct, Train or
// LoadBundle, then serve predictions. Inference on an estimator that has
// done neither fails with ErrNotTrained.
package predict

import (
	"errors"
	"fmt"
)

var (
	// ErrNotTrained is returned by inference calls before Train or
	// LoadBundle has succeeded.
	ErrNotTrained = errors.New("predict: model not trained")

	// ErrRosterSize is returned by PredictDraft when either side does not
	// name exactly five champions.
	ErrRosterSize = errors.New("predict: each roster must have exactly 5 champions")

	// ErrNoData is returned by Train when the corpus yields no usable rows.
	ErrNoData = errors.New("predict: no training rows")

	// ErrRoleVersion is returned by LoadBundle when a draft bundle was
	// trained against a different role table than the one compiled in.
	ErrRoleVersion = errors.New("predict: bundle trained against a different role table")
)

// Bundle names under the model directory.
const (
	MatchBundleName    = "match_outcome.gob"
	DurationBundleName = "duration.gob"
	DraftBundleName    = "draft_outcome.gob"
)

func checkWidth(got, want int) error {
	if got != want {
		return fmt.Errorf("predict: got %d features, model expects %d", got, want)
	}
	return nil
}
