// Package corpus provides read access to the historical match store. The
// training pipeline only ever consumes matches through the Reader interface,
// so estimators can be exercised against an in-memory corpus in tests.
package corpus

import (
	"context"
	"errors"

	"github.com/riftstats/predict-api/internal/models"
)

// ErrUnreachable is returned when the backing store cannot be queried at all.
// Retry policy belongs to the caller, not this layer.
var ErrUnreachable = errors.New("corpus: store unreachable")

// ScanOptions bounds a corpus scan.
type ScanOptions struct {
	// Limit caps the number of matches visited. Zero means full scan.
	Limit int
	// Sample requests a uniform random sample of Limit matches instead of a
	// prefix scan. Ignored when Limit is zero.
	Sample bool
}

// Reader streams match records out of the corpus.
type Reader interface {
	// ForEachMatch invokes fn once per decodable match. Records that fail to
	// decode are counted in skipped and do not abort the scan; an error from
	// fn or from the store itself does.
	ForEachMatch(ctx context.Context, opts ScanOptions, fn func(*models.MatchRecord) error) (skipped int, err error)
}
