package corpus

import (
	"context"
	"math/rand"

	"github.com/riftstats/predict-api/internal/models"
)

// MemoryReader serves matches from a slice. Used by the synthetic-corpus
// tests and by the trainer's dry-run mode; sampling is deterministic for a
// fixed seed.
type MemoryReader struct {
	records []models.MatchRecord
	raw     [][]byte // optional undecoded documents, counted as skipped
	seed    int64
}

// NewMemoryReader builds a reader over already-decoded records.
func NewMemoryReader(records []models.MatchRecord, seed int64) *MemoryReader {
	return &MemoryReader{records: records, seed: seed}
}

// AddRaw appends an undecoded document; malformed payloads surface as skips,
// matching the store-backed readers.
func (r *MemoryReader) AddRaw(raw []byte) {
	r.raw = append(r.raw, raw)
}

// Len returns the number of decodable records.
func (r *MemoryReader) Len() int { return len(r.records) }

func (r *MemoryReader) ForEachMatch(ctx context.Context, opts ScanOptions, fn func(*models.MatchRecord) error) (int, error) {
	skipped := 0
	visit := func(rec *models.MatchRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(rec)
	}

	// Undecoded payloads first, mirroring how a store reader interleaves them.
	for _, raw := range r.raw {
		rec, err := DecodeMatch(raw)
		if err != nil {
			skipped++
			continue
		}
		if err := visit(rec); err != nil {
			return skipped, err
		}
		if opts.Limit > 0 && !opts.Sample {
			opts.Limit--
			if opts.Limit == 0 {
				return skipped, nil
			}
		}
	}

	if opts.Limit > 0 && opts.Sample && opts.Limit < len(r.records) {
		rng := rand.New(rand.NewSource(r.seed))
		for _, idx := range rng.Perm(len(r.records))[:opts.Limit] {
			if err := visit(&r.records[idx]); err != nil {
				return skipped, err
			}
		}
		return skipped, nil
	}

	n := len(r.records)
	if opts.Limit > 0 && opts.Limit < n {
		n = opts.Limit
	}
	for i := 0; i < n; i++ {
		if err := visit(&r.records[i]); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}
