package corpus

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/models"
)

// clickhouseReader reads matches from the rift_stats.matches table. Each row
// carries the full match document in the raw_json column, the same layout the
// ingest side writes.
type clickhouseReader struct {
	ch     driver.Conn
	logger *zap.SugaredLogger
}

// NewClickHouseReader returns a Reader backed by ClickHouse.
func NewClickHouseReader(ch driver.Conn, logger *zap.SugaredLogger) Reader {
	return &clickhouseReader{ch: ch, logger: logger}
}

func (r *clickhouseReader) ForEachMatch(ctx context.Context, opts ScanOptions, fn func(*models.MatchRecord) error) (int, error) {
	query := "SELECT match_id, raw_json FROM rift_stats.matches"
	var args []any
	switch {
	case opts.Limit > 0 && opts.Sample:
		// ORDER BY rand() gives a uniform sample; a plain LIMIT would bias
		// toward insertion order.
		query += " ORDER BY rand() LIMIT ?"
		args = append(args, opts.Limit)
	case opts.Limit > 0:
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.ch.Query(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer rows.Close()

	skipped := 0
	for rows.Next() {
		var matchID, raw string
		if err := rows.Scan(&matchID, &raw); err != nil {
			r.logger.Warnw("Failed to scan match row", "error", err)
			skipped++
			continue
		}
		rec, err := DecodeMatch([]byte(raw))
		if err != nil {
			r.logger.Warnw("Skipping undecodable match", "match_id", matchID, "error", err)
			skipped++
			continue
		}
		if err := fn(rec); err != nil {
			return skipped, err
		}
	}
	if err := rows.Err(); err != nil {
		return skipped, fmt.Errorf("corpus: scan matches: %w", err)
	}
	return skipped, nil
}
