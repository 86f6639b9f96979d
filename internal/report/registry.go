package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Registry records one row per training run in Postgres so operators can
// compare runs over time. It is optional; a nil pool disables it.
type Registry struct {
	pg     PgPool
	logger *zap.SugaredLogger
}

func NewRegistry(pg PgPool, logger *zap.SugaredLogger) *Registry {
	return &Registry{pg: pg, logger: logger}
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS training_runs (
	id UUID PRIMARY KEY,
	started_at TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	matches_used INT NOT NULL,
	drafts_used INT NOT NULL,
	match_test_accuracy DOUBLE PRECISION,
	duration_test_rmse DOUBLE PRECISION,
	draft_test_accuracy DOUBLE PRECISION
)`

// EnsureSchema creates the registry table if it does not exist.
func (r *Registry) EnsureSchema(ctx context.Context) error {
	if r.pg == nil {
		return nil
	}
	if _, err := r.pg.Exec(ctx, createRunsTable); err != nil {
		return fmt.Errorf("report: ensure training_runs: %w", err)
	}
	return nil
}

// Record inserts one run. A nil pool is a no-op so the trainer works
// without Postgres configured.
func (r *Registry) Record(ctx context.Context, startedAt time.Time, s *Summary) (string, error) {
	if r.pg == nil {
		return "", nil
	}
	id := uuid.New().String()

	var matchAcc, durationRMSE, draftAcc *float64
	if s.MatchPrediction != nil {
		matchAcc = &s.MatchPrediction.TestAccuracy
	}
	if s.Duration != nil {
		durationRMSE = &s.Duration.TestRMSE
	}
	if s.DraftPrediction != nil {
		draftAcc = &s.DraftPrediction.TestAccuracy
	}

	_, err := r.pg.Exec(ctx,
		`INSERT INTO training_runs
		 (id, started_at, finished_at, matches_used, drafts_used,
		  match_test_accuracy, duration_test_rmse, draft_test_accuracy)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, startedAt, s.GeneratedAt, s.MatchesUsed, s.DraftsUsed,
		matchAcc, durationRMSE, draftAcc)
	if err != nil {
		return "", fmt.Errorf("report: record training run: %w", err)
	}

	r.logger.Infow("training run recorded", "run_id", id)
	return id, nil
}
