package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/config"
	"github.com/riftstats/predict-api/internal/corpus"
	"github.com/riftstats/predict-api/internal/features"
	"github.com/riftstats/predict-api/internal/predict"
	"github.com/riftstats/predict-api/internal/report"
	"github.com/riftstats/predict-api/internal/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if err := run(context.Background(), sugar); err != nil {
		sugar.Fatalw("Training run failed", "error", err)
	}
}

func run(ctx context.Context, logger *zap.SugaredLogger) error {
	startedAt := time.Now().UTC()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		return fmt.Errorf("parse CLICKHOUSE_URL: %w", err)
	}
	conn, err := clickhouse.Open(chOpts)
	if err != nil {
		return fmt.Errorf("connect clickhouse: %w", err)
	}
	defer conn.Close()
	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping clickhouse: %w", err)
	}

	store, err := storage.NewFSStore(cfg.ModelDir)
	if err != nil {
		return err
	}

	var registry *report.Registry
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		registry = report.NewRegistry(pool, logger)
		if err := registry.EnsureSchema(ctx); err != nil {
			return err
		}
	} else {
		registry = report.NewRegistry(nil, logger)
	}

	extractor := features.NewExtractor(corpus.NewClickHouseReader(conn, logger), logger)
	opts := features.ExtractOptions{Limit: cfg.MatchLimit, Sample: cfg.SampleSize > 0}

	logger.Infow("Extracting training data",
		"limit", cfg.MatchLimit, "sample", cfg.SampleSize, "seed", cfg.Seed)

	matchRows, err := extractor.MatchRows(ctx, opts)
	if err != nil {
		return fmt.Errorf("extract match rows: %w", err)
	}
	durationRows, err := extractor.DurationRows(ctx, opts)
	if err != nil {
		return fmt.Errorf("extract duration rows: %w", err)
	}
	drafts, err := extractor.Drafts(ctx, opts)
	if err != nil {
		return fmt.Errorf("extract drafts: %w", err)
	}
	profiles, err := extractor.ChampionProfiles(ctx, features.MinProfileGames)
	if err != nil {
		return fmt.Errorf("extract champion profiles: %w", err)
	}

	matchModel := predict.NewMatchPredictor(logger, cfg.Seed)
	matchMetrics, err := matchModel.Train(ctx, matchRows)
	if err != nil {
		return fmt.Errorf("train match model: %w", err)
	}
	if err := matchModel.SaveBundle(store); err != nil {
		return err
	}

	durationModel := predict.NewDurationPredictor(logger, cfg.Seed)
	durationMetrics, err := durationModel.Train(ctx, durationRows)
	if err != nil {
		return fmt.Errorf("train duration model: %w", err)
	}
	if err := durationModel.SaveBundle(store); err != nil {
		return err
	}

	draftModel := predict.NewDraftPredictor(logger, cfg.Seed, cfg.SearchIters)
	draftMetrics, err := draftModel.Train(ctx, drafts, profiles)
	if err != nil {
		return fmt.Errorf("train draft model: %w", err)
	}
	if err := draftModel.SaveBundle(store); err != nil {
		return err
	}

	summary := &report.Summary{
		GeneratedAt:     time.Now().UTC(),
		MatchesUsed:     len(matchRows),
		DraftsUsed:      len(drafts),
		ProfiledChamps:  len(profiles),
		SynergyPairs:    draftModel.Analyzer().Synergy().Len(),
		MatchPrediction: matchMetrics,
		Duration:        durationMetrics,
		DraftPrediction: draftMetrics,
	}
	if err := report.WriteSummaryJSON(cfg.ReportDir, summary); err != nil {
		return err
	}
	if err := report.WriteMarkdownReport(cfg.ReportDir, summary); err != nil {
		return err
	}
	runID, err := registry.Record(ctx, startedAt, summary)
	if err != nil {
		// Registry failures do not invalidate the artifacts on disk.
		logger.Warnw("Failed to record training run", "error", err)
	}

	logger.Infow("Training run complete",
		"run_id", runID,
		"matches", len(matchRows),
		"drafts", len(drafts),
		"match_test_accuracy", matchMetrics.TestAccuracy,
		"duration_test_rmse", durationMetrics.TestRMSE,
		"draft_test_accuracy", draftMetrics.TestAccuracy,
		"elapsed", time.Since(startedAt).Round(time.Second))
	return nil
}
