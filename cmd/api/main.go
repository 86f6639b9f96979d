package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/config"
	"github.com/riftstats/predict-api/internal/handlers"
	"github.com/riftstats/predict-api/internal/predict"
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

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("Failed to load config", "error", err)
	}

	store, err := storage.NewFSStore(cfg.ModelDir)
	if err != nil {
		sugar.Fatalw("Failed to open model store", "error", err)
	}

	matchModel := predict.NewMatchPredictor(sugar, cfg.Seed)
	durationModel := predict.NewDurationPredictor(sugar, cfg.Seed)
	draftModel := predict.NewDraftPredictor(sugar, cfg.Seed, cfg.SearchIters)

	// Missing bundles are tolerated at startup; the affected endpoints
	// answer 503 until a training run produces them.
	if err := matchModel.LoadBundle(store); err != nil {
		sugar.Warnw("Match model unavailable", "error", err)
	}
	if err := durationModel.LoadBundle(store); err != nil {
		sugar.Warnw("Duration model unavailable", "error", err)
	}
	if err := draftModel.LoadBundle(store); err != nil {
		sugar.Warnw("Draft model unavailable", "error", err)
	}

	var cache handlers.Cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalw("Invalid REDIS_URL", "error", err)
		}
		cache = redis.NewClient(opts)
	}

	h := handlers.New(handlers.Config{
		Match:    matchModel,
		Duration: durationModel,
		Draft:    draftModel,
		Redis:    cache,
		CacheTTL: cfg.CacheTTL,
		Logger:   logger,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/models/info", h.ModelsInfo)
		r.Post("/predict/match", h.PredictMatch)
		r.Post("/predict/duration", h.PredictDuration)
		r.Post("/predict/draft", h.PredictDraft)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		sugar.Infow("API listening", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	sugar.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorw("Shutdown failed", "error", err)
	}
}
