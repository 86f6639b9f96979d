package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/riftstats/predict-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

var (
	predictionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rift_prediction_requests_total",
		Help: "Prediction requests served, by model.",
	}, []string{"model"})
	predictionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rift_prediction_errors_total",
		Help: "Prediction requests that failed, by model.",
	}, []string{"model"})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rift_prediction_cache_hits_total",
		Help: "Draft predictions served from cache.",
	})
)

// MatchModel is the serving surface of the match outcome classifier.
type MatchModel interface {
	Trained() bool
	Predict(features []float64) (int, error)
	PredictProba(features []float64) (float64, error)
	Metrics() *models.ClassifierMetrics
}

// DurationModel is the serving surface of the duration regressor.
type DurationModel interface {
	Trained() bool
	Predict(features []float64) (float64, error)
	Metrics() *models.RegressionMetrics
}

// DraftModel is the serving surface of the draft outcome classifier.
type DraftModel interface {
	Trained() bool
	PredictDraft(blue, red []string) (*models.DraftPrediction, error)
	Metrics() *models.ClassifierMetrics
}

// Cache defines the interface for the Redis response cache
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type Config struct {
	Match    MatchModel
	Duration DurationModel
	Draft    DraftModel
	Redis    Cache
	CacheTTL time.Duration
	Logger   *zap.Logger
}

type Handler struct {
	match     MatchModel
	duration  DurationModel
	draft     DraftModel
	redis     Cache
	cacheTTL  time.Duration
	logger    *zap.SugaredLogger
	validator *validator.Validate
}

func New(cfg Config) *Handler {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Handler{
		match:     cfg.Match,
		duration:  cfg.Duration,
		draft:     cfg.Draft,
		redis:     cfg.Redis,
		cacheTTL:  ttl,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
	}
}
