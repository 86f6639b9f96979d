package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Backing stores
	ClickHouseURL string
	RedisURL      string
	PostgresURL   string

	// Model bundles and reports
	ModelDir  string
	ReportDir string

	// Training
	Seed        int64
	SampleSize  int
	MatchLimit  int
	SearchIters int
	CacheTTL    time.Duration
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		RedisURL:    getEnv("REDIS_URL", ""),
		PostgresURL: getEnv("POSTGRES_URL", ""),

		ReportDir: getEnv("REPORT_DIR", "reports"),

		Seed:        int64(getEnvInt("SEED", 42)),
		SampleSize:  getEnvInt("SAMPLE_SIZE", 0),
		MatchLimit:  getEnvInt("MATCH_LIMIT", 0),
		SearchIters: getEnvInt("SEARCH_ITERATIONS", 20),
		CacheTTL:    getEnvDuration("CACHE_TTL", 5*time.Minute),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Critical configuration - fail if missing
	var err error
	if cfg.ClickHouseURL, err = getEnvRequired("CLICKHOUSE_URL"); err != nil {
		return nil, err
	}
	if cfg.ModelDir, err = getEnvRequired("MODEL_DIR"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
