package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

// Result cache backends.
const (
	CacheBadger = "badger"
	CacheRedis  = "redis"
)

// Config holds application configuration.
type Config struct {
	SpannerDB string
	GRPCPort  string
	HTTPPort  string

	SearchAPIURL     string
	SearchAPITimeout time.Duration
	DemoFallback     bool

	ResultCache   string
	BadgerDir     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTL     time.Duration
	Policy         domain.FilterPolicy
	HealthInterval time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads configuration from environment variables with defaults.
func Load() (Config, error) {
	stars, err := domain.ParseStarSet(getEnv("RESULTS_DEFAULT_STARS", "3,4,5"))
	if err != nil {
		return Config{}, fmt.Errorf("RESULTS_DEFAULT_STARS: %w", err)
	}

	cfg := Config{
		// Default for local development with emulator
		SpannerDB: getEnv("SPANNER_DATABASE", "projects/test-project/instances/dev-instance/databases/staysearch-db"),
		GRPCPort:  getEnv("GRPC_PORT", "9090"),
		HTTPPort:  getEnv("HTTP_PORT", "8080"),

		SearchAPIURL:     getEnv("SEARCH_API_URL", "http://localhost:5000"),
		SearchAPITimeout: getEnvDuration("SEARCH_API_TIMEOUT", 30*time.Second),
		DemoFallback:     getEnvBool("SEARCH_DEMO_FALLBACK", false),

		ResultCache:   strings.ToLower(getEnv("RESULT_CACHE", CacheBadger)),
		BadgerDir:     getEnv("BADGER_DIR", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),
		Policy: domain.FilterPolicy{
			PageSize:     getEnvInt("RESULTS_PAGE_SIZE", 12),
			DefaultStars: stars,
			PriceStep:    int64(getEnvInt("RESULTS_PRICE_STEP", 1000)),
		},
		HealthInterval: getEnvDuration("HEALTH_INTERVAL", 15*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   getEnv("LOG_FILE", ""),
	}

	if cfg.ResultCache != CacheBadger && cfg.ResultCache != CacheRedis {
		return Config{}, fmt.Errorf("RESULT_CACHE must be %q or %q, got %q", CacheBadger, CacheRedis, cfg.ResultCache)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.HealthInterval <= 0 {
		return Config{}, fmt.Errorf("HEALTH_INTERVAL must be positive")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
