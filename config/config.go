package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv              string
	Port                string
	LogLevel            slog.Level
	ModelManifest       string
	ArtifactHTTPTimeout time.Duration
	AWSRegion           string
	AWSEndpoint         string
	ValkeyAddress       string
	ValkeyPassword      string
	ValkeyTLS           bool
	RateLimitPerSecond  float64
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "dev"),
		Port:           getEnv("PORT", "8050"),
		ModelManifest:  getEnv("MODEL_MANIFEST", "config/models.yaml"),
		AWSRegion:      getEnv("AWS_REGION", "us-west-2"),
		AWSEndpoint:    getEnv("AWS_ENDPOINT", ""),
		ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword: getEnv("VALKEY_PASSWORD", ""),
		ValkeyTLS:      getEnv("VALKEY_TLS", "false") == "true",
	}

	level, err := ParseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	timeout, err := time.ParseDuration(getEnv("ARTIFACT_HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("ARTIFACT_HTTP_TIMEOUT must be a duration: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("ARTIFACT_HTTP_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.ArtifactHTTPTimeout = timeout

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_PER_SECOND", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_PER_SECOND must be a number: %w", err)
	}
	if rps < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_SECOND must not be negative, got %v", rps)
	}
	cfg.RateLimitPerSecond = rps

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("PORT must be numeric: %w", err)
	}

	return cfg, nil
}

// ParseLogLevel accepts debug, info, warn or error.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", level)
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
