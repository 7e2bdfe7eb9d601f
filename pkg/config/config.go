package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Application settings
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Upstream UpstreamConfig
	Ingest   IngestConfig
}

// Server settings
type ServerConfig struct {
	Port string
}

// UpstreamConfig points at the campaign platform API that backs the engine.
type UpstreamConfig struct {
	BaseURL            string
	RequestTimeout     time.Duration
	AnalysisTimeout    time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
}

// IngestConfig bounds bulk file uploads.
type IngestConfig struct {
	MaxRows       int
	MaxUploadSize int64
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Optional .env for local development, same as the upstream stack.
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Upstream: UpstreamConfig{
			BaseURL:            getEnv("UPSTREAM_API_URL", ""),
			RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", "30s"),
			AnalysisTimeout:    getDurationEnv("ANALYSIS_TIMEOUT", "120s"),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 100),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 10),
		},
		Ingest: IngestConfig{
			MaxRows:       getIntEnv("INGEST_MAX_ROWS", 1000),
			MaxUploadSize: int64(getIntEnv("INGEST_MAX_UPLOAD_BYTES", 5<<20)),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if config.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("UPSTREAM_API_URL is required")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
