package config

import (
	"fmt"
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration
type Config struct {
	Database      DatabaseConfig
	Ingestion     IngestionConfig
	Observability ObservabilityConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// IngestionConfig tunes the statement ingestion pipeline.
type IngestionConfig struct {
	MinSuggestionConfidence float64
	MaxSuggestions          int
	DuplicateThreshold      float64
	DuplicateDateWindowDays int
	CacheRefreshSchedule    string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
	LogLevel       string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "statement-ingest-dev"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Ingestion: IngestionConfig{
			MinSuggestionConfidence: getEnvAsFloat("INGEST_MIN_SUGGESTION_CONFIDENCE", 0.3),
			MaxSuggestions:          getEnvAsInt("INGEST_MAX_SUGGESTIONS", 5),
			DuplicateThreshold:      getEnvAsFloat("INGEST_DUPLICATE_THRESHOLD", 0.75),
			DuplicateDateWindowDays: getEnvAsInt("INGEST_DUPLICATE_DATE_WINDOW_DAYS", 30),
			CacheRefreshSchedule:    getEnv("INGEST_CACHE_REFRESH_SCHEDULE", "0 3 * * *"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Ingestion.MinSuggestionConfidence < 0 || cfg.Ingestion.MinSuggestionConfidence > 1 {
		return nil, fmt.Errorf("INGEST_MIN_SUGGESTION_CONFIDENCE must be in [0, 1], got %g", cfg.Ingestion.MinSuggestionConfidence)
	}
	if cfg.Ingestion.DuplicateThreshold < 0 || cfg.Ingestion.DuplicateThreshold > 1 {
		return nil, fmt.Errorf("INGEST_DUPLICATE_THRESHOLD must be in [0, 1], got %g", cfg.Ingestion.DuplicateThreshold)
	}
	if cfg.Ingestion.MaxSuggestions <= 0 {
		return nil, fmt.Errorf("INGEST_MAX_SUGGESTIONS must be positive, got %d", cfg.Ingestion.MaxSuggestions)
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
