package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.Ingestion.MinSuggestionConfidence)
	assert.Equal(t, 5, cfg.Ingestion.MaxSuggestions)
	assert.Equal(t, 0.75, cfg.Ingestion.DuplicateThreshold)
	assert.Equal(t, 30, cfg.Ingestion.DuplicateDateWindowDays)
	assert.NotEmpty(t, cfg.Ingestion.CacheRefreshSchedule)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INGEST_MIN_SUGGESTION_CONFIDENCE", "0.5")
	t.Setenv("INGEST_MAX_SUGGESTIONS", "3")
	t.Setenv("POSTGRES_DB", "statements")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Ingestion.MinSuggestionConfidence)
	assert.Equal(t, 3, cfg.Ingestion.MaxSuggestions)
	assert.Contains(t, cfg.Database.DSN(), "dbname=statements")
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	t.Setenv("INGEST_DUPLICATE_THRESHOLD", "1.5")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveMaxSuggestions(t *testing.T) {
	t.Setenv("INGEST_MAX_SUGGESTIONS", "0")
	_, err := Load()
	assert.Error(t, err)
}
