package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearScoringEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"SCORING_BASE_URL", "SCORING_TIMEOUT", "API_URL", "VITE_API_URL", "CAMUNDA_BROKER_ADDRESS", "ZEEBE_ADDRESS"} {
		t.Setenv(name, "")
	}
}

func TestLoadFromFile_FailsFastWithoutBaseURL(t *testing.T) {
	clearScoringEnv(t)
	path := writeConfig(t, `
app:
  name: credit-risk-workers
scoring:
  timeout: 1000
`)

	cfg, err := LoadFromFile(path)
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScoringBaseURLMissing)
}

func TestLoadFromFile_Defaults(t *testing.T) {
	clearScoringEnv(t)
	path := writeConfig(t, `
scoring:
  base_url: http://localhost:8000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Scoring.BaseURL)
	assert.Equal(t, 30000, cfg.Scoring.Timeout)
	assert.Equal(t, ":8080", cfg.Web.Address)
	assert.Equal(t, 35000, cfg.Web.WriteTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "credit-risk-workers", cfg.Observability.ServiceName)
	assert.False(t, cfg.WorkersEnabled())
}

func TestLoadFromFile_EnvironmentOverrides(t *testing.T) {
	clearScoringEnv(t)
	t.Setenv("SCORING_BASE_URL", "https://scoring.internal")
	t.Setenv("CAMUNDA_BROKER_ADDRESS", "zeebe:26500")
	path := writeConfig(t, `
scoring:
  base_url: http://localhost:8000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://scoring.internal", cfg.Scoring.BaseURL)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.True(t, cfg.WorkersEnabled())
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	clearScoringEnv(t)
	t.Setenv("SCORING_HOST", "scoring.example.com")
	path := writeConfig(t, `
scoring:
  base_url: https://${SCORING_HOST}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://scoring.example.com", cfg.Scoring.BaseURL)
}

func TestLoadFromFile_UnsetPlaceholderIsMissing(t *testing.T) {
	clearScoringEnv(t)
	t.Setenv("SCORING_HOST_UNSET", "")
	path := writeConfig(t, `
scoring:
  base_url: ${SCORING_HOST_UNSET}
`)

	_, err := LoadFromFile(path)
	assert.ErrorIs(t, err, ErrScoringBaseURLMissing)
}

func TestLoadFromFile_LegacyVariable(t *testing.T) {
	clearScoringEnv(t)
	t.Setenv("VITE_API_URL", "http://legacy:8000")
	path := writeConfig(t, "app:\n  name: x\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://legacy:8000", cfg.Scoring.BaseURL)
}

func TestValidateConfig_RejectsNonHTTP(t *testing.T) {
	cfg := &Config{Scoring: ScoringConfig{BaseURL: "localhost:8000"}}
	assert.Error(t, validateConfig(cfg))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestWorkerConfigFallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"render-risk-band": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.False(t, GetWorkerConfig(cfg, "render-risk-band").Enabled)
	assert.True(t, GetWorkerConfig(cfg, "predict-credit-risk").Enabled)
	assert.Equal(t, 5, GetWorkerConfig(cfg, "predict-credit-risk").MaxJobsActive)
	assert.Equal(t, 2, GetWorkerConfig(cfg, "render-risk-band").MaxJobsActive)
}
