// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrScoringBaseURLMissing is returned when no scoring endpoint is configured.
var ErrScoringBaseURLMissing = errors.New("scoring.base_url is required (set SCORING_BASE_URL)")

// envKeys are bound explicitly so environment-only deployments work without a
// YAML file. The variable name is the key upper-cased with dots as underscores.
var envKeys = []string{
	"app.name",
	"app.version",
	"app.environment",
	"app.registry_path",
	"scoring.base_url",
	"scoring.timeout",
	"camunda.broker_address",
	"camunda.max_jobs_active",
	"web.address",
	"web.cookie_secure",
	"database.redis.address",
	"database.redis.password",
	"database.redis.db",
	"preferences.key_prefix",
	"preferences.ttl",
	"observability.service_name",
	"observability.jaeger_endpoint",
	"logging.level",
	"logging.format",
	"logging.output",
}

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml over
// it and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working
// directory, so tests under test/e2e pick up the project file.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in YAML string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			// unset placeholders become empty so validation can catch them
			v.Set(key, os.ExpandEnv(strVal))
		}
	}
}

// overrideEmptyConfig accepts the variable names older deployments used.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Scoring.BaseURL == "" {
		for _, name := range []string{"API_URL", "VITE_API_URL"} {
			if val := os.Getenv(name); val != "" {
				cfg.Scoring.BaseURL = val
				break
			}
		}
	}
	if cfg.Camunda.BrokerAddress == "" {
		if val := os.Getenv("ZEEBE_ADDRESS"); val != "" {
			cfg.Camunda.BrokerAddress = val
		}
	}
	if cfg.Database.Redis.Address == "" {
		if val := os.Getenv("REDIS_URL"); val != "" {
			cfg.Database.Redis.Address = strings.TrimPrefix(val, "redis://")
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "credit-risk-workers"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	cfg.Scoring.BaseURL = strings.TrimSpace(cfg.Scoring.BaseURL)
	if cfg.Scoring.Timeout == 0 {
		cfg.Scoring.Timeout = 30000
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Web.Address == "" {
		cfg.Web.Address = ":8080"
	}
	if cfg.Web.ReadTimeout == 0 {
		cfg.Web.ReadTimeout = 15000
	}
	if cfg.Web.WriteTimeout == 0 {
		// must outlive a full scoring call
		cfg.Web.WriteTimeout = cfg.Scoring.Timeout + 5000
	}

	if cfg.Preferences.KeyPrefix == "" {
		cfg.Preferences.KeyPrefix = "credit-risk:prefs:"
	}
	if cfg.Preferences.TTL == 0 {
		cfg.Preferences.TTL = 365 * 24 * 60 * 60
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.Scoring.BaseURL == "" {
		return ErrScoringBaseURLMissing
	}
	if !strings.HasPrefix(cfg.Scoring.BaseURL, "http://") && !strings.HasPrefix(cfg.Scoring.BaseURL, "https://") {
		return fmt.Errorf("scoring.base_url must be an http(s) URL, got %q", cfg.Scoring.BaseURL)
	}
	if cfg.Scoring.Timeout < 0 {
		return fmt.Errorf("scoring.timeout must not be negative")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    0,
	}
}

// WorkersEnabled reports whether a Zeebe gateway is configured.
func (c *Config) WorkersEnabled() bool {
	return c.Camunda.BrokerAddress != ""
}
