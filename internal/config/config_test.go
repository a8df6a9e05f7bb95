package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "npintel.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 3, cfg.Store.RetryAttempts)
	assert.Equal(t, 0.10, cfg.Monitoring.FailureRateThreshold)
	assert.Equal(t, 24, cfg.Monitoring.LookbackWindowHours)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8, cfg.Batch.MaxConcurrent)
	assert.Equal(t, 2, cfg.Names.MinLength)
	assert.True(t, cfg.Names.StripTitles)
	assert.True(t, cfg.Names.StripSuffixes)
	assert.True(t, cfg.Names.UseNicknames)
	assert.InDelta(t, 0.85, cfg.Dedup.FuzzyThreshold, 0.001)
	assert.Equal(t, []string{"normalized_name"}, cfg.Dedup.ExactMatchFields)
	assert.Equal(t, "highest_quality", cfg.Dedup.MergeStrategy)
	assert.True(t, cfg.Transform.EnableFuzzyMatching)
	assert.True(t, cfg.Transform.AutoMerge)
	assert.InDelta(t, 0.10, cfg.Transform.ErrorTolerance, 0.001)
	assert.Equal(t, 10, cfg.Transform.MaxKeywords)
	assert.InDelta(t, 0.25, cfg.Discovery.MissionWeight, 0.001)
	assert.InDelta(t, 90, cfg.Discovery.TopPercentile, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/npintel
log:
  level: debug
  format: console
dedup:
  fuzzy_threshold: 0.9
  merge_strategy: manual
names:
  nicknames:
    bill: william
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/npintel", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.InDelta(t, 0.9, cfg.Dedup.FuzzyThreshold, 0.001)
	assert.Equal(t, "manual", cfg.Dedup.MergeStrategy)
	assert.Equal(t, "william", cfg.Names.Nicknames["bill"])
	// Defaults still apply for unset values
	assert.Equal(t, 8, cfg.Batch.MaxConcurrent)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("NPINTEL_STORE_DRIVER", "postgres")
	t.Setenv("NPINTEL_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "npintel.db"
	cfg.Batch.MaxConcurrent = 8
	cfg.Names.MinLength = 2
	cfg.Dedup.FuzzyThreshold = 0.85
	cfg.Dedup.MergeStrategy = "highest_quality"
	cfg.Transform.ErrorTolerance = 0.10
	cfg.Monitoring.FailureRateThreshold = 0.10
	cfg.Monitoring.MinDataQuality = 60
	cfg.Monitoring.LookbackWindowHours = 24
	return cfg
}

func TestValidateAll_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("all"))
}

func TestValidateStore_BadDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mysql"
	cfg.Store.DatabaseURL = ""
	cfg.Store.RetryAttempts = -1

	err := cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
	assert.Contains(t, err.Error(), "store.database_url is required")
	assert.Contains(t, err.Error(), "store.retry_attempts must be >= 0")
}

func TestValidateTransform_Thresholds(t *testing.T) {
	cfg := validDefaults()

	cfg.Dedup.FuzzyThreshold = 0
	err := cfg.Validate("transform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuzzy_threshold")

	cfg.Dedup.FuzzyThreshold = 0.85
	cfg.Dedup.MergeStrategy = "oldest"
	err = cfg.Validate("transform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "merge_strategy")

	cfg.Dedup.MergeStrategy = "newest"
	cfg.Transform.ErrorTolerance = 1.5
	err = cfg.Validate("transform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error_tolerance")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.MaxConcurrent = 0
	err := cfg.Validate("transform")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrent must be between 1 and 64")

	cfg.Batch.MaxConcurrent = 65
	assert.Error(t, cfg.Validate("transform"))

	cfg.Batch.MaxConcurrent = 64
	assert.NoError(t, cfg.Validate("transform"))

	cfg.Batch.RateLimit = -1
	err = cfg.Validate("transform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.rate_limit must be >= 0")
}

func TestValidateStoreSkipsTransformChecks(t *testing.T) {
	cfg := validDefaults()
	cfg.Names.MinLength = 0

	assert.NoError(t, cfg.Validate("store"))
	assert.Error(t, cfg.Validate("transform"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateMonitoring(t *testing.T) {
	cfg := validDefaults()
	require.NoError(t, cfg.Validate("monitoring"))

	cfg.Monitoring.FailureRateThreshold = 1.5
	cfg.Monitoring.MinDataQuality = -1
	cfg.Monitoring.LookbackWindowHours = 0
	cfg.Monitoring.WebhookURL = "ftp://hooks.example.org"

	err := cfg.Validate("monitoring")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failure_rate_threshold")
	assert.Contains(t, err.Error(), "min_data_quality")
	assert.Contains(t, err.Error(), "lookback_window_hours")
	assert.Contains(t, err.Error(), "webhook_url")
}
