package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Names      NameConfig       `yaml:"names" mapstructure:"names"`
	Dedup      DedupConfig      `yaml:"dedup" mapstructure:"dedup"`
	Transform  TransformConfig  `yaml:"transform" mapstructure:"transform"`
	Discovery  DiscoveryConfig  `yaml:"discovery" mapstructure:"discovery"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
}

// StoreConfig configures the result store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
	// RetryAttempts is the total number of tries for a write that fails
	// with a transient database error. 1 disables retries.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// BatchConfig configures multi-organization processing.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// RateLimit caps input files started per second. 0 disables the limit.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// NameConfig configures personal name parsing and normalization.
type NameConfig struct {
	MinLength     int               `yaml:"min_length" mapstructure:"min_length"`
	StripTitles   bool              `yaml:"strip_titles" mapstructure:"strip_titles"`
	StripSuffixes bool              `yaml:"strip_suffixes" mapstructure:"strip_suffixes"`
	UseNicknames  bool              `yaml:"use_nicknames" mapstructure:"use_nicknames"`
	Nicknames     map[string]string `yaml:"nicknames" mapstructure:"nicknames"`
}

// DedupConfig configures duplicate detection and merging.
type DedupConfig struct {
	FuzzyThreshold   float64  `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	ExactMatchFields []string `yaml:"exact_match_fields" mapstructure:"exact_match_fields"`
	MergeStrategy    string   `yaml:"merge_strategy" mapstructure:"merge_strategy"`
}

// TransformConfig configures the transformation orchestrator.
type TransformConfig struct {
	EnableFuzzyMatching bool    `yaml:"enable_fuzzy_matching" mapstructure:"enable_fuzzy_matching"`
	AutoMerge           bool    `yaml:"auto_merge" mapstructure:"auto_merge"`
	BuildConnections    bool    `yaml:"build_connections" mapstructure:"build_connections"`
	ErrorTolerance      float64 `yaml:"error_tolerance" mapstructure:"error_tolerance"`
	MaxKeywords         int     `yaml:"max_keywords" mapstructure:"max_keywords"`
}

// DiscoveryConfig configures the six-dimension registry discovery scorer.
// Weights sum to 1.
type DiscoveryConfig struct {
	MissionWeight     float64 `yaml:"mission_weight" mapstructure:"mission_weight"`
	GeographyWeight   float64 `yaml:"geography_weight" mapstructure:"geography_weight"`
	FinancialWeight   float64 `yaml:"financial_weight" mapstructure:"financial_weight"`
	CapacityWeight    float64 `yaml:"capacity_weight" mapstructure:"capacity_weight"`
	EligibilityWeight float64 `yaml:"eligibility_weight" mapstructure:"eligibility_weight"`
	TimingWeight      float64 `yaml:"timing_weight" mapstructure:"timing_weight"`

	// Percentiles of the batch score distribution that bound each category.
	TopPercentile      float64 `yaml:"top_percentile" mapstructure:"top_percentile"`
	StrongPercentile   float64 `yaml:"strong_percentile" mapstructure:"strong_percentile"`
	PossiblePercentile float64 `yaml:"possible_percentile" mapstructure:"possible_percentile"`

	AsOfYear int `yaml:"as_of_year" mapstructure:"as_of_year"`
}

// MonitoringConfig configures health checks over stored transformation runs.
type MonitoringConfig struct {
	WebhookURL           string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	// MinDataQuality is the lowest acceptable average data quality score (0-100).
	MinDataQuality      float64 `yaml:"min_data_quality" mapstructure:"min_data_quality"`
	LookbackWindowHours int     `yaml:"lookback_window_hours" mapstructure:"lookback_window_hours"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NPINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "npintel.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("store.retry_attempts", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("batch.max_concurrent", 8)
	v.SetDefault("batch.rate_limit", 0)
	v.SetDefault("names.min_length", 2)
	v.SetDefault("names.strip_titles", true)
	v.SetDefault("names.strip_suffixes", true)
	v.SetDefault("names.use_nicknames", true)
	v.SetDefault("dedup.fuzzy_threshold", 0.85)
	v.SetDefault("dedup.exact_match_fields", []string{"normalized_name"})
	v.SetDefault("dedup.merge_strategy", "highest_quality")
	v.SetDefault("transform.enable_fuzzy_matching", true)
	v.SetDefault("transform.auto_merge", true)
	v.SetDefault("transform.build_connections", true)
	v.SetDefault("transform.error_tolerance", 0.10)
	v.SetDefault("transform.max_keywords", 10)
	v.SetDefault("discovery.mission_weight", 0.25)
	v.SetDefault("discovery.geography_weight", 0.20)
	v.SetDefault("discovery.financial_weight", 0.15)
	v.SetDefault("discovery.capacity_weight", 0.20)
	v.SetDefault("discovery.eligibility_weight", 0.10)
	v.SetDefault("discovery.timing_weight", 0.10)
	v.SetDefault("discovery.top_percentile", 90)
	v.SetDefault("discovery.strong_percentile", 70)
	v.SetDefault("discovery.possible_percentile", 40)
	v.SetDefault("discovery.as_of_year", 2026)
	v.SetDefault("monitoring.failure_rate_threshold", 0.10)
	v.SetDefault("monitoring.min_data_quality", 60)
	v.SetDefault("monitoring.lookback_window_hours", 24)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the settings a command depends on are usable.
// Mode selects which checks run: "store", "transform", "monitoring" or "all".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "store":
		errs = c.validateStore(errs)
	case "transform":
		errs = c.validateTransform(errs)
	case "monitoring":
		errs = c.validateStore(errs)
		errs = c.validateMonitoring(errs)
	case "all":
		errs = c.validateStore(errs)
		errs = c.validateTransform(errs)
		errs = c.validateMonitoring(errs)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateStore(errs []string) []string {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		errs = append(errs, "store.database_url is required")
	}
	if c.Store.RetryAttempts < 0 {
		errs = append(errs, "store.retry_attempts must be >= 0")
	}
	return errs
}

func (c *Config) validateMonitoring(errs []string) []string {
	m := c.Monitoring
	if m.FailureRateThreshold < 0 || m.FailureRateThreshold > 1 {
		errs = append(errs, "monitoring.failure_rate_threshold must be in [0,1]")
	}
	if m.MinDataQuality < 0 || m.MinDataQuality > 100 {
		errs = append(errs, "monitoring.min_data_quality must be in [0,100]")
	}
	if m.LookbackWindowHours < 1 {
		errs = append(errs, "monitoring.lookback_window_hours must be >= 1")
	}
	if m.WebhookURL != "" && !strings.HasPrefix(m.WebhookURL, "http://") && !strings.HasPrefix(m.WebhookURL, "https://") {
		errs = append(errs, "monitoring.webhook_url must be an http(s) URL")
	}
	return errs
}

func (c *Config) validateTransform(errs []string) []string {
	if c.Names.MinLength < 1 {
		errs = append(errs, "names.min_length must be >= 1")
	}
	if c.Dedup.FuzzyThreshold <= 0 || c.Dedup.FuzzyThreshold > 1 {
		errs = append(errs, "dedup.fuzzy_threshold must be in (0, 1]")
	}
	switch c.Dedup.MergeStrategy {
	case "highest_quality", "newest", "manual":
	default:
		errs = append(errs, "dedup.merge_strategy must be highest_quality, newest or manual")
	}
	if c.Transform.ErrorTolerance < 0 || c.Transform.ErrorTolerance > 1 {
		errs = append(errs, "transform.error_tolerance must be between 0 and 1")
	}
	if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 64 {
		errs = append(errs, "batch.max_concurrent must be between 1 and 64")
	}
	if c.Batch.RateLimit < 0 {
		errs = append(errs, "batch.rate_limit must be >= 0")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
