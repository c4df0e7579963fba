// Package config loads and validates engine configuration using Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/longevity-genome-engine/internal/domain"
)

// Manager loads, validates, and exposes the engine configuration.
type Manager struct {
	config *domain.Config
}

// NewManager creates a configuration manager and loads configuration from
// defaults, an optional config file, and environment variables.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/longevity-genome-engine/")

	viper.SetEnvPrefix("LONGEVITY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Config file is optional; defaults and env vars are enough to run
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.database", "longevity_reference")
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_conns", 25)
	viper.SetDefault("database.min_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("database.conn_max_idle_time", "30m")
	viper.SetDefault("database.migrations_path", "./migrations")

	// Cache defaults
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.redis_url", "redis://localhost:6379")
	viper.SetDefault("cache.default_ttl", "24h")
	viper.SetDefault("cache.max_retries", 3)
	viper.SetDefault("cache.pool_size", 10)
	viper.SetDefault("cache.lru_size", 2048)

	// Reference store defaults
	viper.SetDefault("reference.backend", "postgres")
	viper.SetDefault("reference.sqlite_path", "./.data/reference.db")
	viper.SetDefault("reference.batch_size", domain.DefaultBatchSize)
	viper.SetDefault("reference.batch_concurrency", domain.DefaultBatchConcurrency)
	viper.SetDefault("reference.query_timeout", domain.DefaultQueryTimeout)
	viper.SetDefault("reference.rate_limit", domain.DefaultQueryRateLimit)
	viper.SetDefault("reference.breaker_enabled", true)

	// Curated data defaults. Empty paths select the embedded datasets.
	viper.SetDefault("curated.variant_list_path", "")
	viper.SetDefault("curated.categories_path", "")
	viper.SetDefault("curated.overrides_path", "")

	// Scoring defaults
	viper.SetDefault("scoring.stat_weight", domain.DefaultStatWeight)
	viper.SetDefault("scoring.clinical_weight", domain.DefaultClinicalWeight)
	viper.SetDefault("scoring.effect_weight", domain.DefaultEffectWeight)
	viper.SetDefault("scoring.stat_cap", domain.DefaultStatCap)
	viper.SetDefault("scoring.stat_floor", domain.DefaultStatFloor)
	viper.SetDefault("scoring.common_frequency", domain.DefaultCommonFrequency)
	viper.SetDefault("scoring.common_discount", domain.DefaultCommonDiscount)

	// Classifier defaults
	viper.SetDefault("classifier.strong_evidence_log_p", domain.DefaultStrongEvidenceLogP)
	viper.SetDefault("classifier.moderate_evidence_log_p", domain.DefaultModerateEvidenceLogP)
	viper.SetDefault("classifier.strong_pathogenicity", domain.DefaultStrongPathogenicity)
	viper.SetDefault("classifier.moderate_pathogenicity", domain.DefaultModeratePathogenicity)
	viper.SetDefault("classifier.high_effect_odds_ratio", domain.DefaultHighEffectOddsRatio)
	viper.SetDefault("classifier.moderate_effect_odds_ratio", domain.DefaultModerateEffectOddsRatio)
	viper.SetDefault("classifier.rare_frequency_max", domain.DefaultRareFrequencyMax)
	viper.SetDefault("classifier.common_frequency_min", domain.DefaultCommonFrequency)

	// Output defaults
	viper.SetDefault("output.preview_size", domain.DefaultPreviewSize)
	viper.SetDefault("output.top_associations", domain.DefaultTopAssociations)
	viper.SetDefault("output.clinical_flags", domain.DefaultClinicalFlags)
	viper.SetDefault("output.clinical_flag_score", domain.DefaultClinicalFlagScore)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetDatabaseConfig returns database configuration
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig {
	return &m.config.Database
}

// GetReferenceConfig returns reference store configuration
func (m *Manager) GetReferenceConfig() *domain.ReferenceConfig {
	return &m.config.Reference
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	switch config.Reference.Backend {
	case "postgres":
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if config.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if config.Database.Username == "" {
			return fmt.Errorf("database username is required")
		}
	case "sqlite":
		if config.Reference.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	default:
		return fmt.Errorf("invalid reference backend: %s", config.Reference.Backend)
	}

	if config.Reference.BatchSize <= 0 {
		return fmt.Errorf("reference batch size must be positive: %d", config.Reference.BatchSize)
	}
	if config.Reference.BatchConcurrency <= 0 {
		return fmt.Errorf("reference batch concurrency must be positive: %d", config.Reference.BatchConcurrency)
	}
	if config.Reference.QueryTimeout <= 0 {
		return fmt.Errorf("reference query timeout must be positive")
	}

	if config.Cache.Enabled && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache is enabled")
	}

	if err := validateScoring(&config.Scoring); err != nil {
		return err
	}
	if err := validateClassifier(&config.Classifier); err != nil {
		return err
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// validateScoring checks that the weight configuration keeps the score
// monotone in every evidence factor.
func validateScoring(s *domain.ScoringConfig) error {
	if s.StatWeight < 0 || s.ClinicalWeight < 0 || s.EffectWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if s.StatCap <= 0 {
		return fmt.Errorf("scoring stat cap must be positive: %f", s.StatCap)
	}
	if s.CommonFrequency <= 0 || s.CommonFrequency > 1 {
		return fmt.Errorf("scoring common frequency must be in (0, 1]: %f", s.CommonFrequency)
	}
	if s.CommonDiscount <= 0 || s.CommonDiscount > 1 {
		return fmt.Errorf("scoring common discount must be in (0, 1]: %f", s.CommonDiscount)
	}
	return nil
}

// validateClassifier checks that the thresholds preserve the ordering the
// decision table assumes.
func validateClassifier(c *domain.ClassifierConfig) error {
	if c.StrongEvidenceLogP < c.ModerateEvidenceLogP {
		return fmt.Errorf("strong evidence threshold must not be below moderate: %f < %f",
			c.StrongEvidenceLogP, c.ModerateEvidenceLogP)
	}
	if c.StrongPathogenicity < c.ModeratePathogenicity {
		return fmt.Errorf("strong pathogenicity threshold must not be below moderate: %d < %d",
			c.StrongPathogenicity, c.ModeratePathogenicity)
	}
	if c.HighEffectOddsRatio < c.ModerateEffectOddsRatio {
		return fmt.Errorf("high effect threshold must not be below moderate: %f < %f",
			c.HighEffectOddsRatio, c.ModerateEffectOddsRatio)
	}
	if c.ModerateEffectOddsRatio <= 1 {
		return fmt.Errorf("moderate effect odds ratio must exceed 1: %f", c.ModerateEffectOddsRatio)
	}
	if c.RareFrequencyMax <= 0 || c.RareFrequencyMax >= c.CommonFrequencyMin {
		return fmt.Errorf("rare frequency max must be positive and below common frequency min")
	}
	return nil
}
