package domain

import "time"

// Default policy values. These are the primary tunable surface of the engine;
// the configuration layer seeds viper defaults from them and components read
// the resolved values from the config structs below.
const (
	// Scoring
	DefaultStatWeight      = 1.0
	DefaultClinicalWeight  = 2.0
	DefaultEffectWeight    = 5.0
	DefaultStatCap         = 50.0
	DefaultStatFloor       = 0.0
	DefaultCommonDiscount  = 0.5
	DefaultCommonFrequency = 0.8

	// Classification
	DefaultStrongEvidenceLogP      = 7.3 // genome-wide significance, p = 5e-8
	DefaultModerateEvidenceLogP    = 5.0
	DefaultStrongPathogenicity     = 8
	DefaultModeratePathogenicity   = 6
	DefaultHighEffectOddsRatio     = 1.5
	DefaultModerateEffectOddsRatio = 1.2
	DefaultRareFrequencyMax        = 0.10

	// Matching
	DefaultBatchSize        = 10000
	DefaultBatchConcurrency = 4
	DefaultQueryTimeout     = 30 * time.Second
	DefaultQueryRateLimit   = 20 // batches per second

	// Output
	DefaultPreviewSize       = 5
	DefaultTopAssociations   = 50
	DefaultClinicalFlags     = 20
	DefaultClinicalFlagScore = 6
)

// Config is the complete engine configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Reference  ReferenceConfig  `mapstructure:"reference"`
	Curated    CuratedConfig    `mapstructure:"curated"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Output     OutputConfig     `mapstructure:"output"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// DatabaseConfig holds PostgreSQL connection settings for the reference store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// CacheConfig holds settings for the reference lookup cache decorator.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	RedisURL   string        `mapstructure:"redis_url"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	LRUSize    int           `mapstructure:"lru_size"`
}

// ReferenceConfig selects and tunes the reference store backend.
type ReferenceConfig struct {
	Backend          string        `mapstructure:"backend"` // "postgres" or "sqlite"
	SQLitePath       string        `mapstructure:"sqlite_path"`
	BatchSize        int           `mapstructure:"batch_size"`
	BatchConcurrency int           `mapstructure:"batch_concurrency"`
	QueryTimeout     time.Duration `mapstructure:"query_timeout"`
	RateLimit        int           `mapstructure:"rate_limit"` // batches per second, 0 disables
	BreakerEnabled   bool          `mapstructure:"breaker_enabled"`
}

// CuratedConfig points at the static curated inputs loaded once at startup.
type CuratedConfig struct {
	VariantListPath string `mapstructure:"variant_list_path"`
	CategoriesPath  string `mapstructure:"categories_path"`
	OverridesPath   string `mapstructure:"overrides_path"`
}

// ScoringConfig holds the importance-score weights and clamps.
type ScoringConfig struct {
	StatWeight      float64 `mapstructure:"stat_weight"`
	ClinicalWeight  float64 `mapstructure:"clinical_weight"`
	EffectWeight    float64 `mapstructure:"effect_weight"`
	StatCap         float64 `mapstructure:"stat_cap"`
	StatFloor       float64 `mapstructure:"stat_floor"`
	CommonFrequency float64 `mapstructure:"common_frequency"`
	CommonDiscount  float64 `mapstructure:"common_discount"`
}

// ClassifierConfig holds the named thresholds behind the risk decision table.
type ClassifierConfig struct {
	StrongEvidenceLogP      float64 `mapstructure:"strong_evidence_log_p"`
	ModerateEvidenceLogP    float64 `mapstructure:"moderate_evidence_log_p"`
	StrongPathogenicity     int     `mapstructure:"strong_pathogenicity"`
	ModeratePathogenicity   int     `mapstructure:"moderate_pathogenicity"`
	HighEffectOddsRatio     float64 `mapstructure:"high_effect_odds_ratio"`
	ModerateEffectOddsRatio float64 `mapstructure:"moderate_effect_odds_ratio"`
	RareFrequencyMax        float64 `mapstructure:"rare_frequency_max"`
	CommonFrequencyMin      float64 `mapstructure:"common_frequency_min"`
}

// OutputConfig bounds the preview views derived from the full ordering.
type OutputConfig struct {
	PreviewSize       int `mapstructure:"preview_size"`
	TopAssociations   int `mapstructure:"top_associations"`
	ClinicalFlags     int `mapstructure:"clinical_flags"`
	ClinicalFlagScore int `mapstructure:"clinical_flag_score"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
