package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/longevity-genome-engine/internal/analysis"
	"github.com/longevity-genome-engine/internal/config"
	"github.com/longevity-genome-engine/internal/curated"
	"github.com/longevity-genome-engine/internal/database"
	"github.com/longevity-genome-engine/internal/domain"
	"github.com/longevity-genome-engine/internal/reference"
)

func main() {
	inputPath := flag.String("input", "", "Genotype export file to analyze (default stdin)")
	outputPath := flag.String("output", "", "Result file to write (default stdout)")
	migrate := flag.Bool("migrate", false, "Run database migrations and exit")
	flag.Parse()

	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *migrate {
		if err := runMigrations(cfg, logger); err != nil {
			logger.Fatalf("Migrations failed: %v", err)
		}
		return
	}

	if err := run(ctx, cfg, logger, *inputPath, *outputPath); err != nil {
		logger.Fatalf("Analysis failed: %v", err)
	}
}

func run(ctx context.Context, cfg *domain.Config, logger *logrus.Logger, inputPath, outputPath string) error {
	store, closeStore, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	curatedData, err := curated.Load(cfg.Curated, logger)
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(curatedData, store, cfg, logger)

	input, closeInput, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer closeInput()

	result, err := analyzer.Analyze(ctx, input)
	if err != nil {
		return err
	}

	return writeResult(result, outputPath)
}

// newLogger builds the process logger from the logging configuration.
// Unparseable levels fall back to info.
func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	// analysis results go to stdout, logs stay on stderr
	logger.SetOutput(os.Stderr)

	return logger
}

// buildStore opens the configured reference backend and stacks the optional
// cache and circuit-breaker decorators on top of it.
func buildStore(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (domain.ReferenceStore, func(), error) {
	var (
		store  domain.ReferenceStore
		closer func()
	)

	switch cfg.Reference.Backend {
	case "sqlite":
		sqliteStore, err := reference.OpenSQLiteStore(cfg.Reference.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := sqliteStore.EnsureSchema(ctx); err != nil {
			sqliteStore.Close()
			return nil, nil, err
		}
		store = sqliteStore
		closer = func() {
			if err := sqliteStore.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close reference database")
			}
		}

	case "postgres":
		db, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		store = reference.NewPostgresStore(db.Pool, logger)
		closer = db.Close

	default:
		return nil, nil, fmt.Errorf("unknown reference backend %q", cfg.Reference.Backend)
	}

	if cfg.Cache.Enabled {
		cached, err := reference.NewCachedStore(store, cfg.Cache.LRUSize, newRedisClient(cfg.Cache, logger), cfg.Cache.DefaultTTL, logger)
		if err != nil {
			closer()
			return nil, nil, err
		}
		store = cached
	}

	if cfg.Reference.BreakerEnabled {
		store = reference.NewBreakerStore(store, logger)
	}

	return store, closer, nil
}

// newRedisClient returns nil when no redis endpoint is configured; the cache
// then runs on the in-process LRU alone.
func newRedisClient(cfg domain.CacheConfig, logger *logrus.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Invalid redis URL, continuing without shared cache")
		return nil
	}
	opts.MaxRetries = cfg.MaxRetries
	opts.PoolSize = cfg.PoolSize

	return redis.NewClient(opts)
}

func runMigrations(cfg *domain.Config, logger *logrus.Logger) error {
	runner, err := database.NewMigrationRunner(database.URL(cfg.Database), cfg.Database.MigrationsPath, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	return runner.Up()
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening genotype export: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func writeResult(result *domain.AnalysisResult, path string) error {
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	raw = append(raw, '\n')

	if path == "" {
		_, err = os.Stdout.Write(raw)
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
