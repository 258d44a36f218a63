package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kontowerk/statement-ingest/internal/domain/categorization"
	"github.com/kontowerk/statement-ingest/internal/domain/duplicates"
	"github.com/kontowerk/statement-ingest/internal/domain/ingest/parser"
	ingestservice "github.com/kontowerk/statement-ingest/internal/domain/ingest/service"
	"github.com/kontowerk/statement-ingest/pkg/config"
	"github.com/kontowerk/statement-ingest/pkg/cron"
	"github.com/kontowerk/statement-ingest/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	CategoryRepo    *categorization.Repository
	TransactionRepo *duplicates.Repository

	// Services
	SuggestionService *categorization.Service
	DuplicateDetector *duplicates.Detector
	IngestService     *ingestservice.IngestService

	Scheduler *cron.Scheduler
}

// InitDependencies initializes all application dependencies. withDB controls
// whether the database-backed enrichment stages are wired; without it the
// pipeline still parses, it just cannot suggest categories or flag duplicates.
func InitDependencies(cfg *config.Config, logger *slog.Logger, withDB bool) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if withDB {
		if err := deps.initDatabase(); err != nil {
			return nil, fmt.Errorf("failed to init database: %w", err)
		}
		deps.initRepositories()
	}

	deps.initServices()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() {
	d.CategoryRepo = categorization.NewRepository(d.DB.Pool)
	d.TransactionRepo = duplicates.NewRepository(d.DB.Pool)
	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.IngestService = ingestservice.NewIngestService(parser.NewRegistry(), d.Logger)

	if d.CategoryRepo != nil {
		d.SuggestionService = categorization.NewService(d.CategoryRepo, categorization.Config{
			MinConfidence:  d.Config.Ingestion.MinSuggestionConfidence,
			MaxSuggestions: d.Config.Ingestion.MaxSuggestions,
		}, d.Logger)
		d.IngestService.WithSuggester(d.SuggestionService)
		d.IngestService.WithKeywordLearner(d.SuggestionService)

		d.Scheduler = cron.NewScheduler(d.SuggestionService, d.Config.Ingestion.CacheRefreshSchedule, d.Logger)
	}

	if d.TransactionRepo != nil {
		d.DuplicateDetector = duplicates.NewDetector(d.TransactionRepo, duplicates.Config{
			Threshold:      d.Config.Ingestion.DuplicateThreshold,
			DateWindowDays: d.Config.Ingestion.DuplicateDateWindowDays,
		}, d.Logger)
		d.IngestService.WithDuplicateMarker(d.DuplicateDetector)
	}

	d.Logger.Info("services initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
