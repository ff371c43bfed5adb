package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/ai"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/bank"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/handler"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/pattern"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/pipeline"
	"github.com/FACorreiaa/smart-finance-tracker/internal/ingestion/store"

	"github.com/FACorreiaa/smart-finance-tracker/pkg/config"
	"github.com/FACorreiaa/smart-finance-tracker/pkg/db"
)

// Dependencies holds every constructed component of the ingestion service,
// following the teacher's InitDependencies/Dependencies constructor-injection
// shape.
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	Repo     store.Repository
	Parsers  *bank.ParserRegistry
	Patterns *pattern.Engine
	AI       *ai.Client
	Pipeline *pipeline.Pipeline

	IngestionHandler  *handler.IngestionHandler
	ManagementHandler *handler.ManagementHandler
}

// InitDependencies wires every ingestion component together plus the
// ambient DB/config/logger.
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: logger}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	deps.initPipeline()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

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

	d.Repo = store.NewPostgresRepository(d.DB.Pool)
	d.Logger.Info("database connected, migrations applied, repository initialized")
	return nil
}

// initPipeline wires the bank parser registry, the pattern engine, the AI
// fallback client, and the orchestrator itself, which internally reaches
// classification, normalization, validation, and dedup per call.
func (d *Dependencies) initPipeline() {
	d.Parsers = bank.NewParserRegistry()
	d.Patterns = pattern.NewEngine(d.Repo)

	if d.Config.AI.APIKey != "" {
		d.AI = ai.NewClient(ai.Config{
			APIKey:        d.Config.AI.APIKey,
			Model:         d.Config.AI.Model,
			Timeout:       d.Config.AI.Timeout,
			MaxConcurrent: d.Config.AI.MaxConcurrent,
		})
	} else {
		d.Logger.Warn("GEMINI_API_KEY not set; AI fallback disabled, pipeline relies on bank/pattern matching only")
	}

	d.Pipeline = pipeline.New(d.Repo, d.Parsers, d.Patterns, d.AI)
	d.Logger.Info("ingestion pipeline initialized")
}

func (d *Dependencies) initHandlers() {
	d.IngestionHandler = handler.NewIngestionHandler(d.Pipeline, d.Logger)
	d.ManagementHandler = handler.NewManagementHandler(d.Repo, d.Logger)
	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources.
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
