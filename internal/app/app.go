// Package app wires the application together: configuration, storage,
// the scraping fetcher, the generative client behind a shared rate limiter,
// the optimizer service and the HTTP surfaces.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/saleslens/listing-optimizer/internal/api"
	"github.com/saleslens/listing-optimizer/internal/config"
	"github.com/saleslens/listing-optimizer/internal/llm"
	"github.com/saleslens/listing-optimizer/internal/observability"
	"github.com/saleslens/listing-optimizer/internal/optimizer"
	"github.com/saleslens/listing-optimizer/internal/scraper"
	db "github.com/saleslens/listing-optimizer/internal/storage"
)

// App holds the application dependencies.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	server := observability.NewServer(a.database, a.cfg.HealthPort, a.logger)

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("health server: %w", err)
	}

	return nil
}

// Run assembles the service graph and serves the API until the context is
// canceled.
func (a *App) Run(ctx context.Context) error {
	// One limiter shared by every generation call, whatever endpoint
	// triggered it.
	limiter := rate.NewLimiter(rate.Every(a.cfg.LLMMinCallInterval), 1)

	client := llm.NewOpenAI(a.cfg.OpenAIAPIKey, a.cfg.LLMModel, limiter, a.logger)
	engine := optimizer.NewEngine(client, a.logger)
	fetcher := scraper.NewFetcher(a.cfg.ScrapeBaseURL, a.cfg.ScrapeRPS, a.cfg.ScrapeTimeout)

	opts := optimizer.Options{
		ProductTTL:      a.cfg.ProductCacheTTL,
		OptimizationTTL: a.cfg.OptimizationCacheTTL,
		BatchItemDelay:  a.cfg.BatchItemDelay,
	}

	service := optimizer.NewService(a.database, fetcher, engine, opts, a.logger)

	server := api.NewServer(service, a.cfg.HTTPPort, a.logger)

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
