// Package api exposes the optimizer operations over HTTP. Handlers translate
// transport concerns (routing, JSON, status codes) and delegate everything
// else to the optimizer service.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
	"github.com/saleslens/listing-optimizer/internal/optimizer"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Service is the operation surface the handlers depend on.
type Service interface {
	FetchProduct(ctx context.Context, rawASIN string, force bool) (*optimizer.ProductResult, error)
	FetchProductsBatch(ctx context.Context, rawASINs []string) ([]domain.BatchFetchItem, error)
	ListProducts(ctx context.Context, page, limit int) ([]domain.Product, domain.Pagination, error)
	Optimize(ctx context.Context, rawASIN string) (*domain.OptimizationResult, error)
	OptimizeBatch(ctx context.Context, rawASINs []string) (*domain.BatchOptimizeResult, error)
	SubmitFeedback(ctx context.Context, optimizationID string, feedback domain.Feedback) error
	History(ctx context.Context, rawASIN string, page, limit int) ([]domain.HistoryEntry, domain.Pagination, error)
	HistoryFiltered(ctx context.Context, filter domain.HistoryFilter, page, limit int) ([]domain.HistoryEntry, domain.Pagination, error)
	Stats(ctx context.Context) (*domain.Stats, error)
	Trends(ctx context.Context, days int) (*domain.Trends, error)
}

type Server struct {
	service Service
	port    int
	logger  *zerolog.Logger
}

func NewServer(service Service, port int, logger *zerolog.Logger) *Server {
	return &Server{
		service: service,
		port:    port,
		logger:  logger,
	}
}

// Router assembles the chi route table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.handleListProducts)
		r.Post("/products/batch", s.handleFetchBatch)
		r.Get("/products/{asin}", s.handleFetchProduct)

		r.Post("/optimize/batch", s.handleOptimizeBatch)
		r.Post("/optimize/{asin}", s.handleOptimize)

		r.Get("/stats", s.handleStats)
		r.Get("/trends", s.handleTrends)

		r.Get("/history", s.handleHistoryFiltered)
		r.Get("/history/{asin}", s.handleHistory)

		r.Post("/feedback/{optimizationID}", s.handleFeedback)
	})

	return r
}

// Start serves the API until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		//nolint:errcheck,contextcheck // shutdown on signal is best-effort
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("api server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server error: %w", err)
	}

	return nil
}
