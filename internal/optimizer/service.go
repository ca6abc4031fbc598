package optimizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saleslens/listing-optimizer/internal/asin"
	"github.com/saleslens/listing-optimizer/internal/core/domain"
	coreerrors "github.com/saleslens/listing-optimizer/internal/core/errors"
	"github.com/saleslens/listing-optimizer/internal/scraper"
)

const (
	maxFetchBatchSize    = 10
	maxOptimizeBatchSize = 5
	maxListLimit         = 100
	maxHistoryLimit      = 50
	maxFilteredLimit     = 100
	defaultTrendDays     = 30
	maxTrendDays         = 365
	statsWindowDays      = 30
	minRating            = 1
	maxRating            = 5
)

// Options tunes the service's freshness windows and batch pacing.
type Options struct {
	ProductTTL      time.Duration
	OptimizationTTL time.Duration
	BatchItemDelay  time.Duration
}

// DefaultOptions returns the standard freshness and pacing configuration.
func DefaultOptions() Options {
	return Options{
		ProductTTL:      domain.ProductTTL,
		OptimizationTTL: domain.OptimizationTTL,
		BatchItemDelay:  2 * time.Second,
	}
}

// Service implements the public operations: fetch, optimize, history, stats,
// trends, feedback. It owns the freshness gates and the persistence
// discipline around generation events.
type Service struct {
	repo    Repository
	fetcher PageFetcher
	engine  *Engine
	opts    Options
	logger  *zerolog.Logger

	// now is injectable for freshness tests.
	now func() time.Time
}

func NewService(repo Repository, fetcher PageFetcher, engine *Engine, opts Options, logger *zerolog.Logger) *Service {
	if opts.ProductTTL <= 0 {
		opts.ProductTTL = domain.ProductTTL
	}

	if opts.OptimizationTTL <= 0 {
		opts.OptimizationTTL = domain.OptimizationTTL
	}

	return &Service{
		repo:    repo,
		fetcher: fetcher,
		engine:  engine,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// ProductResult pairs a product with the provenance of this response.
type ProductResult struct {
	Provenance domain.Provenance `json:"provenance"`
	Product    *domain.Product   `json:"product"`
}

// FetchProduct returns the stored product when it is inside the freshness
// window, otherwise scrapes, extracts and upserts. force bypasses the gate.
func (s *Service) FetchProduct(ctx context.Context, rawASIN string, force bool) (*ProductResult, error) {
	asinID := asin.Normalize(rawASIN)
	if !asin.Valid(asinID) {
		return nil, fmt.Errorf("%w: %q", coreerrors.ErrInvalidASIN, rawASIN)
	}

	if !force {
		stored, err := s.repo.GetProductByASIN(ctx, asinID)
		if err != nil && !errors.Is(err, coreerrors.ErrProductNotFound) {
			return nil, fmt.Errorf("load product: %w", err)
		}

		if stored != nil && domain.Fresh(stored.UpdatedAt, s.opts.ProductTTL, s.now()) {
			return &ProductResult{Provenance: domain.ProvenanceCached, Product: stored}, nil
		}
	}

	document, err := s.fetcher.FetchProductPage(ctx, asinID)
	if err != nil {
		return nil, fmt.Errorf("fetch product page: %w", err)
	}

	product, err := scraper.Extract(document, asinID)
	if err != nil {
		return nil, fmt.Errorf("extract product: %w", err)
	}

	if err := s.repo.UpsertProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("upsert product: %w", err)
	}

	return &ProductResult{Provenance: domain.ProvenanceFresh, Product: product}, nil
}

// FetchProductsBatch fetches up to 10 identifiers. Each item's failure is
// isolated; invalid identifiers are reported per-item, not rejected wholesale.
func (s *Service) FetchProductsBatch(ctx context.Context, rawASINs []string) ([]domain.BatchFetchItem, error) {
	if len(rawASINs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", coreerrors.ErrInvalidASIN)
	}

	if len(rawASINs) > maxFetchBatchSize {
		return nil, fmt.Errorf("%w: %d identifiers, maximum %d", coreerrors.ErrBatchTooLarge, len(rawASINs), maxFetchBatchSize)
	}

	items := make([]domain.BatchFetchItem, 0, len(rawASINs))

	for _, raw := range rawASINs {
		asinID := asin.Normalize(raw)

		result, err := s.FetchProduct(ctx, asinID, false)
		if err != nil {
			items = append(items, domain.BatchFetchItem{ASIN: asinID, Success: false, Error: err.Error()})

			continue
		}

		items = append(items, domain.BatchFetchItem{ASIN: asinID, Success: true, Product: result.Product})
	}

	return items, nil
}

// ListProducts returns one page of stored products, most recent first.
func (s *Service) ListProducts(ctx context.Context, page, limit int) ([]domain.Product, domain.Pagination, error) {
	page, limit = clampPage(page, limit, maxListLimit)

	products, total, err := s.repo.ListProducts(ctx, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("list products: %w", err)
	}

	return products, domain.NewPagination(page, limit, total), nil
}

// Optimize runs a generation event for a previously fetched product. A fresh
// stored optimization short-circuits the generative calls entirely.
func (s *Service) Optimize(ctx context.Context, rawASIN string) (*domain.OptimizationResult, error) {
	asinID := asin.Normalize(rawASIN)
	if !asin.Valid(asinID) {
		return nil, fmt.Errorf("%w: %q", coreerrors.ErrInvalidASIN, rawASIN)
	}

	product, err := s.repo.GetProductByASIN(ctx, asinID)
	if err != nil {
		return nil, fmt.Errorf("load product for optimization: %w", err)
	}

	latest, err := s.repo.LatestOptimization(ctx, asinID)
	if err != nil && !errors.Is(err, coreerrors.ErrOptimizationNotFound) {
		return nil, fmt.Errorf("load latest optimization: %w", err)
	}

	if latest != nil && domain.Fresh(latest.CreatedAt, s.opts.OptimizationTTL, s.now()) {
		return &domain.OptimizationResult{
			Provenance:   domain.ProvenanceCached,
			Product:      product,
			Optimization: latest,
			Factors:      cachedFactors(product, latest),
		}, nil
	}

	generated, err := s.engine.Generate(ctx, product)
	if err != nil {
		return nil, err
	}

	opt := &domain.Optimization{
		ID:                   uuid.NewString(),
		ASIN:                 asinID,
		ProductID:            product.ID,
		GeneratedTitle:       generated.Title,
		GeneratedBullets:     generated.Bullets,
		GeneratedDescription: generated.Description,
		GeneratedKeywords:    generated.Keywords,
		Model:                generated.Model,
		Metadata: domain.OptimizationMetadata{
			ElapsedMS:   generated.ElapsedMS,
			CallCount:   generated.CallCount,
			CompletedAt: generated.CompletedAt,
		},
	}

	score := domain.Score(product, opt)
	opt.Score = score.Score
	opt.Metadata.Factors = score.Factors

	payload, err := json.Marshal(map[string]interface{}{
		"score":      score.Score,
		"factors":    score.Factors,
		"elapsed_ms": generated.ElapsedMS,
		"call_count": generated.CallCount,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal action payload: %w", err)
	}

	if err := s.repo.SaveOptimizationWithAction(ctx, opt, payload); err != nil {
		return nil, fmt.Errorf("save optimization: %w", err)
	}

	// Keyword storage is best-effort: a keyword write failure must not lose
	// the already-persisted generation result.
	s.storeKeywords(ctx, asinID, generated.Keywords)

	return &domain.OptimizationResult{
		Provenance:   domain.ProvenanceFresh,
		Product:      product,
		Optimization: opt,
		Factors:      score.Factors,
	}, nil
}

// cachedFactors returns the factor list persisted with the optimization.
// Rows written before factors were stored fall back to rescoring against the
// current product, which may have been refetched since generation.
func cachedFactors(product *domain.Product, opt *domain.Optimization) []string {
	if opt.Metadata.Factors != nil {
		return opt.Metadata.Factors
	}

	return domain.Score(product, opt).Factors
}

func (s *Service) storeKeywords(ctx context.Context, asinID string, keywords []string) {
	for _, keyword := range keywords {
		if err := s.repo.UpsertKeyword(ctx, asinID, keyword, domain.KeywordSourceSuggested); err != nil {
			s.logger.Warn().
				Err(err).
				Str("asin", asinID).
				Str("keyword", keyword).
				Msg("keyword upsert failed, optimization already persisted")
		}
	}
}

// OptimizeBatch processes up to 5 identifiers sequentially with a fixed
// inter-item delay. The delay shapes load on the generative service and is
// intentional; do not parallelize. One record's failure never aborts the rest.
func (s *Service) OptimizeBatch(ctx context.Context, rawASINs []string) (*domain.BatchOptimizeResult, error) {
	if len(rawASINs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", coreerrors.ErrInvalidASIN)
	}

	if len(rawASINs) > maxOptimizeBatchSize {
		return nil, fmt.Errorf("%w: %d identifiers, maximum %d", coreerrors.ErrBatchTooLarge, len(rawASINs), maxOptimizeBatchSize)
	}

	result := &domain.BatchOptimizeResult{
		Successful: []domain.OptimizationResult{},
		Failed:     []domain.BatchFailure{},
	}

	for i, raw := range rawASINs {
		if i > 0 && s.opts.BatchItemDelay > 0 {
			select {
			case <-time.After(s.opts.BatchItemDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("batch optimize interrupted: %w", ctx.Err())
			}
		}

		asinID := asin.Normalize(raw)

		optimized, err := s.Optimize(ctx, asinID)
		if err != nil {
			result.Failed = append(result.Failed, domain.BatchFailure{ASIN: asinID, Error: err.Error()})

			continue
		}

		result.Successful = append(result.Successful, *optimized)
	}

	result.Summary = domain.BatchSummary{
		Total:      len(rawASINs),
		Successful: len(result.Successful),
		Failed:     len(result.Failed),
	}

	return result, nil
}

// SubmitFeedback records a caller's rating of a prior optimization as a
// feedback action. An out-of-range rating is rejected with no writes.
func (s *Service) SubmitFeedback(ctx context.Context, optimizationID string, feedback domain.Feedback) error {
	if feedback.Rating < minRating || feedback.Rating > maxRating {
		return fmt.Errorf("%w: rating %d outside [%d,%d]", coreerrors.ErrInvalidFeedback, feedback.Rating, minRating, maxRating)
	}

	opt, err := s.repo.GetOptimization(ctx, optimizationID)
	if err != nil {
		return fmt.Errorf("load optimization for feedback: %w", err)
	}

	payload, err := json.Marshal(feedback)
	if err != nil {
		return fmt.Errorf("marshal feedback payload: %w", err)
	}

	action := &domain.Action{
		ASIN:           opt.ASIN,
		OptimizationID: opt.ID,
		ActionType:     domain.ActionFeedback,
		Payload:        payload,
	}

	if err := s.repo.SaveAction(ctx, action); err != nil {
		return fmt.Errorf("save feedback action: %w", err)
	}

	return nil
}

// History returns one identifier's optimizations with their actions.
func (s *Service) History(ctx context.Context, rawASIN string, page, limit int) ([]domain.HistoryEntry, domain.Pagination, error) {
	asinID := asin.Normalize(rawASIN)
	if !asin.Valid(asinID) {
		return nil, domain.Pagination{}, fmt.Errorf("%w: %q", coreerrors.ErrInvalidASIN, rawASIN)
	}

	page, limit = clampPage(page, limit, maxHistoryLimit)

	entries, total, err := s.repo.HistoryByASIN(ctx, asinID, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("load history: %w", err)
	}

	return entries, domain.NewPagination(page, limit, total), nil
}

// HistoryFiltered returns optimizations across identifiers narrowed by the filter.
func (s *Service) HistoryFiltered(ctx context.Context, filter domain.HistoryFilter, page, limit int) ([]domain.HistoryEntry, domain.Pagination, error) {
	page, limit = clampPage(page, limit, maxFilteredLimit)

	entries, total, err := s.repo.HistoryFiltered(ctx, filter, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("load filtered history: %w", err)
	}

	return entries, domain.NewPagination(page, limit, total), nil
}

// Stats returns the 30-day aggregate view.
func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	since := s.now().AddDate(0, 0, -statsWindowDays)

	stats, err := s.repo.Stats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	return stats, nil
}

// Trends returns the analytics view over the requested day window.
func (s *Service) Trends(ctx context.Context, days int) (*domain.Trends, error) {
	if days <= 0 {
		days = defaultTrendDays
	}

	if days > maxTrendDays {
		days = maxTrendDays
	}

	trends, err := s.repo.Trends(ctx, s.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("load trends: %w", err)
	}

	return trends, nil
}

func clampPage(page, limit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = maxLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}
