package optimizer

import (
	"context"
	"time"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
)

// Repository defines the storage operations required by the Service.
type Repository interface {
	// Product operations
	GetProductByASIN(ctx context.Context, asinID string) (*domain.Product, error)
	UpsertProduct(ctx context.Context, product *domain.Product) error
	ListProducts(ctx context.Context, page, limit int) ([]domain.Product, int64, error)

	// Optimization operations
	LatestOptimization(ctx context.Context, asinID string) (*domain.Optimization, error)
	SaveOptimizationWithAction(ctx context.Context, opt *domain.Optimization, actionPayload []byte) error
	GetOptimization(ctx context.Context, id string) (*domain.Optimization, error)
	SaveAction(ctx context.Context, action *domain.Action) error

	// Keyword operations
	UpsertKeyword(ctx context.Context, asinID, keyword, source string) error

	// Read paths
	HistoryByASIN(ctx context.Context, asinID string, page, limit int) ([]domain.HistoryEntry, int64, error)
	HistoryFiltered(ctx context.Context, filter domain.HistoryFilter, page, limit int) ([]domain.HistoryEntry, int64, error)
	Stats(ctx context.Context, since time.Time) (*domain.Stats, error)
	Trends(ctx context.Context, since time.Time) (*domain.Trends, error)
}

// PageFetcher retrieves the raw detail page for one identifier.
type PageFetcher interface {
	FetchProductPage(ctx context.Context, asinID string) ([]byte, error)
}
