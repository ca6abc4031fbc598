package optimizer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/saleslens/listing-optimizer/internal/core/domain"
	coreerrors "github.com/saleslens/listing-optimizer/internal/core/errors"
	"github.com/saleslens/listing-optimizer/internal/llm"
)

const productPage = `<html><body>
<span id="productTitle">Wireless Earbuds with Noise Cancelling</span>
<div id="availability"><span>In Stock</span></div>
</body></html>`

type fakeRepo struct {
	products      map[string]*domain.Product
	optimizations map[string]*domain.Optimization
	latestByASIN  map[string]*domain.Optimization
	actions       []domain.Action
	keywords      map[string]int
	keywordErr    error
	saveErr       error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products:      map[string]*domain.Product{},
		optimizations: map[string]*domain.Optimization{},
		latestByASIN:  map[string]*domain.Optimization{},
		keywords:      map[string]int{},
	}
}

func (f *fakeRepo) GetProductByASIN(_ context.Context, asinID string) (*domain.Product, error) {
	p, ok := f.products[asinID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", coreerrors.ErrProductNotFound, asinID)
	}

	return p, nil
}

func (f *fakeRepo) UpsertProduct(_ context.Context, product *domain.Product) error {
	existing, ok := f.products[product.ASIN]
	if ok {
		product.ID = existing.ID
		product.CreatedAt = existing.CreatedAt
	} else {
		product.ID = int64(len(f.products) + 1)
		product.CreatedAt = time.Now()
	}

	product.UpdatedAt = time.Now()
	f.products[product.ASIN] = product

	return nil
}

func (f *fakeRepo) ListProducts(_ context.Context, _, _ int) ([]domain.Product, int64, error) {
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}

	return out, int64(len(out)), nil
}

func (f *fakeRepo) LatestOptimization(_ context.Context, asinID string) (*domain.Optimization, error) {
	opt, ok := f.latestByASIN[asinID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", coreerrors.ErrOptimizationNotFound, asinID)
	}

	return opt, nil
}

func (f *fakeRepo) SaveOptimizationWithAction(_ context.Context, opt *domain.Optimization, payload []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	opt.CreatedAt = time.Now()
	f.optimizations[opt.ID] = opt
	f.latestByASIN[opt.ASIN] = opt
	f.actions = append(f.actions, domain.Action{
		ASIN:           opt.ASIN,
		OptimizationID: opt.ID,
		ActionType:     domain.ActionCreated,
		Payload:        payload,
	})

	return nil
}

func (f *fakeRepo) GetOptimization(_ context.Context, id string) (*domain.Optimization, error) {
	opt, ok := f.optimizations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", coreerrors.ErrOptimizationNotFound, id)
	}

	return opt, nil
}

func (f *fakeRepo) SaveAction(_ context.Context, action *domain.Action) error {
	f.actions = append(f.actions, *action)

	return nil
}

func (f *fakeRepo) UpsertKeyword(_ context.Context, asinID, keyword, _ string) error {
	if f.keywordErr != nil {
		return f.keywordErr
	}

	f.keywords[asinID+"/"+keyword]++

	return nil
}

func (f *fakeRepo) HistoryByASIN(_ context.Context, asinID string, _, _ int) ([]domain.HistoryEntry, int64, error) {
	var entries []domain.HistoryEntry

	for _, opt := range f.optimizations {
		if opt.ASIN == asinID {
			entries = append(entries, domain.HistoryEntry{Optimization: *opt})
		}
	}

	return entries, int64(len(entries)), nil
}

func (f *fakeRepo) HistoryFiltered(_ context.Context, _ domain.HistoryFilter, _, _ int) ([]domain.HistoryEntry, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Stats(_ context.Context, _ time.Time) (*domain.Stats, error) {
	return &domain.Stats{}, nil
}

func (f *fakeRepo) Trends(_ context.Context, _ time.Time) (*domain.Trends, error) {
	return &domain.Trends{}, nil
}

type fakeFetcher struct {
	page    []byte
	err     error
	fetches int
}

func (f *fakeFetcher) FetchProductPage(_ context.Context, _ string) ([]byte, error) {
	f.fetches++

	if f.err != nil {
		return nil, f.err
	}

	return f.page, nil
}

func newTestService(repo *fakeRepo, fetcher *fakeFetcher, client llm.Client) *Service {
	logger := zerolog.Nop()

	if client == nil {
		client = &llm.Mock{}
	}

	return NewService(repo, fetcher, NewEngine(client, &logger), Options{
		ProductTTL:      domain.ProductTTL,
		OptimizationTTL: domain.OptimizationTTL,
		BatchItemDelay:  time.Millisecond,
	}, &logger)
}

func TestFetchProductFreshThenCached(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{page: []byte(productPage)}
	svc := newTestService(repo, fetcher, nil)

	first, err := svc.FetchProduct(context.Background(), "B08N5WRWNW", false)
	require.NoError(t, err)
	require.Equal(t, domain.ProvenanceFresh, first.Provenance)
	require.Equal(t, "Wireless Earbuds with Noise Cancelling", first.Product.Title)
	require.Equal(t, 1, fetcher.fetches)

	second, err := svc.FetchProduct(context.Background(), "B08N5WRWNW", false)
	require.NoError(t, err)
	require.Equal(t, domain.ProvenanceCached, second.Provenance)
	require.Equal(t, first.Product.Title, second.Product.Title)
	require.Equal(t, 1, fetcher.fetches, "cached hit must not refetch")
}

func TestFetchProductForceBypassesCache(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{page: []byte(productPage)}
	svc := newTestService(repo, fetcher, nil)

	_, err := svc.FetchProduct(context.Background(), "B08N5WRWNW", false)
	require.NoError(t, err)

	_, err = svc.FetchProduct(context.Background(), "B08N5WRWNW", true)
	require.NoError(t, err)
	require.Equal(t, 2, fetcher.fetches)
}

func TestFetchProductStaleRecordRefetched(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{page: []byte(productPage)}
	svc := newTestService(repo, fetcher, nil)

	repo.products["B08N5WRWNW"] = &domain.Product{
		ASIN:      "B08N5WRWNW",
		Title:     "Old title",
		UpdatedAt: time.Now().Add(-25 * time.Hour),
	}

	result, err := svc.FetchProduct(context.Background(), "B08N5WRWNW", false)
	require.NoError(t, err)
	require.Equal(t, domain.ProvenanceFresh, result.Provenance)
	require.Equal(t, 1, fetcher.fetches)
}

func TestFetchProductInvalidASIN(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, nil)

	_, err := svc.FetchProduct(context.Background(), "not-an-asin", false)
	require.True(t, errors.Is(err, coreerrors.ErrInvalidASIN))
}

func TestOptimizeWithoutProduct(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, nil)

	_, err := svc.Optimize(context.Background(), "B08N5WRWNW")
	require.True(t, errors.Is(err, coreerrors.ErrProductNotFound))
}

func TestOptimizeFreshAndCached(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{page: []byte(productPage)}
	mock := &llm.Mock{Responses: []string{
		"Better Wireless Earbuds Title For Search",
		"• Bullet one\n• Bullet two",
		"Longer improved description text.",
		"earbuds, wireless, anc",
	}}
	svc := newTestService(repo, fetcher, mock)

	_, err := svc.FetchProduct(context.Background(), "B08N5WRWNW", false)
	require.NoError(t, err)

	first, err := svc.Optimize(context.Background(), "B08N5WRWNW")
	require.NoError(t, err)
	require.Equal(t, domain.ProvenanceFresh, first.Provenance)
	require.Equal(t, 100, first.Optimization.Score)
	require.Len(t, first.Factors, 4)
	require.Equal(t, 4, mock.Calls)

	// created action persisted alongside the optimization
	require.Len(t, repo.actions, 1)
	require.Equal(t, domain.ActionCreated, repo.actions[0].ActionType)

	// suggested keywords upserted
	require.Equal(t, 1, repo.keywords["B08N5WRWNW/earbuds"])

	second, err := svc.Optimize(context.Background(), "B08N5WRWNW")
	require.NoError(t, err)
	require.Equal(t, domain.ProvenanceCached, second.Provenance)
	require.Equal(t, first.Optimization.ID, second.Optimization.ID)
	require.Equal(t, 4, mock.Calls, "cached hit must not regenerate")
}

func TestOptimizeCachedFactorsSurviveProductRefetch(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{page: []byte(productPage)}
	mock := &llm.Mock{Responses: []string{
		"Better Wireless Earbuds Title For Search",
		"• Bullet one\n• Bullet two",
		"Longer improved description text.",
		"earbuds, wireless, anc",
	}}
	svc := newTestService(repo, fetcher, mock)

	_, err := svc.FetchProduct(context.Background(), "B08N5WRWNW", false)
	require.NoError(t, err)

	first, err := svc.Optimize(context.Background(), "B08N5WRWNW")
	require.NoError(t, err)
	require.Contains(t, first.Factors, domain.FactorTitle)

	// A forced refetch inside the optimization window can change the stored
	// product. The cached response must keep reporting the factors that
	// produced the stored score, not a rescore against the new baseline.
	refetched := *repo.products["B08N5WRWNW"]
	refetched.Title = "Wireless Earbuds with Noise Cancelling, Bluetooth 5.3, 40H Playtime, IPX7 Waterproof, Deep Bass"
	repo.products["B08N5WRWNW"] = &refetched

	second, err := svc.Optimize(context.Background(), "B08N5WRWNW")
	require.NoError(t, err)
	require.Equal(t, domain.ProvenanceCached, second.Provenance)
	require.Equal(t, first.Factors, second.Factors)
	require.Equal(t, first.Optimization.Score, second.Optimization.Score)
}

func TestOptimizeKeywordFailureDoesNotFail(t *testing.T) {
	repo := newFakeRepo()
	repo.keywordErr = errors.New("keyword table unavailable")

	fetcher := &fakeFetcher{page: []byte(productPage)}
	svc := newTestService(repo, fetcher, &llm.Mock{Responses: []string{"T", "B", "D", "a, b, c"}})

	_, err := svc.FetchProduct(context.Background(), "B08N5WRWNW", false)
	require.NoError(t, err)

	result, err := svc.Optimize(context.Background(), "B08N5WRWNW")
	require.NoError(t, err, "keyword storage is best-effort")
	require.Equal(t, domain.ProvenanceFresh, result.Provenance)
	require.Len(t, repo.optimizations, 1)
}

func TestOptimizeBatchPartialFailure(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{page: []byte(productPage)}

	asins := []string{"B000000001", "B000000002", "B000000003", "B000000004", "B000000005"}
	for _, id := range asins[:4] {
		repo.products[id] = &domain.Product{ASIN: id, Title: "Seeded product title", UpdatedAt: time.Now()}
	}
	// the fifth has no stored product, so its optimize fails

	svc := newTestService(repo, fetcher, &llm.Mock{})

	result, err := svc.OptimizeBatch(context.Background(), asins)
	require.NoError(t, err, "no error escapes the batch call")
	require.Len(t, result.Successful, 4)
	require.Len(t, result.Failed, 1)
	require.Equal(t, "B000000005", result.Failed[0].ASIN)
	require.Equal(t, domain.BatchSummary{Total: 5, Successful: 4, Failed: 1}, result.Summary)
}

func TestOptimizeBatchTooLarge(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, nil)

	_, err := svc.OptimizeBatch(context.Background(), []string{"A", "B", "C", "D", "E", "F"})
	require.True(t, errors.Is(err, coreerrors.ErrBatchTooLarge))
}

func TestFetchProductsBatchIsolation(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{page: []byte(productPage)}
	svc := newTestService(repo, fetcher, nil)

	items, err := svc.FetchProductsBatch(context.Background(), []string{"B08N5WRWNW", "bogus"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.True(t, items[0].Success)
	require.False(t, items[1].Success)
	require.NotEmpty(t, items[1].Error)
}

func TestFetchProductsBatchTooLarge(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, nil)

	batch := make([]string, 11)
	for i := range batch {
		batch[i] = fmt.Sprintf("B%09d", i)
	}

	_, err := svc.FetchProductsBatch(context.Background(), batch)
	require.True(t, errors.Is(err, coreerrors.ErrBatchTooLarge))
}

func TestSubmitFeedback(t *testing.T) {
	repo := newFakeRepo()
	repo.optimizations["opt-1"] = &domain.Optimization{ID: "opt-1", ASIN: "B08N5WRWNW"}

	svc := newTestService(repo, &fakeFetcher{}, nil)

	err := svc.SubmitFeedback(context.Background(), "opt-1", domain.Feedback{Rating: 4, Comments: "solid"})
	require.NoError(t, err)
	require.Len(t, repo.actions, 1)
	require.Equal(t, domain.ActionFeedback, repo.actions[0].ActionType)
}

func TestSubmitFeedbackInvalidRating(t *testing.T) {
	repo := newFakeRepo()
	repo.optimizations["opt-1"] = &domain.Optimization{ID: "opt-1"}

	svc := newTestService(repo, &fakeFetcher{}, nil)

	for _, rating := range []int{0, 6, -1} {
		err := svc.SubmitFeedback(context.Background(), "opt-1", domain.Feedback{Rating: rating})
		require.True(t, errors.Is(err, coreerrors.ErrInvalidFeedback))
	}

	require.Empty(t, repo.actions, "invalid feedback creates no action")
}

func TestSubmitFeedbackUnknownOptimization(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, nil)

	err := svc.SubmitFeedback(context.Background(), "missing", domain.Feedback{Rating: 3})
	require.True(t, errors.Is(err, coreerrors.ErrOptimizationNotFound))
}
