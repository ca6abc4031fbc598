// Package scraper fetches product detail pages and extracts structured
// product records from them. Fetching is rate limited and failure-classified;
// extraction applies ordered fallback rules per field.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	coreerrors "github.com/saleslens/listing-optimizer/internal/core/errors"
)

// ErrTooManyRedirects indicates too many HTTP redirects.
var ErrTooManyRedirects = errors.New("too many redirects")

const (
	defaultFetchTimeout = 30 * time.Second
	limiterBurst        = 2
	maxRedirects        = 5
	maxBodySizeBytes    = 5 * 1024 * 1024
	productPathPrefix   = "/dp/"
)

// Markers in an HTTP 200 body that mean the page is a bot check, not a listing.
var blockedMarkers = []string{
	"api-services-support@amazon.com",
	"Type the characters you see in this image",
	"/errors/validateCaptcha",
}

// Fetcher retrieves product detail pages over HTTP with a global rate limit.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	baseURL   string
	userAgent string
}

// NewFetcher creates a Fetcher issuing at most rps requests per second.
func NewFetcher(baseURL string, rps float64, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return ErrTooManyRedirects
				}

				return nil
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(rps), limiterBurst),
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	}
}

// FetchProductPage retrieves the detail page for one ASIN and returns the raw
// document. Failures are classified into the sentinel kinds callers branch on:
// not found, blocked, timeout, unreachable.
func (f *Fetcher) FetchProductPage(ctx context.Context, asinID string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	pageURL := f.baseURL + productPathPrefix + url.PathEscape(asinID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if blocked(body) {
		return nil, fmt.Errorf("%w: captcha page served", coreerrors.ErrBlocked)
	}

	return body, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return fmt.Errorf("%w: %v", coreerrors.ErrUpstreamTimeout, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", coreerrors.ErrUpstreamTimeout, err)
	}

	return fmt.Errorf("%w: %v", coreerrors.ErrUpstreamUnreachable, err)
}

func classifyStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return fmt.Errorf("%w: status %d", coreerrors.ErrProductNotFound, code)
	case code == http.StatusServiceUnavailable || code == http.StatusTooManyRequests || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", coreerrors.ErrBlocked, code)
	default:
		return fmt.Errorf("%w: status %d", coreerrors.ErrUpstreamUnreachable, code)
	}
}

func blocked(body []byte) bool {
	page := string(body)
	for _, marker := range blockedMarkers {
		if strings.Contains(page, marker) {
			return true
		}
	}

	return false
}
