package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	coreerrors "github.com/saleslens/listing-optimizer/internal/core/errors"
)

func TestFetchProductPageOK(t *testing.T) {
	var gotPath, gotUA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	fetcher := NewFetcher(srv.URL, 10, time.Second)

	body, err := fetcher.FetchProductPage(context.Background(), testASIN)
	require.NoError(t, err)
	require.Contains(t, string(body), "ok")
	require.Equal(t, "/dp/"+testASIN, gotPath)
	require.NotEmpty(t, gotUA)
}

func TestFetchProductPageNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher := NewFetcher(srv.URL, 10, time.Second)

	_, err := fetcher.FetchProductPage(context.Background(), testASIN)
	require.True(t, errors.Is(err, coreerrors.ErrProductNotFound))
}

func TestFetchProductPageBlockedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	fetcher := NewFetcher(srv.URL, 10, time.Second)

	_, err := fetcher.FetchProductPage(context.Background(), testASIN)
	require.True(t, errors.Is(err, coreerrors.ErrBlocked))
}

func TestFetchProductPageCaptchaBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>Type the characters you see in this image</body></html>`))
	}))
	defer srv.Close()

	fetcher := NewFetcher(srv.URL, 10, time.Second)

	_, err := fetcher.FetchProductPage(context.Background(), testASIN)
	require.True(t, errors.Is(err, coreerrors.ErrBlocked))
}

func TestFetchProductPageTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	fetcher := NewFetcher(srv.URL, 10, 50*time.Millisecond)

	_, err := fetcher.FetchProductPage(context.Background(), testASIN)
	require.True(t, errors.Is(err, coreerrors.ErrUpstreamTimeout))
}

func TestFetchProductPageUnreachable(t *testing.T) {
	fetcher := NewFetcher("http://127.0.0.1:1", 10, time.Second)

	_, err := fetcher.FetchProductPage(context.Background(), testASIN)
	require.True(t, errors.Is(err, coreerrors.ErrUpstreamUnreachable))
}

func TestFetchProductPageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fetcher := NewFetcher(srv.URL, 10, time.Second)

	_, err := fetcher.FetchProductPage(context.Background(), testASIN)
	require.True(t, errors.Is(err, coreerrors.ErrUpstreamUnreachable))
}
