package newsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"newsdigest/internal/config"
	"newsdigest/internal/resilience/retry"
)

func testConfig(baseURL string) config.NewsConfig {
	return config.NewsConfig{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		DaysBack: 7,
		Language: "en",
		SortBy:   config.SortByRelevancy,
		PageSize: 10,
		Timeout:  5 * time.Second,
	}
}

func newTestClient(baseURL string) *Client {
	c := NewClient(testConfig(baseURL))
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	c.retryConfig = retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
	}
	c.now = func() time.Time { return time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC) }
	return c
}

func okPayload() map[string]any {
	return map[string]any{
		"status": "ok",
		"articles": []map[string]any{
			{
				"source":      map[string]any{"name": "Example News"},
				"author":      "A. Writer",
				"title":       "Valid article",
				"description": "About things",
				"url":         "https://example.com/a",
				"publishedAt": "2025-06-07T10:00:00Z",
				"content":     "Full content here",
			},
			{
				// Missing content: excluded during normalization.
				"source":      map[string]any{"name": "Example News"},
				"title":       "No content",
				"url":         "https://example.com/b",
				"publishedAt": "2025-06-07T11:00:00Z",
				"content":     "",
			},
			{
				// Missing title: excluded during normalization.
				"source":      map[string]any{"name": "Example News"},
				"title":       "",
				"url":         "https://example.com/c",
				"publishedAt": "2025-06-07T12:00:00Z",
				"content":     "Orphan content",
			},
		},
	}
}

func TestFetch_FiltersAndNormalizes(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		_ = json.NewEncoder(w).Encode(okPayload())
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	articles, err := c.Fetch(context.Background(), "space travel")
	require.NoError(t, err)
	require.Len(t, articles, 1)

	got := articles[0]
	assert.Equal(t, "Valid article", got.Title)
	assert.Equal(t, "A. Writer", got.Author)
	assert.Equal(t, "Example News", got.Source)
	assert.Equal(t, "https://example.com/a", got.URL)
	assert.Equal(t, "2025-06-07T10:00:00Z", got.PublishedAt)
	assert.Equal(t, "Full content here", got.Content)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, "space travel", query.Get("q"))
	assert.Equal(t, "2025-06-01", query.Get("from"))
	assert.Equal(t, "2025-06-08", query.Get("to"))
	assert.Equal(t, "en", query.Get("language"))
	assert.Equal(t, "relevancy", query.Get("sortBy"))
	assert.Equal(t, "10", query.Get("pageSize"))
	assert.Equal(t, "test-key", query.Get("apiKey"))
}

func TestFetch_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(okPayload())
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	articles, err := c.Fetch(context.Background(), "tech")
	require.NoError(t, err)
	assert.Len(t, articles, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Fetch(context.Background(), "tech")
	require.Error(t, err)

	var httpErr *retry.HTTPError
	assert.ErrorAs(t, err, &httpErr)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_UnauthorizedNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Fetch(context.Background(), "tech")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_APIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "error",
			"message": "apiKeyInvalid",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Fetch(context.Background(), "tech")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}

func TestFetch_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "articles": []any{}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	articles, err := c.Fetch(context.Background(), "obscure topic")
	require.NoError(t, err)
	assert.Empty(t, articles)
}
