// Package fetcher fetches full article text from source URLs. It is used to
// enrich truncated API content before indexing and summarization.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"newsdigest/internal/resilience/circuitbreaker"
)

// Sentinel errors for content fetching operations.
var (
	// ErrInvalidURL indicates the URL format is invalid or uses an unsupported scheme.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrExtractionFailed indicates readability could not extract article text.
	ErrExtractionFailed = errors.New("content extraction failed")
)

// Config holds limits for content fetching.
type Config struct {
	// Timeout per fetch. Default: 15s
	Timeout time.Duration

	// MaxBodySize caps the HTML payload. Default: 5 MiB
	MaxBodySize int64
}

// DefaultConfig returns conservative fetch limits.
func DefaultConfig() Config {
	return Config{
		Timeout:     15 * time.Second,
		MaxBodySize: 5 << 20,
	}
}

// Readability extracts clean article text from web pages using the Mozilla
// Readability algorithm. A circuit breaker protects against sites that
// consistently fail or stall.
type Readability struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
}

// NewReadability creates a content fetcher with the given limits.
func NewReadability(config Config) *Readability {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultConfig().MaxBodySize
	}

	return &Readability{
		client:         &http.Client{Timeout: config.Timeout},
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		config:         config,
	}
}

// FetchContent fetches the page and extracts the article body as plain text.
func (f *Readability) FetchContent(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, pageURL)
	}

	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, parsed)
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (f *Readability) doFetch(ctx context.Context, pageURL *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "newsdigest")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return "", ErrBodyTooLarge
	}

	article, err := readability.FromReader(strings.NewReader(string(body)), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", ErrExtractionFailed
	}

	return text, nil
}
