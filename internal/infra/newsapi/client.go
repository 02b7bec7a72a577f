// Package newsapi provides a client for the NewsAPI "everything" search
// endpoint. Failed calls are retried with exponential backoff; a client-side
// rate limiter keeps the request rate within the free-tier quota.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"newsdigest/internal/config"
	"newsdigest/internal/domain/entity"
	"newsdigest/internal/resilience/retry"
)

// Client fetches news articles for a topic within a date window.
type Client struct {
	baseURL     string
	apiKey      string
	daysBack    int
	language    string
	sortBy      string
	pageSize    int
	httpClient  *http.Client
	limiter     *rate.Limiter
	retryConfig retry.Config

	now func() time.Time
}

// NewClient creates a news client from configuration.
func NewClient(cfg config.NewsConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		daysBack:    cfg.DaysBack,
		language:    cfg.Language,
		sortBy:      cfg.SortBy,
		pageSize:    cfg.PageSize,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(1), 5),
		retryConfig: retry.NewsAPIConfig(),
		now:         time.Now,
	}
}

// response mirrors the NewsAPI JSON payload.
type response struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Fetch retrieves articles for the topic published within the configured
// date window. Transient failures are retried up to 3 times with
// exponential backoff; a persistent failure is propagated, since no useful
// degraded output exists without articles.
func (c *Client) Fetch(ctx context.Context, topic string) ([]entity.Article, error) {
	var articles []entity.Article

	err := retry.WithBackoff(ctx, c.retryConfig, func() error {
		fetched, err := c.doFetch(ctx, topic)
		if err != nil {
			return err
		}
		articles = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", topic, err)
	}

	return articles, nil
}

// Name identifies this source in logs and metrics.
func (c *Client) Name() string {
	return "newsapi"
}

func (c *Client) doFetch(ctx context.Context, topic string) ([]entity.Article, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	end := c.now()
	start := end.AddDate(0, 0, -c.daysBack)

	params := url.Values{}
	params.Set("q", topic)
	params.Set("from", start.Format("2006-01-02"))
	params.Set("to", end.Format("2006-01-02"))
	params.Set("language", c.language)
	params.Set("sortBy", c.sortBy)
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if payload.Status != "ok" {
		message := payload.Message
		if message == "" {
			message = "unknown error"
		}
		return nil, fmt.Errorf("news api error: %s", message)
	}

	articles := make([]entity.Article, 0, len(payload.Articles))
	for _, raw := range payload.Articles {
		// Title and content are both required for inclusion.
		if raw.Title == "" || raw.Content == "" {
			continue
		}
		articles = append(articles, entity.Article{
			Title:       raw.Title,
			Author:      raw.Author,
			Source:      raw.Source.Name,
			URL:         raw.URL,
			PublishedAt: raw.PublishedAt,
			Content:     raw.Content,
			Description: raw.Description,
		})
	}

	slog.Debug("fetched articles",
		slog.String("topic", topic),
		slog.Int("returned", len(payload.Articles)),
		slog.Int("usable", len(articles)))

	return articles, nil
}
