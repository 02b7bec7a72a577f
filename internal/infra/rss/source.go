// Package rss provides an alternate article source that reads RSS/Atom
// feeds instead of the news search API. Feed items are matched against the
// topic by case-insensitive containment in the title or description.
package rss

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/resilience/circuitbreaker"
	"newsdigest/internal/resilience/retry"
)

// Source fetches and filters articles from a fixed set of feeds.
// It includes circuit breaker and retry logic for improved reliability.
type Source struct {
	feedURLs       []string
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewSource creates an RSS source over the given feed URLs.
func NewSource(feedURLs []string, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Source{
		feedURLs:       feedURLs,
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// Fetch parses every configured feed and returns the items that mention the
// topic. A feed that fails after retries is skipped with a warning; the
// remaining feeds still contribute articles.
func (s *Source) Fetch(ctx context.Context, topic string) ([]entity.Article, error) {
	var articles []entity.Article

	for _, feedURL := range s.feedURLs {
		items, err := s.fetchFeed(ctx, feedURL)
		if err != nil {
			slog.Warn("skipping feed",
				slog.String("url", feedURL),
				slog.Any("error", err))
			continue
		}
		articles = append(articles, filterByTopic(items, topic)...)
	}

	return articles, nil
}

// Name identifies this source in logs and metrics.
func (s *Source) Name() string {
	return "rss"
}

func (s *Source) fetchFeed(ctx context.Context, feedURL string) ([]entity.Article, error) {
	var items []entity.Article

	retryErr := retry.WithBackoff(ctx, s.retryConfig, func() error {
		cbResult, err := s.circuitBreaker.Execute(func() (interface{}, error) {
			return s.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("url", feedURL),
					slog.String("state", s.circuitBreaker.State().String()))
			}
			return err
		}

		items = cbResult.([]entity.Article)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	return items, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (s *Source) doFetch(ctx context.Context, feedURL string) ([]entity.Article, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "newsdigest"
	fp.Client = s.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	articles := make([]entity.Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		publishedAt := ""
		if it.PublishedParsed != nil {
			publishedAt = it.PublishedParsed.UTC().Format(time.RFC3339)
		}

		author := ""
		if len(it.Authors) > 0 {
			author = it.Authors[0].Name
		}

		article := entity.Article{
			Title:       it.Title,
			Author:      author,
			Source:      feed.Title,
			URL:         it.Link,
			PublishedAt: publishedAt,
			Content:     it.Content,
			Description: it.Description,
		}
		if article.Content == "" {
			article.Content = it.Description
		}
		if !article.HasContent() {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func filterByTopic(articles []entity.Article, topic string) []entity.Article {
	needle := strings.ToLower(strings.TrimSpace(topic))
	if needle == "" {
		return articles
	}

	matched := make([]entity.Article, 0, len(articles))
	for _, a := range articles {
		haystack := strings.ToLower(a.Title + " " + a.Description + " " + a.Content)
		if strings.Contains(haystack, needle) {
			matched = append(matched, a)
		}
	}
	return matched
}
