// Package fetch retrieves news articles for a topic from an external source
// and optionally enriches truncated content with the full article text.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/observability/metrics"
)

// ArticleSource fetches normalized articles for a topic. Implementations
// live under internal/infra (NewsAPI, RSS).
type ArticleSource interface {
	Fetch(ctx context.Context, topic string) ([]entity.Article, error)
	Name() string
}

// ContentFetcher fetches full article text from a source URL. Can be nil to
// disable content enrichment.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// truncationMarker matches the suffix news APIs append when they cut off
// article bodies, e.g. "... [+1234 chars]".
var truncationMarker = regexp.MustCompile(`\[\+\d+ chars\]\s*$`)

// Service provides the article retrieval use case.
type Service struct {
	Source         ArticleSource
	ContentFetcher ContentFetcher
	Logger         *slog.Logger
}

// NewService creates a fetch Service. contentFetcher may be nil to disable
// enrichment of truncated article bodies.
func NewService(source ArticleSource, contentFetcher ContentFetcher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{
		Source:         source,
		ContentFetcher: contentFetcher,
		Logger:         logger,
	}
}

// Search fetches articles for the topic. Fetch failures are fatal for the
// search: without articles there is nothing to degrade to.
func (s Service) Search(ctx context.Context, topic string) ([]entity.Article, error) {
	articles, err := s.Source.Fetch(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("fetch articles for %q: %w", topic, err)
	}

	metrics.RecordArticlesFetched(s.Source.Name(), len(articles))
	s.Logger.Info("fetched articles",
		slog.String("topic", topic),
		slog.String("source", s.Source.Name()),
		slog.Int("count", len(articles)))

	if s.ContentFetcher != nil {
		s.enrichTruncated(ctx, articles)
	}

	return articles, nil
}

// enrichTruncated replaces truncated article bodies with the full page text.
// Enrichment is best effort: a failed fetch keeps the truncated content.
func (s Service) enrichTruncated(ctx context.Context, articles []entity.Article) {
	for i := range articles {
		a := &articles[i]
		if a.URL == "" || !truncationMarker.MatchString(strings.TrimSpace(a.Content)) {
			continue
		}

		full, err := s.ContentFetcher.FetchContent(ctx, a.URL)
		if err != nil {
			s.Logger.Warn("content enrichment failed, keeping truncated body",
				slog.String("url", a.URL),
				slog.String("error", err.Error()))
			continue
		}

		a.Content = full
	}
}
