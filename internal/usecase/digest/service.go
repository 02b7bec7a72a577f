// Package digest orchestrates the full research pipeline for a topic:
// fetch articles, index them, generate a summary, and record the search in
// the user's history.
package digest

import (
	"context"
	"fmt"
	"log/slog"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/infra/summarizer"
	"newsdigest/internal/repository"
	"newsdigest/internal/usecase/fetch"
	"newsdigest/internal/usecase/index"
	"newsdigest/internal/usecase/query"
)

// Result is the outcome of one research run.
type Result struct {
	Topic       string
	Articles    []entity.Article
	Indexed     int
	Summary     summarizer.Summary
	SummaryType string
}

// Service wires the fetch, index and summarize stages together.
type Service struct {
	Fetch      fetch.Service
	Index      index.Service
	Query      query.Service
	Summarizer summarizer.Summarizer
	Profiles   repository.ProfileRepository
	Logger     *slog.Logger
}

// NewService creates a digest Service from its collaborating services.
func NewService(
	fetchSvc fetch.Service,
	indexSvc index.Service,
	querySvc query.Service,
	sum summarizer.Summarizer,
	profiles repository.ProfileRepository,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{
		Fetch:      fetchSvc,
		Index:      indexSvc,
		Query:      querySvc,
		Summarizer: sum,
		Profiles:   profiles,
		Logger:     logger,
	}
}

// Research runs the full pipeline for a topic. The summary type comes from
// the stored preferences. A fetch that yields no articles fails with
// entity.ErrNoArticles; indexing failures are fatal too, but summary
// generation degrades internally and never fails the run. The search is
// recorded in history only after the pipeline succeeds.
func (s Service) Research(ctx context.Context, topic string) (*Result, error) {
	prefs := s.Profiles.Preferences()
	summaryType := prefs.SummaryType
	if !entity.ValidSummaryType(summaryType) {
		summaryType = entity.SummaryTypeBrief
	}

	articles, err := s.Fetch.Search(ctx, topic)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("research %q: %w", topic, entity.ErrNoArticles)
	}

	indexed, err := s.Index.Index(ctx, topic, articles)
	if err != nil {
		return nil, fmt.Errorf("research %q: %w", topic, err)
	}

	summary := s.Summarizer.Summarize(ctx, summarizer.Request{
		Articles:    articles,
		Topic:       topic,
		SummaryType: summaryType,
	})

	if err := s.Profiles.AddHistory(topic, summaryType); err != nil {
		s.Logger.Warn("failed to record search history",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
	}

	s.Logger.Info("research complete",
		slog.String("topic", topic),
		slog.Int("articles", len(articles)),
		slog.Int("indexed", indexed),
		slog.Bool("summary_generated", summary.Generated))

	return &Result{
		Topic:       topic,
		Articles:    articles,
		Indexed:     indexed,
		Summary:     summary,
		SummaryType: summaryType,
	}, nil
}

// Similar returns documents previously indexed for the topic that are close
// to the query text. It degrades to an empty list when the topic was never
// researched.
func (s Service) Similar(ctx context.Context, topic, queryText string, k int) []repository.SearchResult {
	return s.Query.Search(ctx, topic, queryText, k)
}
