// Package query runs similarity searches against previously indexed topics.
package query

import (
	"context"
	"log/slog"
	"time"

	"newsdigest/internal/observability/metrics"
	"newsdigest/internal/repository"
	"newsdigest/internal/topic"
)

// DefaultK is the number of results returned when the caller does not
// specify one.
const DefaultK = 3

// Service provides the similarity search use case. Read failures degrade to
// an empty result list: a topic that was never indexed, a corrupt snapshot,
// or a backend outage all produce zero results plus a diagnostic log, never
// an error.
type Service struct {
	Store  repository.VectorStore
	Logger *slog.Logger
}

// NewService creates a query Service backed by the given vector store.
func NewService(store repository.VectorStore, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{Store: store, Logger: logger}
}

// Search returns up to k documents from the topic's collection ordered by
// decreasing similarity to the query text. The returned slice is non-nil
// even when empty. k values below 1 fall back to DefaultK.
func (s Service) Search(ctx context.Context, rawTopic, queryText string, k int) []repository.SearchResult {
	if k < 1 {
		k = DefaultK
	}
	collectionID := topic.Sanitize(rawTopic)

	start := time.Now()

	collection, err := s.Store.Load(ctx, collectionID)
	if err != nil {
		s.Logger.Warn("collection unavailable, returning empty results",
			slog.String("topic", rawTopic),
			slog.String("collection", collectionID),
			slog.String("error", err.Error()))
		metrics.RecordQuery(true, time.Since(start))
		return []repository.SearchResult{}
	}

	results, err := collection.SimilaritySearch(ctx, queryText, k)
	if err != nil {
		s.Logger.Warn("similarity search failed, returning empty results",
			slog.String("collection", collectionID),
			slog.String("error", err.Error()))
		metrics.RecordQuery(true, time.Since(start))
		return []repository.SearchResult{}
	}

	metrics.RecordQuery(false, time.Since(start))
	if results == nil {
		results = []repository.SearchResult{}
	}
	return results
}
