// Package index commits fetched articles to a topic-scoped vector collection.
package index

import (
	"context"
	"fmt"
	"log/slog"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/observability/metrics"
	"newsdigest/internal/repository"
	"newsdigest/internal/topic"
)

// Service provides the article indexing use case.
type Service struct {
	Store  repository.VectorStore
	Logger *slog.Logger
}

// NewService creates an index Service backed by the given vector store.
func NewService(store repository.VectorStore, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{Store: store, Logger: logger}
}

// Index converts the articles into documents and appends them to the
// collection for the topic, creating it on first use. Articles with neither
// title nor content are skipped. An all-empty batch is a logged no-op, not an
// error. Returns the number of documents stored.
func (s Service) Index(ctx context.Context, rawTopic string, articles []entity.Article) (int, error) {
	collectionID := topic.Sanitize(rawTopic)

	texts := make([]string, 0, len(articles))
	metadatas := make([]map[string]string, 0, len(articles))
	for _, a := range articles {
		doc, ok := entity.NewDocument(a, collectionID)
		if !ok {
			continue
		}
		texts = append(texts, doc.Text)
		metadatas = append(metadatas, doc.Metadata)
	}

	if len(texts) == 0 {
		s.Logger.Warn("no indexable articles, skipping batch",
			slog.String("topic", rawTopic),
			slog.String("collection", collectionID),
			slog.Int("received", len(articles)))
		metrics.RecordEmptyIndexBatch()
		return 0, nil
	}

	collection, err := s.Store.OpenOrCreate(ctx, collectionID)
	if err != nil {
		return 0, fmt.Errorf("open collection %q: %w", collectionID, err)
	}

	if err := collection.Add(ctx, texts, metadatas); err != nil {
		return 0, fmt.Errorf("add documents to %q: %w", collectionID, err)
	}

	metrics.RecordDocumentsIndexed(s.Store.Name(), len(texts))
	s.Logger.Info("indexed articles",
		slog.String("collection", collectionID),
		slog.String("backend", s.Store.Name()),
		slog.Int("stored", len(texts)),
		slog.Int("skipped", len(articles)-len(texts)))

	return len(texts), nil
}
