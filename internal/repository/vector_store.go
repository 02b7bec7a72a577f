// Package repository defines the persistence interfaces of the application.
// Implementations live under internal/infra.
package repository

import (
	"context"
	"errors"
)

// ErrCollectionNotFound indicates a load of a collection that was never
// persisted under the given identifier.
var ErrCollectionNotFound = errors.New("collection not found")

// SearchResult is a single similarity search hit. Score is the backend's
// own distance value and is passed through unmodified; its orientation
// (lower or higher is better) depends on the backend metric.
type SearchResult struct {
	Content  string
	Metadata map[string]string
	Score    float64
}

// Collection is a topic-scoped set of indexed documents.
type Collection interface {
	// Add appends documents to the collection in a single batch.
	// texts and metadatas must have equal length. Previously indexed
	// content is not deduplicated: adding the same text twice stores it twice.
	Add(ctx context.Context, texts []string, metadatas []map[string]string) error

	// SimilaritySearch returns at most k results ordered by the backend's
	// notion of decreasing similarity to the query text.
	SimilaritySearch(ctx context.Context, query string, k int) ([]SearchResult, error)
}

// VectorStore manages topic-scoped collections on durable storage.
type VectorStore interface {
	// OpenOrCreate opens the collection for the given sanitized identifier,
	// creating it if it does not exist yet.
	OpenOrCreate(ctx context.Context, collectionID string) (Collection, error)

	// Load opens an existing collection from durable storage. It returns an
	// error when no collection has been persisted under the identifier.
	Load(ctx context.Context, collectionID string) (Collection, error)

	// Name returns the backend name used for configuration and metrics.
	Name() string
}
