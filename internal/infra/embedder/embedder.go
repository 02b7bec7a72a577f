// Package embedder computes vector embeddings for document and query text.
package embedder

import "context"

// Embedder converts text into embedding vectors. Implementations call an
// external embedding provider; both vector store backends embed through
// this interface so that index and query vectors come from the same model.
type Embedder interface {
	// EmbedDocuments embeds a batch of document texts, one vector per text.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
