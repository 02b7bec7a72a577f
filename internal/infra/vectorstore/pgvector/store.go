// Package pgvector implements a vector store backend on PostgreSQL with the
// pgvector extension. Collections share one table keyed by a collection
// column; similarity search uses the cosine distance operator (<=>).
package pgvector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	pgv "github.com/pgvector/pgvector-go"

	"newsdigest/internal/infra/embedder"
	"newsdigest/internal/repository"
)

// DefaultSearchTimeout is the default timeout for similarity search queries.
const DefaultSearchTimeout = 5 * time.Second

// Store implements repository.VectorStore on PostgreSQL.
type Store struct {
	db       *sql.DB
	embedder embedder.Embedder
}

// New creates a pgvector-backed store on the given connection pool.
func New(db *sql.DB, emb embedder.Embedder) *Store {
	return &Store{db: db, embedder: emb}
}

// Name returns the backend name.
func (s *Store) Name() string { return "pgvector" }

// Migrate creates the documents table and the pgvector extension.
// Call once at startup; every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	const ddl = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS documents (
	id BIGSERIAL PRIMARY KEY,
	collection TEXT NOT NULL,
	content TEXT NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}',
	embedding vector NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);`

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("Migrate: %w", err)
	}
	return nil
}

// OpenOrCreate returns the collection handle. Rows are created lazily on
// the first Add, so opening is a no-op beyond handing out the handle.
func (s *Store) OpenOrCreate(_ context.Context, collectionID string) (repository.Collection, error) {
	return &collection{db: s.db, embedder: s.embedder, id: collectionID}, nil
}

// Load returns the collection handle if at least one document has been
// persisted under the identifier.
func (s *Store) Load(ctx context.Context, collectionID string) (repository.Collection, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM documents WHERE collection = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, collectionID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("Load: %w: %s", repository.ErrCollectionNotFound, collectionID)
	}

	return &collection{db: s.db, embedder: s.embedder, id: collectionID}, nil
}

type collection struct {
	db       *sql.DB
	embedder embedder.Embedder
	id       string
}

// Add embeds the texts and inserts them in a single transaction.
// No deduplication against previously inserted rows.
func (c *collection) Add(ctx context.Context, texts []string, metadatas []map[string]string) error {
	if len(texts) != len(metadatas) {
		return fmt.Errorf("Add: %d texts but %d metadatas", len(texts), len(metadatas))
	}
	if len(texts) == 0 {
		return nil
	}

	vectors, err := c.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("Add: %w", err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Add: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insert = `
INSERT INTO documents (collection, content, metadata, embedding)
VALUES ($1, $2, $3, $4)`

	for i, text := range texts {
		metadata, err := json.Marshal(metadatas[i])
		if err != nil {
			return fmt.Errorf("Add: marshal metadata: %w", err)
		}

		if _, err := tx.ExecContext(ctx, insert, c.id, text, metadata, pgv.NewVector(vectors[i])); err != nil {
			return fmt.Errorf("Add: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Add: commit: %w", err)
	}
	return nil
}

// SimilaritySearch embeds the query and delegates ranking to the cosine
// distance operator. Lower score = more similar.
func (c *collection) SimilaritySearch(ctx context.Context, query string, k int) ([]repository.SearchResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("SimilaritySearch: k must be >= 1, got %d", k)
	}

	searchCtx, cancel := context.WithTimeout(ctx, DefaultSearchTimeout)
	defer cancel()

	queryVec, err := c.embedder.EmbedQuery(searchCtx, query)
	if err != nil {
		return nil, fmt.Errorf("SimilaritySearch: %w", err)
	}

	const sqlQuery = `
SELECT content, metadata, embedding <=> $1 AS score
FROM documents
WHERE collection = $2
ORDER BY embedding <=> $1
LIMIT $3`

	rows, err := c.db.QueryContext(searchCtx, sqlQuery, pgv.NewVector(queryVec), c.id, k)
	if err != nil {
		return nil, fmt.Errorf("SimilaritySearch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]repository.SearchResult, 0, k)
	for rows.Next() {
		var (
			result   repository.SearchResult
			metadata []byte
		)
		if err := rows.Scan(&result.Content, &metadata, &result.Score); err != nil {
			return nil, fmt.Errorf("SimilaritySearch: Scan: %w", err)
		}
		if err := json.Unmarshal(metadata, &result.Metadata); err != nil {
			return nil, fmt.Errorf("SimilaritySearch: metadata: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("SimilaritySearch: %w", err)
	}

	return results, nil
}
