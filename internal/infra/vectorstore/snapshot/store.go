// Package snapshot implements a vector store backend that persists each
// collection as a single JSON snapshot under a per-collection directory.
// Every operation loads the snapshot from disk, works on it in memory and,
// for writes, saves it back with an atomic rename. Search is a brute-force
// cosine distance scan, which is adequate for per-topic collections of at
// most a few hundred documents.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"newsdigest/internal/infra/embedder"
	"newsdigest/internal/repository"
)

const snapshotFile = "documents.json"

// Store implements repository.VectorStore on local disk.
type Store struct {
	dataDir  string
	embedder embedder.Embedder
}

// New creates a snapshot store rooted at dataDir. The directory is created
// lazily on the first write.
func New(dataDir string, emb embedder.Embedder) *Store {
	return &Store{dataDir: dataDir, embedder: emb}
}

// Name returns the backend name.
func (s *Store) Name() string { return "snapshot" }

// OpenOrCreate opens the collection directory, creating it if absent.
func (s *Store) OpenOrCreate(_ context.Context, collectionID string) (repository.Collection, error) {
	dir := filepath.Join(s.dataDir, collectionID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("OpenOrCreate: %w", err)
	}
	return &collection{dir: dir, embedder: s.embedder}, nil
}

// Load opens an existing collection. It fails with ErrCollectionNotFound
// when no snapshot has been persisted under the identifier.
func (s *Store) Load(_ context.Context, collectionID string) (repository.Collection, error) {
	dir := filepath.Join(s.dataDir, collectionID)
	if _, err := os.Stat(filepath.Join(dir, snapshotFile)); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("Load: %w: %s", repository.ErrCollectionNotFound, collectionID)
		}
		return nil, fmt.Errorf("Load: %w", err)
	}
	return &collection{dir: dir, embedder: s.embedder}, nil
}

// record is one persisted document with its embedding vector.
type record struct {
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata"`
	Embedding []float32         `json:"embedding"`
}

type collection struct {
	dir      string
	embedder embedder.Embedder
}

func (c *collection) snapshotPath() string {
	return filepath.Join(c.dir, snapshotFile)
}

func (c *collection) read() ([]record, error) {
	data, err := os.ReadFile(c.snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []record{}, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return records, nil
}

func (c *collection) write(records []record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".documents-*.json")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := os.Rename(tmpName, c.snapshotPath()); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Add embeds the texts and appends them to the snapshot. No deduplication:
// adding the same text twice stores two records.
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

	records, err := c.read()
	if err != nil {
		return fmt.Errorf("Add: %w", err)
	}

	for i, text := range texts {
		records = append(records, record{
			Content:   text,
			Metadata:  metadatas[i],
			Embedding: vectors[i],
		})
	}

	if err := c.write(records); err != nil {
		return fmt.Errorf("Add: %w", err)
	}
	return nil
}

// SimilaritySearch loads the snapshot and scans it for the k nearest
// records by cosine distance (lower score = more similar, matching the
// pgvector backend's <=> operator).
func (c *collection) SimilaritySearch(ctx context.Context, query string, k int) ([]repository.SearchResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("SimilaritySearch: k must be >= 1, got %d", k)
	}

	queryVec, err := c.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("SimilaritySearch: %w", err)
	}

	records, err := c.read()
	if err != nil {
		return nil, fmt.Errorf("SimilaritySearch: %w", err)
	}

	results := make([]repository.SearchResult, 0, len(records))
	for _, rec := range records {
		results = append(results, repository.SearchResult{
			Content:  rec.Content,
			Metadata: rec.Metadata,
			Score:    cosineDistance(queryVec, rec.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// cosineDistance returns 1 - cosine similarity. Mismatched or zero-norm
// vectors score as maximally distant rather than erroring.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
