package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/repository"
)

type fakeCollection struct {
	results   []repository.SearchResult
	searchErr error
	lastQuery string
	lastK     int
}

func (c *fakeCollection) Add(context.Context, []string, []map[string]string) error {
	return nil
}

func (c *fakeCollection) SimilaritySearch(_ context.Context, query string, k int) ([]repository.SearchResult, error) {
	c.lastQuery = query
	c.lastK = k
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	return c.results, nil
}

type fakeStore struct {
	collections map[string]*fakeCollection
	loadErr     error
}

func (s *fakeStore) OpenOrCreate(_ context.Context, id string) (repository.Collection, error) {
	return s.collections[id], nil
}

func (s *fakeStore) Load(_ context.Context, id string) (repository.Collection, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	c, ok := s.collections[id]
	if !ok {
		return nil, repository.ErrCollectionNotFound
	}
	return c, nil
}

func (s *fakeStore) Name() string { return "fake" }

func TestService_Search(t *testing.T) {
	collection := &fakeCollection{results: []repository.SearchResult{
		{Content: "doc a", Score: 0.1},
		{Content: "doc b", Score: 0.4},
	}}
	store := &fakeStore{collections: map[string]*fakeCollection{"tech": collection}}
	svc := NewService(store, nil)

	got := svc.Search(context.Background(), "tech", "latest chips", 2)

	require.Len(t, got, 2)
	assert.Equal(t, "doc a", got[0].Content)
	assert.Equal(t, "latest chips", collection.lastQuery)
	assert.Equal(t, 2, collection.lastK)
}

func TestService_Search_SanitizesTopic(t *testing.T) {
	collection := &fakeCollection{results: []repository.SearchResult{{Content: "hit"}}}
	store := &fakeStore{collections: map[string]*fakeCollection{"Quantum_Computing": collection}}
	svc := NewService(store, nil)

	got := svc.Search(context.Background(), "Quantum Computing!", "qubits", 1)

	require.Len(t, got, 1)
}

func TestService_Search_NeverIndexedDegradesToEmpty(t *testing.T) {
	store := &fakeStore{collections: map[string]*fakeCollection{}}
	svc := NewService(store, nil)

	got := svc.Search(context.Background(), "unknown", "anything", 3)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_Search_BackendFailureDegradesToEmpty(t *testing.T) {
	collection := &fakeCollection{searchErr: errors.New("index corrupt")}
	store := &fakeStore{collections: map[string]*fakeCollection{"tech": collection}}
	svc := NewService(store, nil)

	got := svc.Search(context.Background(), "tech", "anything", 3)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_Search_DefaultK(t *testing.T) {
	collection := &fakeCollection{}
	store := &fakeStore{collections: map[string]*fakeCollection{"tech": collection}}
	svc := NewService(store, nil)

	got := svc.Search(context.Background(), "tech", "anything", 0)

	assert.NotNil(t, got)
	assert.Equal(t, DefaultK, collection.lastK)
}
