package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbeddingServer(t *testing.T, vectors [][]float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, len(vectors))

		type datum struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]datum, len(vectors))
		for i, v := range vectors {
			data[i] = datum{Object: "embedding", Index: i, Embedding: v}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  "text-embedding-3-small",
		})
	}))
}

func TestOpenAI_EmbedDocuments(t *testing.T) {
	srv := newEmbeddingServer(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}})
	defer srv.Close()

	e := NewOpenAIWithBaseURL("test-key", "text-embedding-3-small", srv.URL+"/v1")

	vectors, err := e.EmbedDocuments(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vectors[0])
	assert.Equal(t, []float32{0.3, 0.4}, vectors[1])
}

func TestOpenAI_EmbedDocuments_Empty(t *testing.T) {
	e := NewOpenAI("test-key", "text-embedding-3-small")

	vectors, err := e.EmbedDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestOpenAI_EmbedQuery(t *testing.T) {
	srv := newEmbeddingServer(t, [][]float32{{0.5, 0.6}})
	defer srv.Close()

	e := NewOpenAIWithBaseURL("test-key", "text-embedding-3-small", srv.URL+"/v1")

	vector, err := e.EmbedQuery(context.Background(), "query text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.6}, vector)
}
