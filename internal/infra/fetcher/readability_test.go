package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Quantum Breakthrough</title></head>
<body>
<article>
<h1>Quantum Breakthrough</h1>
<p>Researchers announced a new error correction scheme that keeps logical
qubits stable for minutes instead of milliseconds. The approach combines
surface codes with real time decoding on commodity hardware.</p>
<p>Independent labs have already reproduced the result on two different
superconducting platforms, suggesting the technique is not tied to a single
vendor stack.</p>
</article>
</body>
</html>`

func TestReadability_FetchContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, articleHTML)
	}))
	defer srv.Close()

	f := NewReadability(DefaultConfig())

	text, err := f.FetchContent(context.Background(), srv.URL+"/story")
	require.NoError(t, err)

	assert.Contains(t, text, "error correction scheme")
	assert.Contains(t, text, "superconducting platforms")
	assert.NotContains(t, text, "<p>")
}

func TestReadability_FetchContent_InvalidURL(t *testing.T) {
	f := NewReadability(DefaultConfig())

	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "no scheme", url: "example.com/story"},
		{name: "ftp scheme", url: "ftp://example.com/story"},
		{name: "garbage", url: "://not-a-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.FetchContent(context.Background(), tt.url)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestReadability_FetchContent_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewReadability(DefaultConfig())

	_, err := f.FetchContent(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestReadability_FetchContent_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><p>")
		fmt.Fprint(w, strings.Repeat("padding ", 1024))
		fmt.Fprint(w, "</p></body></html>")
	}))
	defer srv.Close()

	config := DefaultConfig()
	config.MaxBodySize = 512

	f := NewReadability(config)

	_, err := f.FetchContent(context.Background(), srv.URL+"/huge")
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestReadability_FetchContent_EmptyExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><head></head><body></body></html>")
	}))
	defer srv.Close()

	f := NewReadability(DefaultConfig())

	_, err := f.FetchContent(context.Background(), srv.URL+"/empty")
	assert.ErrorIs(t, err, ErrExtractionFailed)
}
