package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/domain/entity"
)

type fakeSource struct {
	articles []entity.Article
	err      error
	topics   []string
}

func (f *fakeSource) Fetch(_ context.Context, topic string) ([]entity.Article, error) {
	f.topics = append(f.topics, topic)
	if f.err != nil {
		return nil, f.err
	}
	return f.articles, nil
}

func (f *fakeSource) Name() string { return "fake" }

type fakeContentFetcher struct {
	content string
	err     error
	urls    []string
}

func (f *fakeContentFetcher) FetchContent(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func TestService_Search(t *testing.T) {
	source := &fakeSource{articles: []entity.Article{
		{Title: "a", Content: "full body"},
		{Title: "b", Content: "another body"},
	}}
	svc := NewService(source, nil, nil)

	got, err := svc.Search(context.Background(), "tech")
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Equal(t, []string{"tech"}, source.topics)
}

func TestService_Search_SourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("api down")}
	svc := NewService(source, nil, nil)

	got, err := svc.Search(context.Background(), "tech")

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "api down")
	assert.Contains(t, err.Error(), `"tech"`)
}

func TestService_Search_EnrichesTruncatedContent(t *testing.T) {
	source := &fakeSource{articles: []entity.Article{
		{Title: "cut off", URL: "https://example.com/a", Content: "Intro text... [+2048 chars]"},
		{Title: "complete", URL: "https://example.com/b", Content: "Nothing missing here."},
		{Title: "no url", Content: "Cut as well... [+99 chars]"},
	}}
	fetcher := &fakeContentFetcher{content: "The full recovered article body."}
	svc := NewService(source, fetcher, nil)

	got, err := svc.Search(context.Background(), "tech")
	require.NoError(t, err)

	assert.Equal(t, "The full recovered article body.", got[0].Content)
	assert.Equal(t, "Nothing missing here.", got[1].Content)
	assert.Equal(t, "Cut as well... [+99 chars]", got[2].Content)
	assert.Equal(t, []string{"https://example.com/a"}, fetcher.urls)
}

func TestService_Search_EnrichmentFailureKeepsTruncated(t *testing.T) {
	source := &fakeSource{articles: []entity.Article{
		{Title: "cut off", URL: "https://example.com/a", Content: "Intro... [+512 chars]"},
	}}
	fetcher := &fakeContentFetcher{err: errors.New("paywall")}
	svc := NewService(source, fetcher, nil)

	got, err := svc.Search(context.Background(), "tech")
	require.NoError(t, err)

	assert.Equal(t, "Intro... [+512 chars]", got[0].Content)
}

func TestTruncationMarker(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{content: "text [+1234 chars]", want: true},
		{content: "text [+1 chars]", want: true},
		{content: "text [+1234 chars]  ", want: true},
		{content: "[+1234 chars] text", want: false},
		{content: "plain text", want: false},
		{content: "", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, truncationMarker.MatchString(tt.content), tt.content)
	}
}
