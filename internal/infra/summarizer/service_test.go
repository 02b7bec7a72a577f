package summarizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/domain/entity"
)

type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
	calls      int
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func sampleArticles() []entity.Article {
	return []entity.Article{
		{Title: "Quantum chip hits new record", Description: "A 1000 qubit milestone was reached this week."},
		{Title: "Error correction goes mainstream", Description: "Surface codes land in production systems."},
		{Title: "Startups race for quantum advantage"},
	}
}

func TestService_Summarize_Generated(t *testing.T) {
	gen := &fakeGenerator{response: "Quantum computing made major strides this week."}
	svc := NewService(gen, nil, nil)

	summary := svc.Summarize(context.Background(), Request{
		Articles:    sampleArticles(),
		Topic:       "quantum computing",
		SummaryType: entity.SummaryTypeBrief,
	})

	assert.True(t, summary.Generated)
	assert.Empty(t, summary.FallbackReason)
	assert.Equal(t, "Quantum computing made major strides this week.", summary.Text)
}

func TestService_Summarize_AppendsTopicNote(t *testing.T) {
	gen := &fakeGenerator{response: "Several hardware milestones were announced."}
	svc := NewService(gen, nil, nil)

	summary := svc.Summarize(context.Background(), Request{
		Articles:    sampleArticles(),
		Topic:       "quantum computing",
		SummaryType: entity.SummaryTypeBrief,
	})

	assert.True(t, summary.Generated)
	assert.Contains(t, summary.Text, "Several hardware milestones were announced.")
	assert.Contains(t, summary.Text, "Note: this summary is based on articles about quantum computing.")
}

func TestService_Summarize_FallbackOnError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("api timeout")}
	svc := NewService(gen, nil, nil)

	summary := svc.Summarize(context.Background(), Request{
		Articles:    sampleArticles(),
		Topic:       "quantum computing",
		SummaryType: entity.SummaryTypeDetailed,
	})

	assert.False(t, summary.Generated)
	assert.Equal(t, "api timeout", summary.FallbackReason)
	assert.Equal(t,
		"Recent news about quantum computing: Quantum chip hits new record; Error correction goes mainstream; Startups race for quantum advantage.",
		summary.Text)
}

func TestService_Summarize_NoArticles(t *testing.T) {
	gen := &fakeGenerator{response: "should not be called"}
	svc := NewService(gen, nil, nil)

	summary := svc.Summarize(context.Background(), Request{Topic: "anything"})

	assert.False(t, summary.Generated)
	assert.Equal(t, "No articles to summarize.", summary.Text)
	assert.Equal(t, "no articles", summary.FallbackReason)
	assert.Zero(t, gen.calls)
}

func TestService_Summarize_UnconfiguredGenerator(t *testing.T) {
	svc := NewService(NewUnconfigured(), nil, nil)

	summary := svc.Summarize(context.Background(), Request{
		Articles:    sampleArticles(),
		Topic:       "quantum computing",
		SummaryType: entity.SummaryTypeBrief,
	})

	assert.False(t, summary.Generated)
	assert.ErrorContains(t, errors.New(summary.FallbackReason), "not configured")
}

func TestService_BuildPrompt_Brief(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	svc := NewService(gen, KeepVerbatim, nil)

	svc.Summarize(context.Background(), Request{
		Articles:    sampleArticles(),
		Topic:       "quantum computing",
		SummaryType: entity.SummaryTypeBrief,
	})

	require.NotEmpty(t, gen.lastPrompt)
	assert.Contains(t, gen.lastPrompt, "1-2 sentences")
	assert.Contains(t, gen.lastPrompt, "'quantum computing'")
	assert.Contains(t, gen.lastPrompt, "Quantum chip hits new record | Error correction goes mainstream")
	assert.NotContains(t, gen.lastPrompt, "1000 qubit milestone")
}

func TestService_BuildPrompt_Detailed(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	svc := NewService(gen, KeepVerbatim, nil)

	svc.Summarize(context.Background(), Request{
		Articles:    sampleArticles(),
		Topic:       "quantum computing",
		SummaryType: entity.SummaryTypeDetailed,
	})

	require.NotEmpty(t, gen.lastPrompt)
	assert.Contains(t, gen.lastPrompt, "comprehensive paragraph")
	assert.Contains(t, gen.lastPrompt, "1. Quantum chip hits new record")
	assert.Contains(t, gen.lastPrompt, "A 1000 qubit milestone was reached this week.")
	assert.Contains(t, gen.lastPrompt, "3. Startups race for quantum advantage")
}

func TestAppendTopicNote(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		text  string
		want  string
	}{
		{
			name:  "topic already mentioned",
			topic: "Climate",
			text:  "New climate policies were announced.",
			want:  "New climate policies were announced.",
		},
		{
			name:  "topic missing",
			topic: "fusion",
			text:  "Energy news this week.",
			want:  "Energy news this week.\n\nNote: this summary is based on articles about fusion.",
		},
		{
			name:  "empty topic",
			topic: "",
			text:  "Anything.",
			want:  "Anything.",
		},
		{
			name:  "empty text",
			topic: "fusion",
			text:  "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AppendTopicNote(tt.topic, tt.text))
		})
	}
}

func TestFallbackText(t *testing.T) {
	t.Run("caps at three titles", func(t *testing.T) {
		articles := []entity.Article{
			{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"},
		}
		assert.Equal(t, "Recent news about x: a; b; c.", fallbackText("x", articles))
	})

	t.Run("skips empty titles", func(t *testing.T) {
		articles := []entity.Article{{Title: ""}, {Title: "b"}}
		assert.Equal(t, "Recent news about x: b.", fallbackText("x", articles))
	})

	t.Run("no titles", func(t *testing.T) {
		assert.Equal(t, "Recent news about x.", fallbackText("x", []entity.Article{{Content: "c"}}))
	})

	t.Run("empty topic", func(t *testing.T) {
		assert.Equal(t, "Recent news about this topic.", fallbackText("", nil))
	})
}
