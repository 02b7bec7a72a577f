// Package summarizer produces short AI-generated digests of news articles.
// It includes a Claude (Anthropic) adapter with reliability patterns and a
// deterministic titles-based fallback used whenever generation fails.
package summarizer

import (
	"context"

	"newsdigest/internal/domain/entity"
)

// Request describes one summarization call.
type Request struct {
	// Articles to summarize. Must be non-empty for a generated summary.
	Articles []entity.Article

	// Topic is the search topic the summary should focus on.
	Topic string

	// SummaryType selects the output shape: entity.SummaryTypeBrief
	// (1-2 sentences) or entity.SummaryTypeDetailed (a paragraph).
	SummaryType string
}

// Summary is the result of a summarization attempt. Generation failures are
// represented explicitly rather than by substituting a silent stand-in text:
// Generated reports whether Text came from the model, and FallbackReason
// records why a fallback was used.
type Summary struct {
	Text           string
	Generated      bool
	FallbackReason string
}

// Summarizer turns a batch of articles into a digest. Implementations never
// return an error: failures degrade to a fallback Summary with Generated=false.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) Summary
}

// Generator is the raw text-generation collaborator behind the Summarizer.
// Adapters for hosted models implement this single method.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
