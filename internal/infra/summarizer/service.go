package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/observability/metrics"
)

// Limits on how much article material goes into a prompt.
const (
	maxBriefTitles      = 5
	maxDetailedArticles = 3
	maxDescriptionChars = 150
)

// Service composes a Generator with prompt templates, a relevance heuristic,
// and the titles-based fallback. It implements Summarizer.
type Service struct {
	generator Generator
	relevance RelevanceHeuristic
	logger    *slog.Logger
}

// NewService creates a summarization service. A nil heuristic defaults to
// AppendTopicNote.
func NewService(generator Generator, relevance RelevanceHeuristic, logger *slog.Logger) *Service {
	if relevance == nil {
		relevance = AppendTopicNote
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		generator: generator,
		relevance: relevance,
		logger:    logger,
	}
}

// Summarize produces a digest of the articles. Generation failures degrade to
// a fallback built from article titles; the result always reports which path
// produced it.
func (s *Service) Summarize(ctx context.Context, req Request) Summary {
	if len(req.Articles) == 0 {
		return Summary{
			Text:           "No articles to summarize.",
			Generated:      false,
			FallbackReason: "no articles",
		}
	}

	prompt := s.buildPrompt(req)

	start := time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	duration := time.Since(start)

	if err != nil {
		s.logger.Warn("generation failed, using titles fallback",
			slog.String("topic", req.Topic),
			slog.String("summary_type", req.SummaryType),
			slog.String("error", err.Error()))
		metrics.RecordSummary(false, duration)
		return Summary{
			Text:           fallbackText(req.Topic, req.Articles),
			Generated:      false,
			FallbackReason: err.Error(),
		}
	}

	metrics.RecordSummary(true, duration)
	return Summary{
		Text:      s.relevance(req.Topic, strings.TrimSpace(text)),
		Generated: true,
	}
}

func (s *Service) buildPrompt(req Request) string {
	if req.SummaryType == entity.SummaryTypeDetailed {
		return buildDetailedPrompt(req.Topic, req.Articles)
	}
	return buildBriefPrompt(req.Topic, req.Articles)
}

func buildBriefPrompt(topic string, articles []entity.Article) string {
	var titles []string
	for _, a := range articles {
		if a.Title != "" {
			titles = append(titles, a.Title)
		}
		if len(titles) == maxBriefTitles {
			break
		}
	}

	return fmt.Sprintf(
		"Summarize these news headlines in 1-2 sentences, focusing specifically on '%s':\n\n%s\n\nBrief summary:",
		topic, strings.Join(titles, " | "))
}

func buildDetailedPrompt(topic string, articles []entity.Article) string {
	var items []string
	for i, a := range articles {
		if i == maxDetailedArticles {
			break
		}
		if a.Title == "" {
			continue
		}
		items = append(items, fmt.Sprintf("%d. %s", len(items)+1, a.Title))
		if a.Description != "" {
			desc := a.Description
			if len(desc) > maxDescriptionChars {
				desc = desc[:maxDescriptionChars] + "..."
			}
			items = append(items, "   "+desc)
		}
	}

	return fmt.Sprintf(
		"Write a comprehensive paragraph summarizing these news items, focusing specifically on '%s':\n\n%s\n\nDetailed summary:",
		topic, strings.Join(items, "\n"))
}
