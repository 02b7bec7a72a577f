// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article, Document and UserProfile,
// along with their validation rules and domain-specific errors.
package entity

import "fmt"

// Article represents a normalized news article retrieved from an external source.
// Author and Description may be empty; Title and Content drive inclusion decisions.
type Article struct {
	Title       string
	Author      string
	Source      string
	URL         string
	PublishedAt string
	Content     string
	Description string
}

// HasContent reports whether the article carries enough text to be worth
// indexing or summarizing. Articles with neither a title nor content are
// discarded before they enter the pipeline.
func (a Article) HasContent() bool {
	return a.Title != "" || a.Content != ""
}

// Document is the indexable form of an article: a single text block plus the
// metadata stored alongside it in a vector collection.
type Document struct {
	Text     string
	Metadata map[string]string
}

// NewDocument converts an article into a Document scoped to the given
// sanitized topic identifier. It returns false when the article has neither
// title nor content, in which case the document must be skipped.
func NewDocument(article Article, topicID string) (Document, bool) {
	if !article.HasContent() {
		return Document{}, false
	}

	text := fmt.Sprintf("Title: %s\n\nDescription: %s\n\nContent: %s",
		article.Title, article.Description, article.Content)

	return Document{
		Text: text,
		Metadata: map[string]string{
			"title":        article.Title,
			"url":          article.URL,
			"source":       article.Source,
			"published_at": article.PublishedAt,
			"topic":        topicID,
		},
	}, true
}
