package repository

import "newsdigest/internal/domain/entity"

// PreferenceUpdate carries a shallow merge of preference fields. Nil fields
// are left unchanged.
type PreferenceUpdate struct {
	Interests   *[]string
	SummaryType *string
}

// ProfileRepository persists the user's preferences and bounded search
// history. Every mutating operation writes the whole document through to
// durable storage before returning.
type ProfileRepository interface {
	// Preferences returns the current preferences.
	Preferences() entity.Preferences

	// UpdatePreferences applies a shallow merge of the set fields.
	UpdatePreferences(update PreferenceUpdate) error

	// AddInterest adds a topic of interest. Adding an existing interest is a no-op.
	AddInterest(interest string) error

	// RemoveInterest removes a topic of interest. Removing an absent interest is a no-op.
	RemoveInterest(interest string) error

	// AddHistory appends a search record and truncates the history to the
	// most recent entity.MaxHistoryEntries entries.
	AddHistory(topic, summaryType string) error

	// History returns up to limit entries sorted by timestamp descending.
	History(limit int) []entity.HistoryEntry

	// ClearHistory resets the history to an empty sequence.
	ClearHistory() error
}
