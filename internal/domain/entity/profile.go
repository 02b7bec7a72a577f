package entity

// Summary type settings selectable by the user.
const (
	SummaryTypeBrief    = "brief"
	SummaryTypeDetailed = "detailed"
)

// MaxHistoryEntries is the number of history entries retained per profile.
// Older entries are dropped when the cap is exceeded.
const MaxHistoryEntries = 20

// Preferences holds the user's saved interests and summary style.
// Interests are insertion-ordered and deduplicated.
type Preferences struct {
	Interests   []string `json:"interests"`
	SummaryType string   `json:"summary_type"`
}

// HistoryEntry records a single past search.
type HistoryEntry struct {
	Topic       string `json:"topic"`
	SummaryType string `json:"summary_type"`
	Timestamp   string `json:"timestamp"`
}

// UserProfile is the whole persisted user document: preferences plus a
// bounded search history.
type UserProfile struct {
	Preferences Preferences    `json:"preferences"`
	History     []HistoryEntry `json:"history"`
}

// DefaultProfile returns the profile used when no stored document exists or
// the stored document cannot be parsed.
func DefaultProfile() UserProfile {
	return UserProfile{
		Preferences: Preferences{
			Interests:   []string{},
			SummaryType: SummaryTypeBrief,
		},
		History: []HistoryEntry{},
	}
}

// ValidSummaryType reports whether s is one of the supported summary types.
func ValidSummaryType(s string) bool {
	return s == SummaryTypeBrief || s == SummaryTypeDetailed
}
