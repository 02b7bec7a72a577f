// Package jsonfile provides a JSON-file-backed implementation of the
// profile repository. The whole document is rewritten after every mutation;
// a corrupt or missing file is silently replaced by the default profile.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"newsdigest/internal/domain/entity"
	"newsdigest/internal/repository"
)

// ProfileRepo implements repository.ProfileRepository on a single JSON file.
// The mutex guards the in-memory copy within one process; concurrent
// processes sharing the same path race with last-writer-wins semantics.
type ProfileRepo struct {
	path string

	mu      sync.Mutex
	profile entity.UserProfile

	now func() time.Time
}

// timestampLayout is RFC 3339 with fixed-width fractional seconds, so that
// UTC timestamps compare correctly as strings.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// NewProfileRepo loads the profile from path, substituting the default
// document when the file is absent or unparsable. Construction never fails
// on corrupt data.
func NewProfileRepo(path string) *ProfileRepo {
	repo := &ProfileRepo{
		path: path,
		now:  time.Now,
	}
	repo.profile = repo.load()
	return repo
}

func (r *ProfileRepo) load() entity.UserProfile {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read profile file, using defaults",
				slog.String("path", r.path),
				slog.Any("error", err))
		}
		return entity.DefaultProfile()
	}

	var profile entity.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		slog.Warn("profile file is corrupt, using defaults",
			slog.String("path", r.path),
			slog.Any("error", err))
		return entity.DefaultProfile()
	}

	if profile.Preferences.Interests == nil {
		profile.Preferences.Interests = []string{}
	}
	if profile.Preferences.SummaryType == "" {
		profile.Preferences.SummaryType = entity.SummaryTypeBrief
	}
	if profile.History == nil {
		profile.History = []entity.HistoryEntry{}
	}

	return profile
}

// save writes the whole document to a temp file and renames it into place.
// Rename is atomic on POSIX filesystems, so readers never observe a
// partially written document.
func (r *ProfileRepo) save() error {
	data, err := json.MarshalIndent(r.profile, "", "  ")
	if err != nil {
		return fmt.Errorf("save: marshal: %w", err)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".profile-*.json")
	if err != nil {
		return fmt.Errorf("save: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save: close: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("save: rename: %w", err)
	}

	return nil
}

// Preferences returns a copy of the current preferences.
func (r *ProfileRepo) Preferences() entity.Preferences {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefs := r.profile.Preferences
	prefs.Interests = slices.Clone(prefs.Interests)
	return prefs
}

// UpdatePreferences applies a shallow merge of the set fields and persists.
func (r *ProfileRepo) UpdatePreferences(update repository.PreferenceUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if update.Interests != nil {
		r.profile.Preferences.Interests = slices.Clone(*update.Interests)
	}
	if update.SummaryType != nil {
		if !entity.ValidSummaryType(*update.SummaryType) {
			return fmt.Errorf("UpdatePreferences: %w: summary type %q", entity.ErrInvalidInput, *update.SummaryType)
		}
		r.profile.Preferences.SummaryType = *update.SummaryType
	}

	return r.save()
}

// AddInterest adds a topic of interest; adding an existing one is a no-op.
func (r *ProfileRepo) AddInterest(interest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.profile.Preferences.Interests, interest) {
		return nil
	}

	r.profile.Preferences.Interests = append(r.profile.Preferences.Interests, interest)
	return r.save()
}

// RemoveInterest removes a topic of interest; removing an absent one is a no-op.
func (r *ProfileRepo) RemoveInterest(interest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.Index(r.profile.Preferences.Interests, interest)
	if idx < 0 {
		return nil
	}

	r.profile.Preferences.Interests = slices.Delete(r.profile.Preferences.Interests, idx, idx+1)
	return r.save()
}

// AddHistory appends a search record and keeps only the most recent entries.
func (r *ProfileRepo) AddHistory(topic, summaryType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profile.History = append(r.profile.History, entity.HistoryEntry{
		Topic:       topic,
		SummaryType: summaryType,
		Timestamp:   r.now().UTC().Format(timestampLayout),
	})

	if excess := len(r.profile.History) - entity.MaxHistoryEntries; excess > 0 {
		r.profile.History = slices.Clone(r.profile.History[excess:])
	}

	return r.save()
}

// History returns up to limit entries sorted by timestamp descending.
func (r *ProfileRepo) History(limit int) []entity.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := slices.Clone(r.profile.History)

	// Fixed-width UTC timestamps sort correctly as strings.
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp > history[j].Timestamp
	})

	if limit >= 0 && limit < len(history) {
		history = history[:limit]
	}

	return history
}

// ClearHistory resets the history to an empty sequence and persists.
func (r *ProfileRepo) ClearHistory() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profile.History = []entity.HistoryEntry{}
	return r.save()
}
