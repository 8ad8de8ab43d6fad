// Package watchlist persists the user's saved movies. The list lives in one
// JSON document behind an afero filesystem handle; the store is the only
// writer of that document. Membership is toggled: adding an identifier that
// is already present removes it instead.
package watchlist

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Entry is the subset of a catalog record needed to render a watchlist row.
type Entry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Year   string `json:"year,omitempty"`
	Poster string `json:"poster,omitempty"`
}

// Store reads and writes the persisted watchlist document.
type Store struct {
	fs     afero.Fs
	path   string
	logger zerolog.Logger
}

// NewStore creates a store over the given filesystem and document path.
func NewStore(fs afero.Fs, path string, logger zerolog.Logger) *Store {
	return &Store{
		fs:     fs,
		path:   path,
		logger: logger.With().Str("component", "watchlist").Logger(),
	}
}

// Load reads the persisted list. Missing or corrupt data yields an empty
// list; a parse failure is never propagated to the caller.
func (s *Store) Load() []Entry {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return []Entry{}
	}

	var list []Entry
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Discarding unreadable watchlist data")
		return []Entry{}
	}

	return list
}

// Save serializes the full list and writes it through. In-memory state stays
// authoritative for the session if the write fails.
func (s *Store) Save(list []Entry) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create watchlist directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize watchlist: %w", err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write watchlist: %w", err)
	}

	s.logger.Debug().Int("entries", len(list)).Str("path", s.path).Msg("Watchlist saved")
	return nil
}

// Toggle flips entry's membership in list and returns the new list. The
// input is not modified. Removal preserves the order of the remaining
// entries; an added entry goes to the end, so a re-added entry does not
// regain its old position.
func Toggle(list []Entry, entry Entry) []Entry {
	result := make([]Entry, 0, len(list)+1)

	removed := false
	for _, e := range list {
		if e.ID == entry.ID {
			removed = true
			continue
		}
		result = append(result, e)
	}

	if !removed {
		result = append(result, entry)
	}

	return result
}

// Contains reports whether list holds an entry with the given identifier.
func Contains(list []Entry, id string) bool {
	for _, e := range list {
		if e.ID == id {
			return true
		}
	}
	return false
}
