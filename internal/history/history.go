// Package history persists the per-domain record of recently processed URLs
// between runs.
package history

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

// Store maps domain names to their most recently processed URLs, newest
// first. It is read once at startup, mutated as domains complete, and
// written back once at the end of the run.
type Store struct {
	path    string
	entries map[string][]string
}

// Load reads the history file. A missing or unparsable file degrades to an
// empty history: first runs and corruption both mean "process from the top".
func Load(path string) *Store {
	s := &Store{path: path, entries: map[string][]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("history unreadable, starting empty", "path", path, "error", err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		slog.Warn("history corrupt, starting empty", "path", path, "error", err)
		s.entries = map[string][]string{}
	}
	return s
}

// URLs returns the stored list for a domain, newest first.
func (s *Store) URLs(domain string) []string {
	return s.entries[domain]
}

// Record prepends the URLs processed this run (already in processing order)
// to the domain's list and truncates it to keep entries.
func (s *Store) Record(domain string, processed []string, keep int) {
	if len(processed) == 0 {
		return
	}
	updated := append(append([]string{}, processed...), s.entries[domain]...)
	if keep > 0 && len(updated) > keep {
		updated = updated[:keep]
	}
	s.entries[domain] = updated
}

// Save writes the full mapping back to disk.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.entries, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
