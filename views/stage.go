package views

import (
	"fmt"
	"os"
	"path/filepath"
)

// Stage collects output files written under temporary names and moves them
// into place together. Until Commit, the final paths are never touched, so a
// run that fails halfway leaves earlier outputs exactly as they were.
type Stage struct {
	pending []string
}

// Path registers final and returns the temporary sibling to write instead.
func (s *Stage) Path(final string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(final), 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	s.pending = append(s.pending, final)
	return final + ".tmp", nil
}

// Commit renames every staged file to its final path.
func (s *Stage) Commit() error {
	for i, final := range s.pending {
		if err := os.Rename(final+".tmp", final); err != nil {
			s.pending = s.pending[i:]
			s.Discard()
			return fmt.Errorf("commit %s: %w", final, err)
		}
	}
	s.pending = nil
	return nil
}

// Discard removes every staged file that has not been committed.
func (s *Stage) Discard() {
	for _, final := range s.pending {
		os.Remove(final + ".tmp")
	}
	s.pending = nil
}
