// Package store persists the CLI's local state: the active cookie set,
// the schools directory cache, and the user configuration. Each record
// is one JSON file under the config directory, replaced wholesale on
// write so readers never observe a half-written record.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	cookiesFile = "cookies.json"
	cacheFile   = "schools-cache.json"
	configFile  = "config.json"
)

// Store is the shared file backend for all persisted records.
type Store struct {
	Fs  afero.Fs
	Dir string

	now func() time.Time
}

// New returns a Store rooted at ~/.config/schoolctl on the real
// filesystem.
func New() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return NewWithFs(afero.NewOsFs(), filepath.Join(home, ".config", "schoolctl")), nil
}

// NewWithFs returns a Store over an arbitrary filesystem. Tests use
// afero.NewMemMapFs().
func NewWithFs(fs afero.Fs, dir string) *Store {
	return &Store{Fs: fs, Dir: dir, now: time.Now}
}

// readRecord decodes the named JSON record into v. A missing or
// unreadable or corrupt file is reported as absent (false, nil), never
// as an error: local state is always recoverable by re-fetching or
// re-authenticating.
func (s *Store) readRecord(name string, v interface{}) (bool, error) {
	data, err := afero.ReadFile(s.Fs, filepath.Join(s.Dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		log.Debug().Err(err).Str("record", name).Msg("unreadable record treated as absent")
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Debug().Err(err).Str("record", name).Msg("corrupt record treated as absent")
		return false, nil
	}
	return true, nil
}

// writeRecord replaces the named record atomically: the new content is
// written to a temp file in the same directory and renamed over the old
// one.
func (s *Store) writeRecord(name string, v interface{}) error {
	if err := s.Fs.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	target := filepath.Join(s.Dir, name)
	tmp := target + ".tmp"
	if err := afero.WriteFile(s.Fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := s.Fs.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// removeRecord deletes the named record; deleting an absent record is
// not an error.
func (s *Store) removeRecord(name string) error {
	err := s.Fs.Remove(filepath.Join(s.Dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}
