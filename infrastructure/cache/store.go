// Package cache maps video IDs to downloaded full-length audio files on
// disk. Entries are created on first successful download and reused across
// runs for as long as the file exists; nothing evicts them. Staleness is an
// accepted tradeoff: the same ID always reuses the same file.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/L3GJ0N/audio-snippet-automation/domain/snippet"
)

// Ext is the canonical extension of cached files; downloads are always
// extracted to this intermediate format.
const Ext = "m4a"

// Store implements snippet.CacheStore on a single directory.
type Store struct {
	dir string
}

// NewStore creates the cache directory if needed and returns the store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory downloads should be written into.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the canonical cache path for a video ID.
func (s *Store) Path(videoID string) string {
	return filepath.Join(s.dir, videoID+"."+Ext)
}

// Get returns the cached file for the ID. A zero-length file is treated as
// a miss: it is left over from an interrupted download and is removed so the
// refetch can replace it.
func (s *Store) Get(videoID string) (string, bool) {
	path := s.Path(videoID)
	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if info.Size() == 0 {
		_ = os.Remove(path)
		return "", false
	}
	return path, true
}

// Put registers a downloaded file under the ID. Files already at the
// canonical path (the usual case, since downloads target the cache
// directory) are accepted as-is; anything else is moved into place.
func (s *Store) Put(videoID, path string) error {
	canonical := s.Path(videoID)
	if path == canonical {
		return nil
	}
	if err := os.Rename(path, canonical); err != nil {
		return fmt.Errorf("failed to register cache entry for %s: %w", videoID, err)
	}
	return nil
}

// Ensure Store implements snippet.CacheStore
var _ snippet.CacheStore = (*Store)(nil)
