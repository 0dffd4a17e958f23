package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// FileStore implements Store with two JSON documents on local disk: a flat
// object for the watchlist and an array for authorized users.
type FileStore struct {
	watchlistPath string
	usersPath     string
	mu            sync.Mutex
}

// NewFileStore creates a FileStore. Neither file has to exist yet.
func NewFileStore(watchlistPath, usersPath string) *FileStore {
	return &FileStore{
		watchlistPath: watchlistPath,
		usersPath:     usersPath,
	}
}

// LoadWatchlist reads the watchlist. A missing file is an empty watchlist.
func (s *FileStore) LoadWatchlist(_ context.Context) (Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := Watchlist{}
	if err := readJSON(s.watchlistPath, &w); err != nil {
		return nil, fmt.Errorf("loading watchlist: %w", err)
	}
	if w == nil {
		w = Watchlist{}
	}
	return w, nil
}

// SaveWatchlist replaces the watchlist document.
func (s *FileStore) SaveWatchlist(_ context.Context, w Watchlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w == nil {
		w = Watchlist{}
	}
	if err := writeJSON(s.watchlistPath, w); err != nil {
		return fmt.Errorf("saving watchlist: %w", err)
	}
	return nil
}

// LoadAuthorizedUsers reads the authorized-user IDs. A missing file is an
// empty set.
func (s *FileStore) LoadAuthorizedUsers(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	if err := readJSON(s.usersPath, &ids); err != nil {
		return nil, fmt.Errorf("loading authorized users: %w", err)
	}
	return ids, nil
}

// SaveAuthorizedUsers replaces the authorized-user document. IDs are written
// sorted so the file diffs cleanly.
func (s *FileStore) SaveAuthorizedUsers(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := slices.Clone(ids)
	if sorted == nil {
		sorted = []int64{}
	}
	slices.Sort(sorted)

	if err := writeJSON(s.usersPath, sorted); err != nil {
		return fmt.Errorf("saving authorized users: %w", err)
	}
	return nil
}

// Ping checks that both parent directories are reachable.
func (s *FileStore) Ping(_ context.Context) error {
	for _, p := range []string{s.watchlistPath, s.usersPath} {
		if _, err := os.Stat(filepath.Dir(p)); err != nil {
			return fmt.Errorf("checking data directory: %w", err)
		}
	}
	return nil
}

// Close is a no-op; files are not held open.
func (*FileStore) Close() error {
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted config
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// writeJSON writes v indented, without HTML escaping so non-ASCII product
// names stay readable, via a temp file and rename.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
