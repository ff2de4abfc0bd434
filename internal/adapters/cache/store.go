// Package cache persists classification results between scans.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/autoscan/internal/core/domain"
	"go.trai.ch/autoscan/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.ResultCache using a flat JSON file at the scan root.
// The file maps configuration keys to per-file records, so scans with different
// configurations share one file without overwriting each other.
type Store struct {
	logger ports.Logger
	mu     sync.Mutex
}

// NewStore creates a new Store.
func NewStore(logger ports.Logger) *Store {
	return &Store{logger: logger}
}

// Load returns the records stored for cfg.
// A disabled cache, a missing file, a missing entry and a corrupt file all report a miss.
func (s *Store) Load(cfg *domain.ScanConfig) (map[string]domain.FileRecord, bool) {
	if !cfg.CacheEnabled {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := domain.CachePath(cfg.BasePath)
	all, err := readAll(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn(fmt.Sprintf("failed to load cache: %v", err))
		} else {
			s.logger.Debug("no cache file found")
		}
		return nil, false
	}

	key := Key(cfg)
	raw, ok := all[key]
	if !ok {
		s.logger.Debug("no cache entry for key " + key)
		return nil, false
	}

	var entry map[string]domain.FileRecord
	if err := json.Unmarshal(raw, &entry); err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrCacheCorrupt.Error()), "path", path)
		s.logger.Warn(fmt.Sprintf("failed to load cache: %v", err))
		return nil, false
	}
	if entry == nil {
		s.logger.Warn(fmt.Sprintf("failed to load cache: %v", zerr.With(domain.ErrCacheCorrupt, "path", path)))
		return nil, false
	}

	records := make(map[string]domain.FileRecord, len(entry))
	for file, rec := range entry {
		rec.Path = file
		if rec.Module == nil || *rec.Module == "" {
			rec.IsModel = false
			rec.Module = nil
		}
		records[file] = rec
	}

	s.logger.Info(fmt.Sprintf("loaded cache with %d entries", len(records)))
	return records, true
}

// Save replaces the entry for cfg, keeping the entries of other configurations.
// Failures are logged and never surface to the caller.
func (s *Store) Save(cfg *domain.ScanConfig, records map[string]domain.FileRecord) {
	if !cfg.CacheEnabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := domain.CachePath(cfg.BasePath)
	all, err := readAll(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn(fmt.Sprintf("discarding unreadable cache: %v", err))
		}
		all = make(map[string]json.RawMessage)
	}

	entry, err := json.Marshal(records)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("failed to save cache: %v", zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())))
		return
	}
	all[Key(cfg)] = entry

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		s.logger.Warn(fmt.Sprintf("failed to save cache: %v", zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())))
		return
	}

	//nolint:gosec // Path is derived from the resolved scan root
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
		s.logger.Warn(fmt.Sprintf("failed to save cache: %v", err))
		return
	}

	s.logger.Info(fmt.Sprintf("saved cache with %d entries", len(records)))
}

// Invalidate deletes the cache file under basePath. A missing file is not an error.
func (s *Store) Invalidate(basePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := domain.CachePath(filepath.Clean(basePath))
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrCacheRemoveFailed.Error()), "path", path)
	}

	s.logger.Info("cache invalidated")
	return nil
}

// IsModified reports whether path's modification time differs from modTime.
// Files that cannot be inspected count as modified.
func (s *Store) IsModified(path string, modTime int64) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return info.ModTime().UnixNano() != modTime
}

func readAll(path string) (map[string]json.RawMessage, error) {
	//nolint:gosec // Path is derived from the resolved scan root
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheCorrupt.Error()), "path", path)
	}
	// A top-level null decodes without error into a nil map.
	if all == nil {
		return nil, zerr.With(domain.ErrCacheCorrupt, "path", path)
	}
	return all, nil
}
