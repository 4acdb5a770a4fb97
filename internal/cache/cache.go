// Package cache provides a persistent content-addressed store for remote
// lookups, backed by diskv. Keys use a "bucket/name" form so entries from
// different lookup functions live in separate directories.
package cache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

// Store is a get-or-compute cache persisted under a base directory.
//
// Store is safe for concurrent use for disjoint keys. Concurrent writes
// to the same key resolve as last-writer-wins; callers that need
// single-fetch semantics per key should dedup above this layer.
type Store struct {
	d        *diskv.Diskv
	basePath string
}

// New creates a Store rooted at basePath, creating it if needed.
func New(basePath string) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      8 * 1024 * 1024, // 8MB in-memory
		}),
		basePath: basePath,
	}
}

// GetOrCompute returns the cached value for key, or invokes compute,
// stores its result, and returns it. Errors from compute are returned
// as-is and nothing is cached.
func (s *Store) GetOrCompute(key string, compute func() ([]byte, error)) ([]byte, error) {
	if s.d.Has(key) {
		if val, err := s.d.Read(key); err == nil {
			return val, nil
		}
		// Unreadable entry: drop it and recompute.
		_ = s.d.Erase(key)
	}
	val, err := compute()
	if err != nil {
		return nil, err
	}
	if err := s.d.Write(key, val); err != nil {
		return nil, fmt.Errorf("cache: write %q: %w", key, err)
	}
	return val, nil
}

// Forget removes a single cached entry. Missing keys are not an error.
func (s *Store) Forget(key string) {
	_ = s.d.Erase(key)
}

// EvictOlderThan removes every cached entry whose file is older than age.
func (s *Store) EvictOlderThan(age time.Duration) error {
	cutoff := time.Now().Add(-age)
	return filepath.WalkDir(s.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			return os.Remove(path)
		}
		return nil
	})
}

// Clear removes all cached entries.
func (s *Store) Clear() error {
	return s.d.EraseAll()
}

func keyToPathTransform(key string) *diskv.PathKey {
	parts := strings.Split(key, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pk *diskv.PathKey) string {
	if len(pk.Path) == 0 {
		return pk.FileName
	}
	return strings.Join(pk.Path, "/") + "/" + pk.FileName
}
