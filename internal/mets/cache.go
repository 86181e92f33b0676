package mets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Cache stores raw METS responses on disk, one XML file per identifier.
// Entries are never invalidated: once a response is cached it is trusted
// on every later run. An empty dir disables caching (all operations become
// no-ops).
type Cache struct {
	dir string
}

// NewCache creates a cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{dir: strings.TrimSpace(dir)}
}

// Lookup returns the cached response for the identifier if present.
func (c *Cache) Lookup(metsID string) ([]byte, bool) {
	if c.dir == "" || strings.TrimSpace(metsID) == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.entryPath(metsID))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Store persists a raw response. The write is atomic so a crashed run
// never leaves a truncated cache entry behind.
func (c *Cache) Store(metsID string, data []byte) error {
	metsID = strings.TrimSpace(metsID)
	if metsID == "" {
		return errors.New("mets id cannot be empty")
	}
	if c.dir == "" {
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	path := c.entryPath(metsID)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// List returns the cached identifiers in sorted order.
func (c *Cache) List() ([]string, error) {
	if c.dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".xml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".xml"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Clear removes every cache entry.
func (c *Cache) Clear() error {
	ids, err := c.List()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := os.Remove(c.entryPath(id)); err != nil {
			return fmt.Errorf("remove cache entry %s: %w", id, err)
		}
	}
	return nil
}

func (c *Cache) entryPath(metsID string) string {
	return filepath.Join(c.dir, metsID+".xml")
}
