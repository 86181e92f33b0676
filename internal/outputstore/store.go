// Package outputstore persists generated IIIF resources as pretty-printed
// JSON files under a root directory. The existence check doubles as the
// idempotence primitive: a path that already holds a file is treated as
// success-by-reuse and is never rewritten or compared by content.
package outputstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store writes resources keyed by their derived relative path.
type Store struct {
	root string
}

// New creates a store rooted at dir.
func New(dir string) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("output directory required")
	}
	return &Store{root: dir}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Path returns the absolute path for a relative resource path.
func (s *Store) Path(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Exists reports whether a resource has already been written at rel.
func (s *Store) Exists(rel string) bool {
	info, err := os.Stat(s.Path(rel))
	return err == nil && !info.IsDir()
}

// WriteJSON persists the resource at rel, creating parent directories and
// writing atomically via a temp file. Output is UTF-8, two-space indented.
func (s *Store) WriteJSON(rel string, v any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("marshal %s: %w", rel, err)
	}

	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
