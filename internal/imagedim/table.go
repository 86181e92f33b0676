package imagedim

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table maps stripped scan filenames to known pixel dimensions. A nil
// Table means no dataset was supplied.
type Table map[string]Dimensions

type tableEntry struct {
	H int `json:"h"`
	W int `json:"w"`
}

// LoadTable reads a dimensions dataset from a JSON file, transparently
// decompressing a .gz suffix. An empty path yields a nil table.
func LoadTable(path string) (Table, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dimensions file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("open gzip dimensions file: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	var entries map[string]tableEntry
	if err := json.NewDecoder(reader).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse dimensions file %s: %w", path, err)
	}

	table := make(Table, len(entries))
	for name, entry := range entries {
		table[name] = Dimensions{Width: entry.W, Height: entry.H}
	}
	return table, nil
}
