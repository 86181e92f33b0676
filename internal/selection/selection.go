// Package selection loads the optional inclusion filter: a JSON array of
// inventory numbers. When the set is non-empty, only archival files whose
// identifier is a member are retained during parsing.
package selection

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Set is a membership filter over inventory numbers. The zero value (or an
// empty set) admits everything.
type Set map[string]struct{}

// Load reads a JSON array of identifiers from path. An empty path yields a
// nil set, meaning no filtering.
func Load(path string) (Set, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selection file: %w", err)
	}

	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return nil, fmt.Errorf("parse selection file %s: %w", path, err)
	}

	set := make(Set, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code != "" {
			set[code] = struct{}{}
		}
	}
	return set, nil
}

// FromCodes builds a Set from literal identifiers. Used by tests and
// callers that already hold the selection in memory.
func FromCodes(codes ...string) Set {
	set := make(Set, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Admits reports whether the identifier passes the filter. An empty set
// admits every identifier.
func (s Set) Admits(code string) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[code]
	return ok
}

// Len returns the number of identifiers in the set.
func (s Set) Len() int { return len(s) }
