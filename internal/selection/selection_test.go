package selection

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmptyPath(t *testing.T) {
	set, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if set != nil {
		t.Fatalf("expected nil set for empty path, got %v", set)
	}
	if !set.Admits("anything") {
		t.Error("nil set should admit everything")
	}
}

func TestLoadParsesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	if err := os.WriteFile(path, []byte(`["1120", "7673", " 160 "]`), 0o644); err != nil {
		t.Fatalf("write selection: %v", err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("len = %d, want 3", set.Len())
	}
	if !set.Admits("1120") || !set.Admits("160") {
		t.Error("expected members to be admitted")
	}
	if set.Admits("9999") {
		t.Error("non-member should be rejected by non-empty set")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.json")
	if err := os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644); err != nil {
		t.Fatalf("write selection: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed selection file")
	}
}
