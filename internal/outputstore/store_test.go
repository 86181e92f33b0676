package outputstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteJSONAndExists(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rel := "inventories/1.04.02/1120.json"
	if store.Exists(rel) {
		t.Fatal("Exists should be false before writing")
	}

	payload := map[string]any{"id": "https://example.org/1120.json", "type": "Manifest"}
	if err := store.WriteJSON(rel, payload); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	if !store.Exists(rel) {
		t.Fatal("Exists should be true after writing")
	}

	data, err := os.ReadFile(store.Path(rel))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["type"] != "Manifest" {
		t.Errorf("type = %v", decoded["type"])
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("output should be pretty-printed")
	}
}

func TestWriteJSONDoesNotEscapeHTML(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := store.WriteJSON("a.json", map[string]string{"v": `<a href="x">x</a>`}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	data, err := os.ReadFile(store.Path("a.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `<a href=\"x\">x</a>`) {
		t.Errorf("anchor markup should survive unescaped: %s", data)
	}
	if strings.Contains(string(data), `<`) {
		t.Errorf("angle brackets should not be escaped: %s", data)
	}
}

func TestWriteJSONLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := store.WriteJSON("x.json", map[string]int{"n": 1}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestNewRequiresDirectory(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty output directory")
	}
}
