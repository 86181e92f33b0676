package textrepo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, metadata map[string]map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		externalID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/task/find/"), "/document/metadata")
		doc, ok := metadata[externalID]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFindDocumentMetadata(t *testing.T) {
	server := newTestServer(t, map[string]map[string]string{
		"NL-HaNA_1.04.02_1120_0020": {"scan_url": "https://img.example.org/iip/a/0020.jp2"},
	})
	client, err := NewClient(server.URL, WithAPIKey("secret"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	metadata, err := client.FindDocumentMetadata(context.Background(), "NL-HaNA_1.04.02_1120_0020")
	if err != nil {
		t.Fatalf("FindDocumentMetadata failed: %v", err)
	}
	if metadata["scan_url"] != "https://img.example.org/iip/a/0020.jp2" {
		t.Errorf("scan_url = %q", metadata["scan_url"])
	}

	if _, err := client.FindDocumentMetadata(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown document")
	}
	if _, err := client.FindDocumentMetadata(context.Background(), ""); err == nil {
		t.Error("expected error for empty external id")
	}
}

func TestResolveScansRewritesServiceURL(t *testing.T) {
	server := newTestServer(t, map[string]map[string]string{
		"SCAN_0001": {"scan_url": "https://img.example.org/iip/x/0001.jp2"},
		"SCAN_0002": {"scan_url": "https://img.example.org/iip/x/0002.jp2"},
		"SCAN_0003": {"other": "no scan url here"},
	})
	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	scans, err := client.ResolveScans(context.Background(), []string{"SCAN_0001", "SCAN_0002"})
	if err != nil {
		t.Fatalf("ResolveScans failed: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("got %d scans, want 2", len(scans))
	}
	if scans[0].FileName != "SCAN_0001" {
		t.Errorf("file name = %q", scans[0].FileName)
	}
	want := "https://img.example.org/iipsrv?IIIF=/x/0001.jp2/info.json"
	if scans[0].ImageServiceURL != want {
		t.Errorf("service url = %q, want %q", scans[0].ImageServiceURL, want)
	}

	if _, err := client.ResolveScans(context.Background(), []string{"SCAN_0003"}); err == nil {
		t.Error("expected error for document without scan_url")
	}
}
