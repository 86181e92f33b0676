package mets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func newTestResolver(t *testing.T, handler http.Handler) (*Resolver, *Cache, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	cache := NewCache(filepath.Join(t.TempDir(), "mets"))
	return NewResolver(client, cache, nil), cache, server
}

func TestScansEmptyIDReturnsEmptyList(t *testing.T) {
	var requests atomic.Int64
	resolver, _, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	scans, err := resolver.Scans(context.Background(), "")
	if err != nil {
		t.Fatalf("Scans failed: %v", err)
	}
	if len(scans) != 0 {
		t.Errorf("got %d scans, want 0", len(scans))
	}
	if requests.Load() != 0 {
		t.Error("empty mets id must not hit the network")
	}
}

func TestScansFetchesAndCaches(t *testing.T) {
	var requests atomic.Int64
	resolver, cache, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/mets-1120" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(sampleMETS))
	}))

	scans, err := resolver.Scans(context.Background(), "mets-1120")
	if err != nil {
		t.Fatalf("Scans failed: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("got %d scans, want 2", len(scans))
	}
	if requests.Load() != 1 {
		t.Fatalf("requests = %d, want 1", requests.Load())
	}
	if _, ok := cache.Lookup("mets-1120"); !ok {
		t.Fatal("response was not cached")
	}

	// Second resolve must come from the cache.
	if _, err := resolver.Scans(context.Background(), "mets-1120"); err != nil {
		t.Fatalf("second Scans failed: %v", err)
	}
	if requests.Load() != 1 {
		t.Errorf("requests = %d after cached resolve, want 1", requests.Load())
	}
}

func TestScansServerErrorPropagates(t *testing.T) {
	resolver, _, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	if _, err := resolver.Scans(context.Background(), "mets-broken"); err == nil {
		t.Fatal("expected error for failing fetch")
	}
}

func TestScansCorruptCacheEntryIsTrusted(t *testing.T) {
	var requests atomic.Int64
	resolver, cache, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(sampleMETS))
	}))

	if err := cache.Store("mets-corrupt", []byte("not xml at all")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	// The cache is never auto-invalidated: a corrupt entry surfaces as a
	// parse error rather than a refetch.
	if _, err := resolver.Scans(context.Background(), "mets-corrupt"); err == nil {
		t.Fatal("expected parse error from corrupt cache entry")
	}
	if requests.Load() != 0 {
		t.Errorf("corrupt cache entry must not trigger a refetch, got %d requests", requests.Load())
	}
}

func TestCacheListAndClear(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "mets"))

	for _, id := range []string{"b", "a"} {
		if err := cache.Store(id, []byte("<mets/>")); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	ids, err := cache.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("List = %v, want [a b]", ids)
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	ids, err = cache.List()
	if err != nil {
		t.Fatalf("List after Clear failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("List after Clear = %v, want empty", ids)
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	cache := NewCache("")
	if err := cache.Store("x", []byte("data")); err != nil {
		t.Fatalf("Store on disabled cache failed: %v", err)
	}
	if _, ok := cache.Lookup("x"); ok {
		t.Fatal("disabled cache should never hit")
	}
	if _, err := os.Stat("x.xml"); err == nil {
		t.Fatal("disabled cache wrote a file")
	}
}
