package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	runID, err := store.BeginRun(ctx, ModeHierarchy, "testdata/1.04.02.xml")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	resources := []Resource{
		{RunID: runID, Path: "1.04.02.json", Kind: "collection", Code: "1.04.02"},
		{RunID: runID, Path: "inventories/1120.json", Kind: "manifest", Code: "1120", Canvases: 12},
		{RunID: runID, Path: "inventories/7673.json", Kind: "manifest", Code: "7673", Reused: true},
	}
	for _, res := range resources {
		if err := store.RecordResource(ctx, res); err != nil {
			t.Fatalf("RecordResource failed: %v", err)
		}
	}

	counts := Counts{Collections: 1, Manifests: 2, Reused: 1, Canvases: 12}
	if err := store.FinishRun(ctx, runID, StatusCompleted, counts, nil); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	run := runs[0]
	if run.ID != runID || run.Status != StatusCompleted {
		t.Errorf("run = %+v", run)
	}
	if run.Manifests != 2 || run.Reused != 1 || run.Canvases != 12 {
		t.Errorf("counts = %+v", run)
	}
	if run.FinishedAt.IsZero() || run.FinishedAt.Before(run.StartedAt) {
		t.Errorf("timestamps: started %v finished %v", run.StartedAt, run.FinishedAt)
	}

	got, err := store.RunResources(ctx, runID)
	if err != nil {
		t.Fatalf("RunResources failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d resources, want 3", len(got))
	}
	if got[1].Path != "inventories/1120.json" || got[1].Canvases != 12 {
		t.Errorf("resource = %+v", got[1])
	}
	if !got[2].Reused {
		t.Error("third resource should be reused")
	}
}

func TestFinishRunRecordsError(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	runID, err := store.BeginRun(ctx, ModeDocuments, "testdata/documents.csv")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, runID, StatusFailed, Counts{}, errors.New("fetch mets: connection refused")); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if runs[0].Status != StatusFailed {
		t.Errorf("status = %q", runs[0].Status)
	}
	if runs[0].Error != "fetch mets: connection refused" {
		t.Errorf("error = %q", runs[0].Error)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("reopen error = %v, want ErrSchemaMismatch", err)
	}
}
