package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	first, err := store.SaveRun(Run{
		StartedAt:  base,
		Duration:   1500 * time.Millisecond,
		Roots:      "/tmp/out/smali",
		OutputMode: "stdout",
		Discovered: 10,
		Processed:  8,
		Skipped:    2,
		Methods:    40,
	})
	if err != nil {
		t.Fatalf("save first run: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected SaveRun to assign an id")
	}
	if first.Trigger != "cli" {
		t.Fatalf("expected default trigger cli, got %q", first.Trigger)
	}

	if _, err := store.SaveRun(Run{StartedAt: base.Add(time.Hour), Discovered: 3, Processed: 3, Trigger: "watch"}); err != nil {
		t.Fatalf("save second run: %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Trigger != "watch" {
		t.Fatalf("expected newest run first, got %+v", runs[0])
	}
	if runs[1].ID != first.ID || runs[1].Methods != 40 || runs[1].Duration != 1500*time.Millisecond {
		t.Fatalf("expected first run to roundtrip, got %+v", runs[1])
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Fatalf("expected started_at %v, got %v", base, runs[1].StartedAt)
	}

	limited, err := store.RecentRuns(1)
	if err != nil {
		t.Fatalf("recent runs limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestStore_SaveRunUpsertsByID(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	run, err := store.SaveRun(Run{Processed: 1})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	run.Processed = 5
	if _, err := store.SaveRun(run); err != nil {
		t.Fatalf("update: %v", err)
	}

	runs, err := store.RecentRuns(5)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Processed != 5 {
		t.Fatalf("expected single updated run, got %+v", runs)
	}
}

func TestOpen_RejectsDirectoryAndEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error for directory path")
	}
}

func TestEnsureSchema_RejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.db.Exec(`INSERT INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	store.Close()

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if err := EnsureSchema(db); err == nil {
		t.Fatal("expected newer schema version to be rejected")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected db file to exist: %v", err)
	}
}
