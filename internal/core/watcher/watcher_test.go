package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsBadPattern(t *testing.T) {
	_, err := NewWatcher(100*time.Millisecond, nil, []string{"[bad"}, nil, func([]string) {})
	if err == nil {
		t.Fatal("expected error for invalid exclude pattern")
	}
}

func waitForPath(t *testing.T, ch <-chan []string, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case paths := <-ch:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change to %s", want)
		}
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, []string{".smali"}, []string{"build"}, []string{"R$*.smali"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	unit := filepath.Join(tmpDir, "Foo.smali")
	if err := os.WriteFile(unit, []byte(".class public LFoo;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, changedFiles, unit)

	// Non-smali and excluded files are ignored.
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(tmpDir, "R$string.smali"), []byte("x"), 0o644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			if base == "notes.txt" || base == "R$string.smali" {
				t.Errorf("excluded file %s triggered event", base)
			}
		}
	case <-time.After(500 * time.Millisecond):
	}

	// New directories are picked up recursively.
	subdir := filepath.Join(tmpDir, "com", "example")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(150 * time.Millisecond)
	nested := filepath.Join(subdir, "Bar.smali")
	if err := os.WriteFile(nested, []byte(".class public Lcom/example/Bar;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, changedFiles, nested)
}

func TestWatcher_ShouldExclude(t *testing.T) {
	w, err := NewWatcher(time.Second, nil, []string{"build*"}, []string{"R.smali"}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if !w.shouldExcludeDir("/x/build-cache") {
		t.Error("expected build-cache to be excluded")
	}
	if w.shouldExcludeDir("/x/smali") {
		t.Error("expected smali dir to be watched")
	}
	if !w.shouldExcludeFile("/x/R.smali") {
		t.Error("expected R.smali to be excluded by pattern")
	}
	if !w.shouldExcludeFile("/x/Foo.java") {
		t.Error("expected non-smali file to be excluded by default extension")
	}
	if w.shouldExcludeFile("/x/Foo.smali") {
		t.Error("expected Foo.smali to be watched")
	}
}
