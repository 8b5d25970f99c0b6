package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func waitForReload(t *testing.T, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("reload not observed in time")
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronicle.toml")
	if err := os.WriteFile(path, []byte("max_history_size = 100\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var mu sync.Mutex
	var got *Settings
	w, err := NewWatcher(path, func(s Settings) {
		mu.Lock()
		got = &s
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("max_history_size = 500\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	waitForReload(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil && got.MaxHistorySize == 500
	})
}

func TestWatcherSurvivesRenameOverWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chronicle.toml")
	if err := os.WriteFile(path, []byte("max_history_size = 100\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var mu sync.Mutex
	var got *Settings
	w, err := NewWatcher(path, func(s Settings) {
		mu.Lock()
		got = &s
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	// Editor-style save: write a temp file, rename over the target.
	tmp := filepath.Join(dir, "chronicle.toml.new")
	if err := os.WriteFile(tmp, []byte("max_history_size = 900\n"), 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}

	waitForReload(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil && got.MaxHistorySize == 900
	})
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chronicle.toml")
	if err := os.WriteFile(path, []byte("max_history_size = 100\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var mu sync.Mutex
	fired := false
	w, err := NewWatcher(path, func(Settings) {
		mu.Lock()
		fired = true
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired {
		t.Error("unrelated file change triggered a reload")
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chronicle.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewWatcher(path, func(Settings) {})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("first close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
