package confloader

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := NewWatcher(WithWatcherLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	t.Cleanup(func() { w.Stop() })
	return w
}

func waitForChange(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case path := <-ch:
		return path
	case <-time.After(3 * time.Second):
		t.Fatal("no change event received")
		return ""
	}
}

func TestWatch_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(cfgPath, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w := newTestWatcher(t)
	if err := w.Watch(cfgPath); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	changed := make(chan string, 1)
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	w.StartAsync()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(cfgPath, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got := waitForChange(t, changed)
	abs, _ := filepath.Abs(cfgPath)
	if got != abs {
		t.Fatalf("changed path = %q, want %q", got, abs)
	}
}

func TestWatch_FiresOnRename(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(cfgPath, []byte("spool:\n  enabled: false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w := newTestWatcher(t)
	if err := w.Watch(cfgPath); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	changed := make(chan string, 1)
	w.OnChange(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	w.StartAsync()

	// Replace-by-rename, the way editors save.
	time.Sleep(50 * time.Millisecond)
	tmp := filepath.Join(dir, "server.yaml.tmp")
	if err := os.WriteFile(tmp, []byte("spool:\n  enabled: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Rename(tmp, cfgPath); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	waitForChange(t, changed)
}

func TestWatch_IgnoresUnregisteredFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(cfgPath, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w := newTestWatcher(t)
	if err := w.Watch(cfgPath); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	changed := make(chan string, 8)
	w.OnChange(func(path string) { changed <- path })
	w.StartAsync()

	// A sibling file in the watched directory must not fire.
	time.Sleep(50 * time.Millisecond)
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(other, []byte("scratch"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case path := <-changed:
		t.Fatalf("unexpected change event for %q", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	w := newTestWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "nope", "server.yaml")); err == nil {
		t.Fatal("Watch on a missing directory did not fail")
	}
}
