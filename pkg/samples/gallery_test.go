package samples

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSample(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGalleryLoad(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "basic.yaml", `
name: basic
description: a minimal token and verifier
token_blocks:
  - 'user("alice");'
verifier_code: 'allow if user("alice");'
`)
	writeSample(t, dir, "unnamed.yaml", `
verifier_code: 'deny if true;'
`)
	writeSample(t, dir, "notes.txt", "not a sample")

	g := NewGallery(dir)
	if err := g.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	list := g.List()
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	// Sorted by name.
	if list[0].Name != "basic" || list[1].Name != "unnamed" {
		t.Errorf("names = %q, %q", list[0].Name, list[1].Name)
	}

	s := g.Get("basic")
	if s == nil {
		t.Fatal("Get(basic) = nil")
	}
	if len(s.TokenBlocks) != 1 || s.TokenBlocks[0] != `user("alice");` {
		t.Errorf("token blocks = %v", s.TokenBlocks)
	}
}

func TestGallerySkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "good.yaml", `name: good`)
	writeSample(t, dir, "broken.yaml", "name: [unclosed")

	g := NewGallery(dir)
	if err := g.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(g.List()) != 1 {
		t.Errorf("broken sample should be skipped, got %d samples", len(g.List()))
	}
}

func TestGalleryMissingDir(t *testing.T) {
	g := NewGallery(filepath.Join(t.TempDir(), "nope"))
	if err := g.Load(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "first.yaml", `name: first`)

	g := NewGallery(dir)
	if err := g.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	reloaded := make(chan struct{}, 1)
	g.OnReload(func() {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	w, err := NewWatcher(g, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher a moment to register the directory.
	time.Sleep(50 * time.Millisecond)
	writeSample(t, dir, "second.yaml", `name: second`)

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not trigger a reload")
	}

	if g.Get("second") == nil {
		t.Error("new sample not loaded after reload")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
