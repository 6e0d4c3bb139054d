package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestWriteAndRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key, err := store.Write(ctx, "jobs/abc/deck.pptx", []byte("artifact"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "jobs/abc/deck.pptx" {
		t.Errorf("key = %q", key)
	}

	data, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "artifact" {
		t.Errorf("data = %q", data)
	}

	path, err := store.Path(key)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("resolved path not on disk: %v", err)
	}
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"../escape", "..", "", "   ", "/../../etc/passwd"} {
		if _, err := store.Write(ctx, key, []byte("x")); err == nil {
			t.Errorf("Write(%q) accepted a hostile key", key)
		}
	}

	// Leading slashes and backslashes are normalized rather than rejected.
	key, err := store.Write(ctx, `/uploads\doc.txt`, []byte("x"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "uploads/doc.txt" {
		t.Errorf("key = %q", key)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key, err := store.Write(ctx, "jobs/x/deck.pptx", []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("second Remove: %v, want nil for missing file", err)
	}
	if _, err := store.Read(ctx, key); err == nil {
		t.Fatal("Read after Remove succeeded")
	}
}

func TestCleanupOlderThan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	oldKey, err := store.Write(ctx, "jobs/old/deck.pptx", []byte("old"))
	if err != nil {
		t.Fatal(err)
	}
	oldPath, _ := store.Path(oldKey)
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldPath, stale, stale); err != nil {
		t.Fatal(err)
	}

	freshKey, err := store.Write(ctx, "jobs/fresh/deck.pptx", []byte("fresh"))
	if err != nil {
		t.Fatal(err)
	}

	removed, err := store.CleanupOlderThan(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("CleanupOlderThan: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := store.Read(ctx, oldKey); err == nil {
		t.Error("stale file survived cleanup")
	}
	if _, err := store.Read(ctx, freshKey); err != nil {
		t.Errorf("fresh file removed: %v", err)
	}
}

func TestWriteCreatesNestedDirectories(t *testing.T) {
	store := newTestStore(t)
	key, err := store.Write(context.Background(), "a/b/c/file.bin", []byte("x"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	path, _ := store.Path(key)
	if filepath.Dir(path) == store.BasePath() {
		t.Error("nested directories not created")
	}
}
