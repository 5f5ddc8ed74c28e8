package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreMissAndHit(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Get("dQw4w9WgXcQ"); ok {
		t.Fatal("expected miss for unknown ID")
	}

	path := store.Path("dQw4w9WgXcQ")
	if err := os.WriteFile(path, []byte("audio bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Put("dQw4w9WgXcQ", path); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := store.Get("dQw4w9WgXcQ")
	if !ok || got != path {
		t.Errorf("Get = %q, %v; want %q, true", got, ok, path)
	}
}

func TestStoreZeroLengthIsMiss(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// A zero-length file is an interrupted download, not a usable entry.
	path := store.Path("abc123")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := store.Get("abc123"); ok {
		t.Fatal("zero-length entry should be a miss")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("zero-length entry should be removed on miss")
	}
}

func TestStorePutMovesForeignPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	foreign := filepath.Join(dir, "elsewhere.m4a")
	if err := os.WriteFile(foreign, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Put("vid1", foreign); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if got, ok := store.Get("vid1"); !ok || got != store.Path("vid1") {
		t.Errorf("Get after foreign Put = %q, %v", got, ok)
	}
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	if _, err := NewStore(dir); err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("cache directory not created: %v", err)
	}
}
