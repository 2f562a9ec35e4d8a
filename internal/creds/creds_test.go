package creds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "planhub", "credentials.yaml")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	// Missing file reads as empty pair.
	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if p.Access != "" || p.Refresh != "" {
		t.Fatalf("expected empty pair, got %+v", p)
	}

	if err := store.Save(Pair{Access: "acc-1", Refresh: "ref-1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p, err = store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Access != "acc-1" || p.Refresh != "ref-1" {
		t.Fatalf("unexpected pair: %+v", p)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("credentials file mode = %o, want 600", perm)
	}
}

func TestFileStoreSetAccessKeepsRefresh(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.yaml"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Save(Pair{Access: "old", Refresh: "keep"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.SetAccess("new"); err != nil {
		t.Fatalf("SetAccess: %v", err)
	}
	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Access != "new" || p.Refresh != "keep" {
		t.Fatalf("unexpected pair after SetAccess: %+v", p)
	}
}

func TestFileStoreClearIdempotent(t *testing.T) {
	t.Parallel()

	store, err := NewFileStore(filepath.Join(t.TempDir(), "credentials.yaml"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Save(Pair{Access: "a", Refresh: "r"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	// Second clear with nothing on disk must also succeed.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load after clear: %v", err)
	}
	if p.Access != "" || p.Refresh != "" {
		t.Fatalf("expected empty pair after clear, got %+v", p)
	}
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := NewFileStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	if err := m.Save(Pair{Access: "a", Refresh: "r"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := m.SetAccess("a2"); err != nil {
		t.Fatalf("SetAccess: %v", err)
	}
	p, _ := m.Load()
	if p.Access != "a2" || p.Refresh != "r" {
		t.Fatalf("unexpected pair: %+v", p)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	p, _ = m.Load()
	if p != (Pair{}) {
		t.Fatalf("expected empty pair, got %+v", p)
	}
}
