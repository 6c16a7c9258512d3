package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "network.json")
	s, err := NewFileStore(path, 0)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load before save: error = %v, want ErrNotFound", err)
	}

	want := []byte(`{"nodes":{},"graph":{}}`)
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Load = %s, want %s", got, want)
	}

	// No stray temp files after an atomic save.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "network.json" {
			t.Errorf("unexpected file after save: %s", e.Name())
		}
	}
}

func TestFileStoreBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "network.json")
	s, err := NewFileStore(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// First save has nothing to back up.
	if err := s.Save(ctx, []byte(`{"v":1}`)); err != nil {
		t.Fatal(err)
	}
	backupDir := filepath.Join(dir, "backups")
	if entries, _ := os.ReadDir(backupDir); len(entries) != 0 {
		t.Errorf("backups after first save: %d, want 0", len(entries))
	}

	for i := 2; i <= 5; i++ {
		if err := s.Save(ctx, []byte(`{"v":`+string(rune('0'+i))+`}`)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		t.Fatalf("backup directory missing: %v", err)
	}
	if len(entries) > 2 {
		t.Errorf("backups retained = %d, want at most 2", len(entries))
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Load(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load before save: error = %v, want ErrNotFound", err)
	}

	original := []byte(`{"v":1}`)
	if err := s.Save(ctx, original); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// Mutating the returned slice must not reach the store.
	got[2] = 'x'
	again, _ := s.Load(ctx)
	if string(again) != `{"v":1}` {
		t.Errorf("stored data mutated through Load result: %s", again)
	}
}

func TestOpenDispatch(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: "memory"})
	if err != nil {
		t.Fatalf("Open(memory) failed: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T, want *MemoryStore", s)
	}

	s, err = Open(ctx, Config{Backend: "file", Path: filepath.Join(t.TempDir(), "n.json")})
	if err != nil {
		t.Fatalf("Open(file) failed: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open(file) = %T, want *FileStore", s)
	}

	// Empty backend defaults to file.
	if _, err := Open(ctx, Config{Path: filepath.Join(t.TempDir(), "n.json")}); err != nil {
		t.Errorf("Open with empty backend failed: %v", err)
	}

	if _, err := Open(ctx, Config{Backend: "carrier-pigeon"}); err == nil {
		t.Error("Open accepted an unknown backend")
	}
}
