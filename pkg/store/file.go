package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurakErdilli/biznet-analyzer/pkg/observability"
)

// FileStore persists the snapshot to a single JSON file.
//
// Saves are atomic: data is written to a temp file in the same directory
// and renamed over the target, so a crash mid-save never leaves a truncated
// snapshot. When backups are enabled, the previous file is copied into a
// backups/ directory with a timestamp suffix before being replaced, and the
// oldest backups beyond the retention count are pruned.
type FileStore struct {
	path    string
	backups int
}

// NewFileStore creates a file store at path, creating parent directories.
func NewFileStore(path string, backups int) (*FileStore, error) {
	if path == "" {
		path = "network.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: path, backups: backups}, nil
}

// Load reads the snapshot file.
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		observability.Store().OnLoad(ctx, "file", 0, ErrNotFound)
		return nil, ErrNotFound
	}
	observability.Store().OnLoad(ctx, "file", len(data), err)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// Save atomically replaces the snapshot file, backing up the previous one.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	err := s.save(data)
	observability.Store().OnSave(ctx, "file", len(data), err)
	return err
}

func (s *FileStore) save(data []byte) error {
	if s.backups > 0 {
		if err := s.backup(); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".network-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) backup() error {
	prev, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read previous snapshot: %w", err)
	}

	dir := filepath.Join(filepath.Dir(s.path), "backups")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
	name := fmt.Sprintf("%s-%s.json", base, time.Now().UTC().Format("20060102T150405"))
	if err := os.WriteFile(filepath.Join(dir, name), prev, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	return s.prune(dir, base)
}

func (s *FileStore) prune(dir, base string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), base+"-") {
			names = append(names, e.Name())
		}
	}
	// Timestamps sort lexicographically, oldest first.
	slices.Sort(names)
	for len(names) > s.backups {
		os.Remove(filepath.Join(dir, names[0]))
		names = names[1:]
	}
	return nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
