// Package store persists network snapshots.
//
// A Store moves opaque snapshot JSON; encoding and decoding stay in the
// network package. Three backends are provided: a local file with
// timestamped backups, a single Redis key, and a single MongoDB document.
// The memory backend exists for tests and ephemeral runs.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Load when no snapshot has been saved yet.
// Callers typically start from an empty network.
var ErrNotFound = errors.New("no saved snapshot")

// Store is a single-slot snapshot repository.
type Store interface {
	// Load returns the most recently saved snapshot bytes, or ErrNotFound.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, data []byte) error

	// Close releases backend resources.
	Close() error
}

// Config selects and parameterizes a backend.
type Config struct {
	// Backend is "file", "redis", "mongo", or "memory".
	Backend string

	// Path is the snapshot file location for the file backend.
	Path string
	// Backups is how many timestamped backups the file backend keeps.
	// Zero disables backups.
	Backups int

	// RedisURL is a redis connection URL (redis://host:port/db).
	RedisURL string
	// RedisKey is the key holding the snapshot. Defaults to "biznet:network".
	RedisKey string

	// MongoURI is a mongodb connection string.
	MongoURI string
	// MongoDatabase defaults to "biznet"; MongoCollection to "networks".
	MongoDatabase   string
	MongoCollection string
}

// Open creates the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Path, cfg.Backups)
	case "redis":
		return NewRedisStore(ctx, cfg.RedisURL, cfg.RedisKey)
	case "mongo":
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
