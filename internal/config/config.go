// Package config loads server and CLI configuration from a TOML file.
//
// Everything has a working default: a missing config file is not an error,
// so `biznet serve` runs out of the box with a local JSON file store.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/BurakErdilli/biznet-analyzer/pkg/layout"
	"github.com/BurakErdilli/biznet-analyzer/pkg/network"
	"github.com/BurakErdilli/biznet-analyzer/pkg/store"
)

// Config is the full application configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Storage  Storage  `toml:"storage"`
	Analysis Analysis `toml:"analysis"`
	Render   Render   `toml:"render"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     duration `toml:"read_timeout"`
	WriteTimeout    duration `toml:"write_timeout"`
	ShutdownTimeout duration `toml:"shutdown_timeout"`
}

// Storage selects and parameterizes the snapshot backend.
type Storage struct {
	Backend string `toml:"backend"`

	Path    string `toml:"path"`
	Backups int    `toml:"backups"`

	RedisURL string `toml:"redis_url"`
	RedisKey string `toml:"redis_key"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Analysis holds the default analysis settings for new networks.
type Analysis struct {
	MinChildrenThreshold int     `toml:"min_children_threshold"`
	BalanceFactor        float64 `toml:"balance_factor"`
}

// Render holds layout defaults for drawings.
type Render struct {
	Direction string  `toml:"direction"`
	NodeSep   float64 `toml:"node_sep"`
	RankSep   float64 `toml:"rank_sep"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	settings := network.DefaultSettings()
	opts := layout.DefaultOptions()
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     duration{10 * time.Second},
			WriteTimeout:    duration{30 * time.Second},
			ShutdownTimeout: duration{10 * time.Second},
		},
		Storage: Storage{
			Backend: "file",
			Path:    "network.json",
			Backups: 5,
		},
		Analysis: Analysis{
			MinChildrenThreshold: settings.MinChildrenThreshold,
			BalanceFactor:        settings.BalanceFactor,
		},
		Render: Render{
			Direction: string(opts.Direction),
			NodeSep:   opts.NodeSep,
			RankSep:   opts.RankSep,
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path or a
// missing file yields the defaults; a present but malformed file is an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// StoreConfig converts the storage section for store.Open.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Backend:         c.Storage.Backend,
		Path:            c.Storage.Path,
		Backups:         c.Storage.Backups,
		RedisURL:        c.Storage.RedisURL,
		RedisKey:        c.Storage.RedisKey,
		MongoURI:        c.Storage.MongoURI,
		MongoDatabase:   c.Storage.MongoDatabase,
		MongoCollection: c.Storage.MongoCollection,
	}
}

// Settings converts the analysis section to network settings.
func (c Config) Settings() network.Settings {
	return network.Settings{
		MinChildrenThreshold: c.Analysis.MinChildrenThreshold,
		BalanceFactor:        c.Analysis.BalanceFactor,
	}
}

// LayoutOptions converts the render section to layout options.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		Direction: layout.ParseDirection(c.Render.Direction),
		NodeSep:   c.Render.NodeSep,
		RankSep:   c.Render.RankSep,
	}
}

// duration wraps time.Duration for TOML strings like "10s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}
