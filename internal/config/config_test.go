package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurakErdilli/biznet-analyzer/pkg/layout"
)

func TestLoadDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.toml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", path, err)
		}
		if cfg.Server.Addr != ":8080" {
			t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
		}
		if cfg.Storage.Backend != "file" {
			t.Errorf("Backend = %q, want file", cfg.Storage.Backend)
		}
		if cfg.Analysis.MinChildrenThreshold != 2 {
			t.Errorf("MinChildrenThreshold = %d, want 2", cfg.Analysis.MinChildrenThreshold)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biznet.toml")
	content := `
[server]
addr = ":9000"
read_timeout = "5s"

[storage]
backend = "redis"
redis_url = "redis://localhost:6379/0"

[analysis]
min_children_threshold = 4
balance_factor = 0.8

[render]
direction = "LR"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout.Duration)
	}
	// Unset fields keep their defaults.
	if cfg.Server.WriteTimeout.Duration != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want default 30s", cfg.Server.WriteTimeout.Duration)
	}

	sc := cfg.StoreConfig()
	if sc.Backend != "redis" || sc.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("StoreConfig = %+v", sc)
	}

	s := cfg.Settings()
	if s.MinChildrenThreshold != 4 || s.BalanceFactor != 0.8 {
		t.Errorf("Settings = %+v", s)
	}

	lo := cfg.LayoutOptions()
	if lo.Direction != layout.DirectionLR {
		t.Errorf("Direction = %q, want LR", lo.Direction)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server\naddr=???"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed TOML")
	}
}
