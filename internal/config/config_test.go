package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
debug: true
server:
  port: 9090
search:
  min_query_length: 3
  hybrid_boost: 0.2
cache:
  enabled: true
  ttl_seconds: 60
`)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("expected debug true")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Search.MinQueryLength != 3 {
		t.Errorf("expected min_query_length 3, got %d", cfg.Search.MinQueryLength)
	}
	if cfg.Search.HybridBoost != 0.2 {
		t.Errorf("expected hybrid_boost 0.2, got %f", cfg.Search.HybridBoost)
	}
	if cfg.Cache.TTLSeconds != 60 {
		t.Errorf("expected ttl 60, got %d", cfg.Cache.TTLSeconds)
	}
	// Defaults fill the rest.
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host, got %q", cfg.Server.Host)
	}
	if cfg.Search.MaxQueryLength != 1000 {
		t.Errorf("expected default max query length, got %d", cfg.Search.MaxQueryLength)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Search.MinQueryLength != 2 {
		t.Errorf("expected min query length 2, got %d", cfg.Search.MinQueryLength)
	}
	if cfg.Search.HybridBoost != 0.1 {
		t.Errorf("expected hybrid boost 0.1, got %f", cfg.Search.HybridBoost)
	}
	if cfg.Search.SuggestionThreshold != 5 {
		t.Errorf("expected suggestion threshold 5, got %d", cfg.Search.SuggestionThreshold)
	}
	if cfg.Vector.Dimensions != cfg.Gateway.Dimensions {
		t.Error("expected vector dimensions to follow gateway dimensions")
	}
}
