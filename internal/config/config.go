// Package config provides configuration loading and structs for the Kensaku server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Search  SearchConfig  `yaml:"search"`
	Gateway GatewayConfig `yaml:"gateway"`
	Cache   CacheConfig   `yaml:"cache"`
	Keyword KeywordConfig `yaml:"keyword"`
	Vector  VectorConfig  `yaml:"vector"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SearchConfig holds query processing, fusion, and suggestion settings.
type SearchConfig struct {
	MinQueryLength      int     `yaml:"min_query_length"`
	MaxQueryLength      int     `yaml:"max_query_length"`
	DefaultLimit        int     `yaml:"default_limit"`
	MaxLimit            int     `yaml:"max_limit"`
	TopKCandidates      int     `yaml:"top_k_candidates"`
	HybridBoost         float64 `yaml:"hybrid_boost"`
	SuggestionThreshold int     `yaml:"suggestion_threshold"`
	MaxSuggestions      int     `yaml:"max_suggestions"`
	StrategyTimeoutSecs int     `yaml:"strategy_timeout_seconds"`
	ExpansionEnabled    bool    `yaml:"expansion_enabled"`
}

// GatewayConfig holds generation-gateway (OpenAI-compatible) settings.
// APIKey falls back to the OPENAI_API_KEY environment variable; when both
// are empty the server runs with the deterministic mock gateway.
type GatewayConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	CompletionModel string  `yaml:"completion_model"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	Dimensions      int     `yaml:"dimensions"`
	Temperature     float64 `yaml:"temperature"`
	MaxTokens       int     `yaml:"max_tokens"`
}

// CacheConfig holds the optional Redis result cache settings.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// KeywordConfig holds the embedded keyword index settings. An empty
// IndexPath selects the in-memory index.
type KeywordConfig struct {
	IndexPath string `yaml:"index_path"`
}

// VectorConfig holds the vector backend settings.
type VectorConfig struct {
	Dimensions int `yaml:"dimensions"`
}

// Load reads and parses the config file at path and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with all defaults applied, for running without a
// config file.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}
