package config

import "os"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Search.MinQueryLength == 0 {
		cfg.Search.MinQueryLength = 2
	}
	if cfg.Search.MaxQueryLength == 0 {
		cfg.Search.MaxQueryLength = 1000
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.TopKCandidates == 0 {
		cfg.Search.TopKCandidates = 50
	}
	if cfg.Search.HybridBoost == 0 {
		cfg.Search.HybridBoost = 0.1
	}
	if cfg.Search.SuggestionThreshold == 0 {
		cfg.Search.SuggestionThreshold = 5
	}
	if cfg.Search.MaxSuggestions == 0 {
		cfg.Search.MaxSuggestions = 3
	}
	if cfg.Search.StrategyTimeoutSecs == 0 {
		cfg.Search.StrategyTimeoutSecs = 10
	}
	if cfg.Gateway.APIKey == "" {
		cfg.Gateway.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Gateway.CompletionModel == "" {
		cfg.Gateway.CompletionModel = "gpt-4o-mini"
	}
	if cfg.Gateway.EmbeddingModel == "" {
		cfg.Gateway.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.Gateway.Dimensions == 0 {
		cfg.Gateway.Dimensions = 384
	}
	if cfg.Gateway.MaxTokens == 0 {
		cfg.Gateway.MaxTokens = 1024
	}
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = "localhost:6379"
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if cfg.Vector.Dimensions == 0 {
		cfg.Vector.Dimensions = cfg.Gateway.Dimensions
	}
}
