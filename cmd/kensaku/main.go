// Package main is the Kensaku CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/cache"
	"github.com/studystack/kensaku/internal/cli"
	"github.com/studystack/kensaku/internal/config"
	"github.com/studystack/kensaku/internal/gateway"
	"github.com/studystack/kensaku/internal/keyword"
	"github.com/studystack/kensaku/internal/models"
	"github.com/studystack/kensaku/internal/query"
	"github.com/studystack/kensaku/internal/search"
	"github.com/studystack/kensaku/internal/server"
	"github.com/studystack/kensaku/internal/strategy"
	"github.com/studystack/kensaku/internal/vector"
	"github.com/studystack/kensaku/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kensaku/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. A missing default config falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				return config.Load(fallback)
			}
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "version", "--version", "-v":
		fmt.Printf("kensaku version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: kensaku <command> [flags]

Commands:
  server    start the search API server
  search    run a search against a running server
  version   print version
  help      print this help
`)
}

// components holds the wired search stack shared by the server command.
type components struct {
	Engine  *search.Engine
	Keyword keyword.Backend
	Vector  vector.Backend
	Gateway gateway.Gateway
}

func (c *components) Close() {
	_ = c.Keyword.Close()
	_ = c.Vector.Close()
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	var gw gateway.Gateway
	if cfg.Gateway.APIKey != "" {
		gw = gateway.NewOpenAIGateway(&gateway.Config{
			APIKey:          cfg.Gateway.APIKey,
			BaseURL:         cfg.Gateway.BaseURL,
			CompletionModel: cfg.Gateway.CompletionModel,
			EmbeddingModel:  cfg.Gateway.EmbeddingModel,
			Dimensions:      cfg.Gateway.Dimensions,
			Temperature:     float32(cfg.Gateway.Temperature),
			MaxTokens:       cfg.Gateway.MaxTokens,
		}, logger)
	} else {
		logger.Warn("no API key configured, using deterministic mock gateway")
		gw = gateway.NewMock(cfg.Gateway.Dimensions)
	}

	var kw keyword.Backend
	var err error
	if cfg.Keyword.IndexPath != "" {
		kw, err = keyword.NewBleveIndex(cfg.Keyword.IndexPath)
	} else {
		kw, err = keyword.NewMemoryBleveIndex()
	}
	if err != nil {
		return nil, fmt.Errorf("open keyword index: %w", err)
	}

	vec, err := vector.NewMemoryIndex(cfg.Vector.Dimensions)
	if err != nil {
		_ = kw.Close()
		return nil, fmt.Errorf("create vector index: %w", err)
	}

	registry := strategy.NewRegistry()
	registry.Register(strategy.NewKeywordStrategy(kw, cfg.Search.TopKCandidates))
	registry.Register(strategy.NewSemanticStrategy(gw, vec, cfg.Search.TopKCandidates))
	registry.Register(strategy.NewRAGStrategy(gw, vec, 5, logger))

	var resultCache cache.ResultCache
	if cfg.Cache.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		resultCache = cache.NewRedisCache(client, cfg.Cache.TTLSeconds, logger)
		logger.Info("result cache enabled", zap.String("addr", cfg.Cache.Addr))
	}

	engine := search.NewEngine(
		query.NewProcessor(gw, &cfg.Search, logger),
		registry,
		strategy.NewExecutor(time.Duration(cfg.Search.StrategyTimeoutSecs)*time.Second, logger),
		search.NewSuggester(gw, cfg.Search.SuggestionThreshold, cfg.Search.MaxSuggestions, logger),
		resultCache,
		&cfg.Search,
		logger,
	)
	return &components{Engine: engine, Keyword: kw, Vector: vec, Gateway: gw}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer comps.Close()

	srv := server.NewServer(comps.Engine, comps.Keyword, comps.Vector, comps.Gateway, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: kensaku search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  kensaku search binary search trees
  kensaku search --type semantic "how do hash tables work"
  kensaku search --type rag "explain recursion"
  kensaku search --limit 20 --min-score 0.3 sorting
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	searchType := fs.String("type", "hybrid", "search type: keyword, semantic, hybrid, or rag")
	limit := fs.Int("limit", 10, "number of results per page")
	page := fs.Int("page", 1, "result page")
	minScore := fs.Float64("min-score", 0, "minimum result score")
	courseID := fs.String("course", "", "restrict to one course")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req := &models.SearchRequest{
		Query: queryStr,
		Type:  models.SearchType(*searchType),
		Options: models.SearchOptions{
			Page:     *page,
			Limit:    *limit,
			MinScore: *minScore,
		},
	}
	if *courseID != "" {
		req.Filters = map[string]string{"course_id": *courseID}
	}

	response, err := searchViaHTTP(*serverURL, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, req *models.SearchRequest) (*models.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}
