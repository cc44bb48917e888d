package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/config"
	"github.com/studystack/kensaku/internal/gateway"
	"github.com/studystack/kensaku/internal/models"
	"github.com/studystack/kensaku/internal/query"
	"github.com/studystack/kensaku/internal/strategy"
)

type fakeStrategy struct {
	name     string
	priority int
	types    []models.SearchType
	results  []models.SearchResult
	err      error
}

func (f *fakeStrategy) Name() string  { return f.name }
func (f *fakeStrategy) Priority() int { return f.priority }

func (f *fakeStrategy) CanHandle(q *models.ProcessedQuery) bool {
	for _, t := range f.types {
		if q.Type == t {
			return true
		}
	}
	return false
}

func (f *fakeStrategy) Search(ctx context.Context, q *models.ProcessedQuery) ([]models.SearchResult, error) {
	return f.results, f.err
}

type fakeCache struct {
	stored map[string]*models.SearchResponse
}

func (c *fakeCache) Get(ctx context.Context, q *models.ProcessedQuery) (*models.SearchResponse, bool) {
	resp, ok := c.stored[q.Cleaned]
	return resp, ok
}

func (c *fakeCache) Set(ctx context.Context, q *models.ProcessedQuery, resp *models.SearchResponse) {
	c.stored[q.Cleaned] = resp
}

func newTestEngine(t *testing.T, strategies []strategy.Strategy, resultCache *fakeCache) *Engine {
	t.Helper()
	cfg := config.Default()
	gw := gateway.NewMock(8)
	registry := strategy.NewRegistry()
	for _, s := range strategies {
		registry.Register(s)
	}
	logger := zap.NewNop()
	engine := NewEngine(
		query.NewProcessor(gw, &cfg.Search, logger),
		registry,
		strategy.NewExecutor(time.Second, logger),
		NewSuggester(gw, cfg.Search.SuggestionThreshold, cfg.Search.MaxSuggestions, logger),
		nil,
		&cfg.Search,
		logger,
	)
	if resultCache != nil {
		engine.cache = resultCache
	}
	return engine
}

func hybridTypes() []models.SearchType {
	return []models.SearchType{models.SearchTypeHybrid, models.SearchTypeKeyword}
}

func TestEngine_HybridSearch(t *testing.T) {
	a := &fakeStrategy{name: "keyword", priority: 10, types: hybridTypes(),
		results: []models.SearchResult{res("x", 0.6), res("only-a", 0.3)}}
	b := &fakeStrategy{name: "semantic", priority: 20, types: []models.SearchType{models.SearchTypeHybrid, models.SearchTypeSemantic},
		results: []models.SearchResult{res("x", 0.5)}}
	e := newTestEngine(t, []strategy.Strategy{a, b}, nil)

	resp, err := e.Search(context.Background(), &models.SearchRequest{
		Query: "sorting algorithms", Type: models.SearchTypeHybrid,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalResults != 2 {
		t.Fatalf("expected 2 results, got %d", resp.TotalResults)
	}
	if resp.Results[0].SourceID != "x" {
		t.Errorf("boosted agreement should rank first, got %s", resp.Results[0].SourceID)
	}
	if got := resp.Results[0].Score; got < 0.659 || got > 0.661 {
		t.Errorf("boosted score = %f, want 0.66", got)
	}
	if resp.SearchID == "" {
		t.Error("expected search id")
	}
	if len(resp.Metadata.Strategies) != 2 {
		t.Errorf("expected 2 strategies in metadata, got %v", resp.Metadata.Strategies)
	}
	if resp.Metadata.CacheHit {
		t.Error("cache hit flag must default false")
	}
	// 2 results < threshold 5 → suggestions populated.
	if len(resp.Suggestions) == 0 {
		t.Error("expected low-result suggestions")
	}
}

func TestEngine_ShortQuery(t *testing.T) {
	e := newTestEngine(t, []strategy.Strategy{
		&fakeStrategy{name: "keyword", priority: 10, types: hybridTypes()},
	}, nil)
	_, err := e.Search(context.Background(), &models.SearchRequest{Query: "a", Type: models.SearchTypeKeyword})
	var qpe *models.QueryProcessingError
	if !errors.As(err, &qpe) {
		t.Fatalf("expected QueryProcessingError, got %v", err)
	}
	if qpe.Code != models.CodeQueryTooShort {
		t.Errorf("code = %q", qpe.Code)
	}
}

func TestEngine_NoStrategy(t *testing.T) {
	e := newTestEngine(t, []strategy.Strategy{
		&fakeStrategy{name: "keyword", priority: 10, types: hybridTypes()},
	}, nil)
	_, err := e.Search(context.Background(), &models.SearchRequest{
		Query: "explain entropy", Type: models.SearchTypeRAG,
	})
	var nse *models.NoStrategyError
	if !errors.As(err, &nse) {
		t.Fatalf("expected NoStrategyError, got %v", err)
	}
}

func TestEngine_StrategyFailureIsolation(t *testing.T) {
	good := &fakeStrategy{name: "semantic", priority: 20,
		types:   []models.SearchType{models.SearchTypeHybrid},
		results: []models.SearchResult{res("kept", 0.8)}}
	bad := &fakeStrategy{name: "keyword", priority: 10,
		types: []models.SearchType{models.SearchTypeHybrid},
		err:   errors.New("index unavailable")}
	e := newTestEngine(t, []strategy.Strategy{good, bad}, nil)

	resp, err := e.Search(context.Background(), &models.SearchRequest{
		Query: "information theory", Type: models.SearchTypeHybrid,
	})
	if err != nil {
		t.Fatalf("partial degradation must not fail the search: %v", err)
	}
	if resp.TotalResults != 1 || resp.Results[0].SourceID != "kept" {
		t.Errorf("expected surviving strategy results, got %v", resp.Results)
	}
}

func TestEngine_CacheHit(t *testing.T) {
	s := &fakeStrategy{name: "keyword", priority: 10, types: hybridTypes(),
		results: []models.SearchResult{res("fresh", 0.9)}}
	rc := &fakeCache{stored: map[string]*models.SearchResponse{
		"cached topic": {
			Results:      []models.SearchResult{res("cached", 0.7)},
			TotalResults: 1,
			Suggestions:  []string{},
		},
	}}
	e := newTestEngine(t, []strategy.Strategy{s}, rc)

	resp, err := e.Search(context.Background(), &models.SearchRequest{
		Query: "cached topic", Type: models.SearchTypeKeyword,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Metadata.CacheHit {
		t.Error("expected cache hit flag")
	}
	if resp.Results[0].SourceID != "cached" {
		t.Errorf("expected cached results, got %v", resp.Results)
	}
	if resp.SearchID == "" || resp.Metadata.SearchID != resp.SearchID {
		t.Error("cache hit should carry the current search id")
	}
}

func TestEngine_CacheMissStoresResponse(t *testing.T) {
	s := &fakeStrategy{name: "keyword", priority: 10, types: hybridTypes(),
		results: []models.SearchResult{res("fresh", 0.9)}}
	rc := &fakeCache{stored: map[string]*models.SearchResponse{}}
	e := newTestEngine(t, []strategy.Strategy{s}, rc)

	if _, err := e.Search(context.Background(), &models.SearchRequest{
		Query: "set theory", Type: models.SearchTypeKeyword,
	}); err != nil {
		t.Fatal(err)
	}
	if _, ok := rc.stored["set theory"]; !ok {
		t.Error("expected response stored in cache")
	}
}

func TestEngine_RAGResponseLifted(t *testing.T) {
	payload := &models.RAGResponse{Answer: "Entropy measures uncertainty.", Confidence: 0.8}
	passage := res("p1", 0.9)
	passage.Metadata = map[string]interface{}{models.MetadataKeyRAG: payload, "snippet": "entropy..."}
	rag := &fakeStrategy{name: "rag", priority: 30,
		types:   []models.SearchType{models.SearchTypeRAG},
		results: []models.SearchResult{passage}}
	e := newTestEngine(t, []strategy.Strategy{rag}, nil)

	resp, err := e.Search(context.Background(), &models.SearchRequest{
		Query: "what is entropy", Type: models.SearchTypeRAG,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.RAGResponse == nil || resp.RAGResponse.Answer != payload.Answer {
		t.Fatal("expected RAG payload lifted to response")
	}
	if _, still := resp.Results[0].Metadata[models.MetadataKeyRAG]; still {
		t.Error("payload should be removed from result metadata")
	}
}
