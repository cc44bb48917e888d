package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/cache"
	"github.com/studystack/kensaku/internal/config"
	"github.com/studystack/kensaku/internal/models"
	"github.com/studystack/kensaku/internal/query"
	"github.com/studystack/kensaku/internal/strategy"
)

// Engine runs the search pipeline for one request at a time. All
// dependencies are stateless singletons; all per-request state lives in the
// ProcessedQuery and intermediate lists owned by the call.
type Engine struct {
	processor *query.Processor
	registry  *strategy.Registry
	executor  *strategy.Executor
	suggester *Suggester
	cache     cache.ResultCache
	cfg       *config.SearchConfig
	logger    *zap.Logger
}

// NewEngine creates a search engine. resultCache may be nil (caching disabled).
func NewEngine(
	processor *query.Processor,
	registry *strategy.Registry,
	executor *strategy.Executor,
	suggester *Suggester,
	resultCache cache.ResultCache,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		processor: processor,
		registry:  registry,
		executor:  executor,
		suggester: suggester,
		cache:     resultCache,
		cfg:       cfg,
		logger:    logger,
	}
}

// Strategies returns the registered strategy names, for the status endpoint.
func (e *Engine) Strategies() []string {
	return e.registry.Names()
}

// Search runs the full pipeline and returns the assembled response.
// Client-side problems surface as QueryProcessingError or NoStrategyError;
// anything unexpected after processing is wrapped in a SearchError.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	start := time.Now()

	pq, err := e.processor.Process(ctx, req)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("query processed",
		zap.String("search_id", pq.SearchID),
		zap.String("type", string(pq.Type)),
		zap.Int("tokens", len(pq.Tokens)),
	)

	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, pq); ok {
			cached.SearchID = pq.SearchID
			cached.SearchTime = time.Since(start).Milliseconds()
			cached.Metadata.SearchID = pq.SearchID
			cached.Metadata.SearchTime = cached.SearchTime
			cached.Metadata.CacheHit = true
			return cached, nil
		}
	}

	selected, err := e.registry.Select(pq)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(selected))
	for i, s := range selected {
		names[i] = s.Name()
	}

	sets := e.executor.Execute(ctx, selected, pq)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &models.SearchError{Query: pq.Original, SearchID: pq.SearchID, Err: ctxErr}
	}

	fused := Fuse(sets, pq.Type, e.cfg.HybridBoost)
	ragPayload, fused := liftRAGPayload(fused)
	page, total := PostProcess(fused, pq.Options)
	suggestions := e.suggester.Suggest(ctx, pq, total)
	if suggestions == nil {
		suggestions = []string{}
	}

	elapsed := time.Since(start).Milliseconds()
	resp := &models.SearchResponse{
		Results:      page,
		TotalResults: total,
		SearchTime:   elapsed,
		SearchID:     pq.SearchID,
		Suggestions:  suggestions,
		Metadata: models.SearchMetadata{
			TotalResults: total,
			SearchTime:   elapsed,
			SearchID:     pq.SearchID,
			Strategies:   names,
			CacheHit:     false,
		},
	}
	if pq.Type == models.SearchTypeRAG || pq.Options.IncludeRAG {
		resp.RAGResponse = ragPayload
	}

	if e.cache != nil {
		e.cache.Set(ctx, pq, resp)
	}
	e.logger.Info("search completed",
		zap.String("search_id", pq.SearchID),
		zap.String("type", string(pq.Type)),
		zap.Strings("strategies", names),
		zap.Int("total_results", total),
		zap.Int64("elapsed_ms", elapsed),
	)
	return resp, nil
}

// liftRAGPayload extracts the generated answer a RAG strategy attached to a
// result's metadata, returning the results with the payload key removed.
func liftRAGPayload(results []models.SearchResult) (*models.RAGResponse, []models.SearchResult) {
	for i, r := range results {
		payload, ok := r.Metadata[models.MetadataKeyRAG].(*models.RAGResponse)
		if !ok {
			continue
		}
		md := make(map[string]interface{}, len(r.Metadata)-1)
		for k, v := range r.Metadata {
			if k != models.MetadataKeyRAG {
				md[k] = v
			}
		}
		r.Metadata = md
		results[i] = r
		return payload, results
	}
	return nil, results
}
