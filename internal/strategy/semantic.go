package strategy

import (
	"context"
	"fmt"

	"github.com/studystack/kensaku/internal/gateway"
	"github.com/studystack/kensaku/internal/models"
	"github.com/studystack/kensaku/internal/vector"
)

// SemanticStrategy serves dense similarity search: the query is embedded via
// the generation gateway and matched against a vector backend.
type SemanticStrategy struct {
	gw      gateway.Gateway
	backend vector.Backend
	topK    int
}

// NewSemanticStrategy creates a semantic strategy fetching up to topK candidates.
func NewSemanticStrategy(gw gateway.Gateway, backend vector.Backend, topK int) *SemanticStrategy {
	return &SemanticStrategy{gw: gw, backend: backend, topK: topK}
}

func (s *SemanticStrategy) Name() string  { return "semantic" }
func (s *SemanticStrategy) Priority() int { return PrioritySemantic }

// CanHandle accepts semantic and hybrid queries.
func (s *SemanticStrategy) CanHandle(q *models.ProcessedQuery) bool {
	return q.Type == models.SearchTypeSemantic || q.Type == models.SearchTypeHybrid
}

// Search embeds the query text and returns the nearest backend entries.
func (s *SemanticStrategy) Search(ctx context.Context, q *models.ProcessedQuery) ([]models.SearchResult, error) {
	vectors, err := s.gw.Embed(ctx, []string{q.SearchText()})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed query: empty response")
	}
	results, err := s.backend.Search(ctx, vectors[0], q.Filters, s.topK)
	if err != nil {
		return nil, fmt.Errorf("vector backend: %w", err)
	}
	return results, nil
}
