package strategy

import (
	"context"
	"fmt"

	"github.com/studystack/kensaku/internal/keyword"
	"github.com/studystack/kensaku/internal/models"
)

// Strategy priorities. RAG outranks semantic outranks keyword, so hybrid
// selection prefers the two richer retrieval paths when all are registered.
const (
	PriorityKeyword  = 10
	PrioritySemantic = 20
	PriorityRAG      = 30
)

// KeywordStrategy serves full-text search through a keyword backend.
type KeywordStrategy struct {
	backend keyword.Backend
	topK    int
}

// NewKeywordStrategy creates a keyword strategy fetching up to topK candidates.
func NewKeywordStrategy(backend keyword.Backend, topK int) *KeywordStrategy {
	return &KeywordStrategy{backend: backend, topK: topK}
}

func (s *KeywordStrategy) Name() string  { return "keyword" }
func (s *KeywordStrategy) Priority() int { return PriorityKeyword }

// CanHandle accepts keyword and hybrid queries that produced tokens.
func (s *KeywordStrategy) CanHandle(q *models.ProcessedQuery) bool {
	if q.Type != models.SearchTypeKeyword && q.Type != models.SearchTypeHybrid {
		return false
	}
	return len(q.Tokens) > 0
}

// Search queries the backend and normalizes raw scores to [0,1] by the
// maximum, so keyword scores are comparable with cosine-based ones.
// Highlight fragments are dropped unless the request asked for them.
func (s *KeywordStrategy) Search(ctx context.Context, q *models.ProcessedQuery) ([]models.SearchResult, error) {
	hits, err := s.backend.Search(ctx, q.SearchText(), q.Filters, s.topK)
	if err != nil {
		return nil, fmt.Errorf("keyword backend: %w", err)
	}
	if !q.Options.IncludeHighlights {
		for i := range hits {
			hits[i].Highlights = nil
		}
	}
	return normalizeByMax(hits), nil
}

func normalizeByMax(hits []models.SearchResult) []models.SearchResult {
	if len(hits) == 0 {
		return hits
	}
	maxScore := hits[0].Score
	for _, h := range hits {
		if h.Score > maxScore {
			maxScore = h.Score
		}
	}
	out := make([]models.SearchResult, len(hits))
	for i, h := range hits {
		score := 0.0
		if maxScore > 0 {
			score = models.ClampScore(h.Score / maxScore)
		}
		out[i] = h.WithScore(score)
	}
	return out
}
