package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/gateway"
	"github.com/studystack/kensaku/internal/models"
	"github.com/studystack/kensaku/internal/query"
)

// Suggester proposes alternative phrasings when a search yields few results.
type Suggester struct {
	gw        gateway.Gateway
	threshold int
	max       int
	logger    *zap.Logger
}

// NewSuggester creates a suggester that activates below threshold results
// and returns at most max suggestions. gw may be nil (suggestions disabled).
func NewSuggester(gw gateway.Gateway, threshold, max int, logger *zap.Logger) *Suggester {
	if threshold <= 0 {
		threshold = 5
	}
	if max <= 0 {
		max = 3
	}
	return &Suggester{gw: gw, threshold: threshold, max: max, logger: logger}
}

// Suggest returns alternative phrasings for low-result searches. Gateway
// failures are swallowed: suggestions are never required for a valid response.
func (s *Suggester) Suggest(ctx context.Context, q *models.ProcessedQuery, resultCount int) []string {
	if s.gw == nil || resultCount >= s.threshold {
		return nil
	}
	phrasings, err := s.gw.ExpandQuery(ctx, q.Original, query.ContextLines(q.Context))
	if err != nil {
		s.logger.Warn("suggestion generation failed",
			zap.String("search_id", q.SearchID),
			zap.Error(err),
		)
		return nil
	}
	out := make([]string, 0, s.max)
	for _, p := range phrasings {
		if p == q.Original || p == q.Cleaned {
			continue
		}
		out = append(out, p)
		if len(out) == s.max {
			break
		}
	}
	return out
}
