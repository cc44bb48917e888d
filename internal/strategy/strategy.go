// Package strategy defines pluggable retrieval strategies, their registry,
// and the concurrent executor that fans a query out across them.
package strategy

import (
	"context"
	"sort"

	"github.com/studystack/kensaku/internal/models"
)

// Strategy is one retrieval capability. Implementations are stateless,
// registered once at startup, and shared across concurrent requests.
// CanHandle must be pure.
type Strategy interface {
	Name() string
	// Priority orders selection; higher is tried first.
	Priority() int
	CanHandle(q *models.ProcessedQuery) bool
	Search(ctx context.Context, q *models.ProcessedQuery) ([]models.SearchResult, error)
}

// Registry holds the ordered set of registered strategies.
type Registry struct {
	strategies []Strategy
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a strategy, keeping the set sorted by descending priority.
// Equal priorities keep registration order (the sort is stable).
func (r *Registry) Register(s Strategy) {
	r.strategies = append(r.strategies, s)
	sort.SliceStable(r.strategies, func(i, j int) bool {
		return r.strategies[i].Priority() > r.strategies[j].Priority()
	})
}

// Names returns the registered strategy names in priority order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}

// Select returns the strategies that will serve the query, in priority
// order. RAG queries are exclusive (first match only); hybrid queries stop
// at two strategies. No match is a NoStrategyError.
func (r *Registry) Select(q *models.ProcessedQuery) ([]Strategy, error) {
	var selected []Strategy
	for _, s := range r.strategies {
		if !s.CanHandle(q) {
			continue
		}
		selected = append(selected, s)
		if q.Type == models.SearchTypeRAG {
			break
		}
		if q.Type == models.SearchTypeHybrid && len(selected) == 2 {
			break
		}
	}
	if len(selected) == 0 {
		return nil, &models.NoStrategyError{Type: q.Type}
	}
	return selected, nil
}
