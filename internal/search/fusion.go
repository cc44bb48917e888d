// Package search orchestrates the full pipeline: query processing, strategy
// selection and execution, result fusion, post-processing, and assembly.
package search

import (
	"github.com/studystack/kensaku/internal/models"
)

// DefaultHybridBoost is the per-extra-strategy score bonus applied when
// multiple strategies agree on a result. The constant is a tuning value;
// override it through SearchConfig.HybridBoost.
const DefaultHybridBoost = 0.1

// Fuse merges one result set per executed strategy into a single
// deduplicated list. RAG result sets pass through untouched. Duplicates
// (same sourceId and type) keep the higher raw score; for hybrid queries
// served by several strategies, a result found by k strategies gets its
// score multiplied by 1+(k-1)*boost, clamped to 1. The output is
// order-independent with respect to the strategy sets.
func Fuse(sets [][]models.SearchResult, searchType models.SearchType, boost float64) []models.SearchResult {
	if searchType == models.SearchTypeRAG {
		var out []models.SearchResult
		for _, set := range sets {
			out = append(out, set...)
		}
		return out
	}
	if boost <= 0 {
		boost = DefaultHybridBoost
	}

	best := make(map[models.ResultKey]models.SearchResult)
	agreement := make(map[models.ResultKey]int)
	for _, set := range sets {
		seenInSet := make(map[models.ResultKey]bool, len(set))
		for _, r := range set {
			key := r.Key()
			if current, ok := best[key]; !ok || r.Score > current.Score {
				best[key] = r
			}
			if !seenInSet[key] {
				seenInSet[key] = true
				agreement[key]++
			}
		}
	}

	applyBoost := searchType == models.SearchTypeHybrid && len(sets) >= 2
	fused := make([]models.SearchResult, 0, len(best))
	for key, r := range best {
		if applyBoost {
			if k := agreement[key]; k > 1 {
				factor := 1 + float64(k-1)*boost
				r = r.WithScore(models.ClampScore(r.Score * factor))
			}
		}
		fused = append(fused, r)
	}
	return fused
}
