package search

import (
	"sort"
	"strings"

	"github.com/studystack/kensaku/internal/models"
)

// PostProcess filters, sorts, and paginates the fused list. It returns the
// requested page and the total count after filtering (before pagination).
func PostProcess(results []models.SearchResult, opts models.SearchOptions) ([]models.SearchResult, int) {
	if opts.MinScore > 0 {
		filtered := make([]models.SearchResult, 0, len(results))
		for _, r := range results {
			if r.Score >= opts.MinScore {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	sortResults(results, opts)

	total := len(results)
	start := opts.Offset()
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return results[start:end], total
}

// sortResults orders by the requested key. Relevance and date default to
// descending, title to ascending; sortOrder inverts the natural direction.
// Ties always break by ascending sourceId to keep output reproducible.
func sortResults(results []models.SearchResult, opts models.SearchOptions) {
	var less func(a, b models.SearchResult) bool
	switch opts.SortBy {
	case models.SortByDate:
		less = func(a, b models.SearchResult) bool { return a.CreatedAt.After(b.CreatedAt) }
	case models.SortByTitle:
		less = func(a, b models.SearchResult) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default:
		less = func(a, b models.SearchResult) bool { return a.Score > b.Score }
	}

	invert := false
	switch opts.SortOrder {
	case "asc":
		invert = opts.SortBy != models.SortByTitle
	case "desc":
		invert = opts.SortBy == models.SortByTitle
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if equalForSort(a, b, opts.SortBy) {
			return a.SourceID < b.SourceID
		}
		if invert {
			return less(b, a)
		}
		return less(a, b)
	})
}

func equalForSort(a, b models.SearchResult, sortBy string) bool {
	switch sortBy {
	case models.SortByDate:
		return a.CreatedAt.Equal(b.CreatedAt)
	case models.SortByTitle:
		return strings.EqualFold(a.Title, b.Title)
	default:
		return a.Score == b.Score
	}
}
