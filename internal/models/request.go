// Package models defines the request, query, and result types shared across the search pipeline.
package models

// SearchType selects which retrieval strategies a request may use.
type SearchType string

const (
	SearchTypeKeyword  SearchType = "keyword"
	SearchTypeSemantic SearchType = "semantic"
	SearchTypeRAG      SearchType = "rag"
	SearchTypeHybrid   SearchType = "hybrid"
)

// Valid reports whether t is a known search type.
func (t SearchType) Valid() bool {
	switch t {
	case SearchTypeKeyword, SearchTypeSemantic, SearchTypeRAG, SearchTypeHybrid:
		return true
	}
	return false
}

// Sort keys accepted in SearchOptions.SortBy.
const (
	SortByRelevance = "relevance"
	SortByDate      = "date"
	SortByTitle     = "title"
)

// SearchOptions holds paging, sorting, and feature flags for one request.
type SearchOptions struct {
	Page              int     `json:"page,omitempty"`
	Limit             int     `json:"limit,omitempty"`
	IncludeHighlights bool    `json:"include_highlights,omitempty"`
	IncludeFacets     bool    `json:"include_facets,omitempty"`
	IncludeRAG        bool    `json:"include_rag,omitempty"`
	SortBy            string  `json:"sort_by,omitempty"`
	SortOrder         string  `json:"sort_order,omitempty"`
	MinScore          float64 `json:"min_score,omitempty"`
}

// SearchContext carries caller context used to scope expansion and RAG prompts.
type SearchContext struct {
	CourseID        string   `json:"course_id,omitempty"`
	PreviousQueries []string `json:"previous_queries,omitempty"`
}

// SearchRequest is the caller-facing search input.
type SearchRequest struct {
	Query   string            `json:"query"`
	Type    SearchType        `json:"type,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	Options SearchOptions     `json:"options,omitempty"`
	Context SearchContext     `json:"context,omitempty"`
}

// Validate normalizes the request in place: defaults the search type to
// hybrid, fills paging and sort defaults, and caps the limit at maxLimit.
// Non-positive limits fall back to built-in values. Length checks on the
// query text belong to the query processor, not here.
func (r *SearchRequest) Validate(defaultLimit, maxLimit int) error {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if r.Type == "" {
		r.Type = SearchTypeHybrid
	}
	if !r.Type.Valid() {
		return &QueryProcessingError{
			Code:    CodeInvalidSearchType,
			Message: "unknown search type: " + string(r.Type),
		}
	}
	if r.Options.Page <= 0 {
		r.Options.Page = 1
	}
	if r.Options.Limit <= 0 {
		r.Options.Limit = defaultLimit
	}
	if r.Options.Limit > maxLimit {
		r.Options.Limit = maxLimit
	}
	if r.Options.SortBy == "" {
		r.Options.SortBy = SortByRelevance
	}
	switch r.Options.SortBy {
	case SortByRelevance, SortByDate, SortByTitle:
	default:
		return &QueryProcessingError{
			Code:    CodeInvalidSortKey,
			Message: "unknown sort key: " + r.Options.SortBy,
		}
	}
	return nil
}

// Offset returns the pagination offset implied by page and limit.
func (o SearchOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}
