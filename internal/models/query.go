package models

// ProcessedQuery is the normalized, dispatch-ready form of a SearchRequest.
// It is created once by the query processor and never mutated afterwards;
// each instance is owned exclusively by the request that produced it.
type ProcessedQuery struct {
	// SearchID is a UUID assigned at processing time and threaded through
	// logging, metadata, and the final response.
	SearchID string

	// Original is the raw query text as received (trimmed).
	Original string

	// Cleaned is the lowercased, whitespace-collapsed, safe-character form.
	Cleaned string

	// Expanded is Cleaned plus any gateway-suggested alternative phrasings,
	// joined with spaces. Equals Cleaned when expansion is off or failed.
	Expanded string

	// Tokens are the stemmed, stop-word-free terms of Cleaned.
	Tokens []string

	Type    SearchType
	Filters map[string]string
	Options SearchOptions
	Context SearchContext
}

// SearchText returns the text strategies should dispatch: the expanded form
// when available, otherwise the cleaned form.
func (q *ProcessedQuery) SearchText() string {
	if q.Expanded != "" {
		return q.Expanded
	}
	return q.Cleaned
}
