package models

// RAGResponse is the generated answer payload attached to RAG searches.
type RAGResponse struct {
	Answer            string   `json:"answer"`
	Confidence        float64  `json:"confidence"`
	Reasoning         string   `json:"reasoning,omitempty"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`
}

// SearchMetadata records execution provenance for one search. Built last,
// read-only afterwards.
type SearchMetadata struct {
	TotalResults int      `json:"total_results"`
	SearchTime   int64    `json:"search_time_ms"`
	SearchID     string   `json:"search_id"`
	Strategies   []string `json:"strategies"`
	CacheHit     bool     `json:"cache_hit"`
}

// SearchResponse is the final payload returned to the caller.
type SearchResponse struct {
	Results      []SearchResult `json:"results"`
	TotalResults int            `json:"total_results"`
	SearchTime   int64          `json:"search_time_ms"`
	SearchID     string         `json:"search_id"`
	Suggestions  []string       `json:"suggestions"`
	RAGResponse  *RAGResponse   `json:"rag_response,omitempty"`
	Metadata     SearchMetadata `json:"metadata"`
}
