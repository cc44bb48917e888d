package models

import "time"

// MetadataKeyRAG is the result metadata key under which the RAG strategy
// stores its generated answer payload (*RAGResponse).
const MetadataKeyRAG = "rag_response"

// SearchResult is one retrieved item. Results are value records: fusion and
// post-processing produce new values instead of mutating shared state.
type SearchResult struct {
	SourceID       string                 `json:"source_id"`
	Type           string                 `json:"type"`
	Score          float64                `json:"score"`
	RelevanceScore float64                `json:"relevance_score"`
	Title          string                 `json:"title"`
	CreatedAt      time.Time              `json:"created_at"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Highlights     []string               `json:"highlights,omitempty"`
}

// ResultKey uniquely identifies a result across strategies.
type ResultKey struct {
	SourceID string
	Type     string
}

// Key returns the deduplication key for the result.
func (r SearchResult) Key() ResultKey {
	return ResultKey{SourceID: r.SourceID, Type: r.Type}
}

// WithScore returns a copy of r with both score fields set to score.
func (r SearchResult) WithScore(score float64) SearchResult {
	r.Score = score
	r.RelevanceScore = score
	return r
}

// ClampScore bounds v to [0,1].
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
