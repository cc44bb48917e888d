// Package gateway abstracts the text-generation and embedding service used
// by query expansion, the semantic strategy, and the RAG strategy.
package gateway

import "context"

// Completion is the result of a single text completion.
type Completion struct {
	Text string
	// Confidence is a provider-reported or heuristic confidence in [0,1].
	Confidence float64
	// TotalTokens is the token usage reported by the provider, 0 if unknown.
	TotalTokens int
}

// Gateway is the generation-gateway contract consumed by the search core.
// Implementations are stateless and safe for concurrent use.
type Gateway interface {
	// Embed returns one vector per input text. All vectors share the same
	// dimensionality.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Complete generates text for the prompt. systemPrompt may be empty.
	Complete(ctx context.Context, prompt, systemPrompt string) (*Completion, error)

	// ExpandQuery returns up to a handful of alternative phrasings for the
	// query. searchContext lines (course, prior queries) scope the rewrite.
	ExpandQuery(ctx context.Context, query string, searchContext []string) ([]string, error)

	// HealthCheck verifies the provider is reachable.
	HealthCheck(ctx context.Context) error
}
