package gateway

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/studystack/kensaku/pkg/utils"
)

// Mock is a deterministic in-process gateway for tests and for running
// without an API key. Embeddings are derived from token hashes so texts
// sharing words are similar; completions and expansions are canned.
type Mock struct {
	Dimensions int

	// CompletionText overrides the canned completion when non-empty.
	CompletionText string
	// Phrasings overrides the canned expansion when non-nil.
	Phrasings []string

	// Failure injection for tests. A non-nil error makes the matching call fail.
	EmbedErr    error
	CompleteErr error
	ExpandErr   error
	HealthErr   error
}

// NewMock returns a mock gateway producing vectors of the given dimensions.
func NewMock(dimensions int) *Mock {
	if dimensions <= 0 {
		dimensions = 64
	}
	return &Mock{Dimensions: dimensions}
}

// Embed returns one deterministic unit vector per text, built as the
// normalized sum of per-token hash vectors so overlapping vocabularies
// produce high cosine similarity.
func (m *Mock) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if m.EmbedErr != nil {
		return nil, m.EmbedErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		emb := make([]float32, m.Dimensions)
		for _, token := range strings.Fields(strings.ToLower(text)) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(token))
			seed := h.Sum32()
			for d := 0; d < m.Dimensions; d++ {
				emb[d] += float32(math.Sin(float64(seed) * float64(d+1)))
			}
		}
		utils.NormalizeL2(emb)
		out[i] = emb
	}
	return out, nil
}

// Complete returns the configured or canned completion.
func (m *Mock) Complete(ctx context.Context, prompt, systemPrompt string) (*Completion, error) {
	if m.CompleteErr != nil {
		return nil, m.CompleteErr
	}
	text := m.CompletionText
	if text == "" {
		text = "This topic is covered in the retrieved course materials."
	}
	return &Completion{Text: text, Confidence: 0.9}, nil
}

// ExpandQuery returns the configured or canned alternative phrasings.
func (m *Mock) ExpandQuery(ctx context.Context, query string, searchContext []string) ([]string, error) {
	if m.ExpandErr != nil {
		return nil, m.ExpandErr
	}
	if m.Phrasings != nil {
		return m.Phrasings, nil
	}
	return []string{
		"introduction to " + query,
		query + " explained",
		query + " examples",
	}, nil
}

// HealthCheck reports the injected error, if any.
func (m *Mock) HealthCheck(ctx context.Context) error {
	return m.HealthErr
}
