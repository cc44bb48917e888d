package strategy

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/gateway"
	"github.com/studystack/kensaku/internal/models"
	"github.com/studystack/kensaku/internal/query"
	"github.com/studystack/kensaku/internal/vector"
)

const ragSystemPrompt = "You are a teaching assistant for an online course platform. " +
	"Answer the student's question using only the provided course passages. " +
	"If the passages do not contain the answer, say so briefly."

// RAGStrategy retrieves supporting passages and generates a natural-language
// answer. The generated payload rides on the first result's metadata and is
// lifted to the response top level by the assembler.
type RAGStrategy struct {
	gw      gateway.Gateway
	backend vector.Backend
	topK    int
	logger  *zap.Logger
}

// NewRAGStrategy creates a RAG strategy retrieving up to topK passages.
func NewRAGStrategy(gw gateway.Gateway, backend vector.Backend, topK int, logger *zap.Logger) *RAGStrategy {
	if topK <= 0 || topK > 10 {
		topK = 5
	}
	return &RAGStrategy{gw: gw, backend: backend, topK: topK, logger: logger}
}

func (s *RAGStrategy) Name() string  { return "rag" }
func (s *RAGStrategy) Priority() int { return PriorityRAG }

// CanHandle accepts RAG queries only; selection treats RAG as exclusive.
func (s *RAGStrategy) CanHandle(q *models.ProcessedQuery) bool {
	return q.Type == models.SearchTypeRAG
}

// Search retrieves passages, generates the answer, and asks for follow-up
// questions. Follow-up generation failures are swallowed.
func (s *RAGStrategy) Search(ctx context.Context, q *models.ProcessedQuery) ([]models.SearchResult, error) {
	vectors, err := s.gw.Embed(ctx, []string{q.Cleaned})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed question: empty response")
	}
	passages, err := s.backend.Search(ctx, vectors[0], q.Filters, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve passages: %w", err)
	}
	if len(passages) == 0 {
		return nil, nil
	}

	completion, err := s.gw.Complete(ctx, buildRAGPrompt(q, passages), ragSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	rag := &models.RAGResponse{
		Answer:     completion.Text,
		Confidence: models.ClampScore(completion.Confidence * meanScore(passages)),
		Reasoning:  fmt.Sprintf("answer grounded in %d retrieved passages", len(passages)),
	}
	if followUps, fuErr := s.gw.ExpandQuery(ctx, q.Original, query.ContextLines(q.Context)); fuErr != nil {
		s.logger.Warn("follow-up generation failed",
			zap.String("search_id", q.SearchID),
			zap.Error(fuErr),
		)
	} else if len(followUps) > 3 {
		rag.FollowUpQuestions = followUps[:3]
	} else {
		rag.FollowUpQuestions = followUps
	}

	results := make([]models.SearchResult, len(passages))
	copy(results, passages)
	first := results[0]
	md := make(map[string]interface{}, len(first.Metadata)+1)
	for k, v := range first.Metadata {
		md[k] = v
	}
	md[models.MetadataKeyRAG] = rag
	first.Metadata = md
	results[0] = first
	return results, nil
}

func buildRAGPrompt(q *models.ProcessedQuery, passages []models.SearchResult) string {
	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(q.Original)
	sb.WriteString("\n\nCourse passages:\n")
	for i, p := range passages {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, p.Title))
		if snippet, ok := p.Metadata["snippet"].(string); ok && snippet != "" {
			sb.WriteString(snippet)
			sb.WriteString("\n")
		}
	}
	for _, line := range query.ContextLines(q.Context) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func meanScore(results []models.SearchResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	return sum / float64(len(results))
}
