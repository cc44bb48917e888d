package gateway

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Config holds OpenAI-compatible provider settings.
type Config struct {
	APIKey          string
	BaseURL         string
	CompletionModel string
	EmbeddingModel  string
	Dimensions      int
	Temperature     float32
	MaxTokens       int
}

// OpenAIGateway implements Gateway against any OpenAI-compatible API.
type OpenAIGateway struct {
	client          *openai.Client
	completionModel string
	embeddingModel  openai.EmbeddingModel
	dimensions      int
	temperature     float32
	maxTokens       int
	logger          *zap.Logger
}

// NewOpenAIGateway creates a gateway backed by the OpenAI-compatible API at
// cfg.BaseURL (the public OpenAI endpoint when empty).
func NewOpenAIGateway(cfg *Config, logger *zap.Logger) *OpenAIGateway {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &OpenAIGateway{
		client:          openai.NewClientWithConfig(clientCfg),
		completionModel: cfg.CompletionModel,
		embeddingModel:  openai.EmbeddingModel(cfg.EmbeddingModel),
		dimensions:      cfg.Dimensions,
		temperature:     cfg.Temperature,
		maxTokens:       maxTokens,
		logger:          logger,
	}
}

// Embed implements Gateway.
func (g *OpenAIGateway) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          g.embeddingModel,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if g.dimensions > 0 {
		req.Dimensions = g.dimensions
	}
	resp, err := g.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: asked %d, got %d", len(texts), len(resp.Data))
	}
	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// Complete implements Gateway.
func (g *OpenAIGateway) Complete(ctx context.Context, prompt, systemPrompt string) (*Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.completionModel,
		Messages:    messages,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}
	return &Completion{
		Text:        strings.TrimSpace(resp.Choices[0].Message.Content),
		Confidence:  completionConfidence(resp.Choices[0].FinishReason),
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

const expandSystemPrompt = "You rewrite search queries for an educational content platform. " +
	"Given a query, produce alternative phrasings a student might use. " +
	"Return one phrasing per line, no numbering, no commentary."

// ExpandQuery implements Gateway by asking the completion model for
// alternative phrasings and parsing one per line.
func (g *OpenAIGateway) ExpandQuery(ctx context.Context, query string, searchContext []string) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("Query: ")
	sb.WriteString(query)
	if len(searchContext) > 0 {
		sb.WriteString("\nContext:\n")
		for _, line := range searchContext {
			sb.WriteString("- ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nGive 3 to 5 alternative phrasings.")

	completion, err := g.Complete(ctx, sb.String(), expandSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("expand query: %w", err)
	}
	phrasings := ParsePhrasings(completion.Text, 5)
	g.logger.Debug("query expanded",
		zap.String("query", query),
		zap.Int("phrasings", len(phrasings)),
	)
	return phrasings, nil
}

// HealthCheck implements Gateway via the free model-listing endpoint.
func (g *OpenAIGateway) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// ParsePhrasings splits model output into at most max distinct phrasings,
// stripping list markers and surrounding quotes the model tends to add.
func ParsePhrasings(text string, max int) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, max)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789.) ")
		line = strings.Trim(line, `"'`)
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}

func completionConfidence(reason openai.FinishReason) float64 {
	// Truncated answers are less trustworthy than naturally finished ones.
	if reason == openai.FinishReasonStop {
		return 0.9
	}
	return 0.5
}
