// Package query normalizes raw search requests into dispatch-ready queries.
package query

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/go-porterstemmer"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/config"
	"github.com/studystack/kensaku/internal/gateway"
	"github.com/studystack/kensaku/internal/models"
)

// unsafeChars strips everything outside word characters, whitespace, quotes,
// and hyphens before tokenization.
var unsafeChars = regexp.MustCompile(`[^\w\s'"-]`)

var whitespace = regexp.MustCompile(`\s+`)

// Processor validates, cleans, tokenizes, and optionally expands queries.
type Processor struct {
	gw     gateway.Gateway
	cfg    *config.SearchConfig
	logger *zap.Logger
}

// NewProcessor creates a query processor. gw may be nil, which disables
// expansion regardless of configuration.
func NewProcessor(gw gateway.Gateway, cfg *config.SearchConfig, logger *zap.Logger) *Processor {
	return &Processor{gw: gw, cfg: cfg, logger: logger}
}

// Process turns a raw request into an immutable ProcessedQuery. Length and
// shape violations return a QueryProcessingError; expansion failures are
// advisory and fall back to the cleaned text.
func (p *Processor) Process(ctx context.Context, req *models.SearchRequest) (*models.ProcessedQuery, error) {
	if err := req.Validate(p.cfg.DefaultLimit, p.cfg.MaxLimit); err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(req.Query)
	length := utf8.RuneCountInString(raw)
	if length < p.cfg.MinQueryLength {
		return nil, &models.QueryProcessingError{
			Code:    models.CodeQueryTooShort,
			Message: fmt.Sprintf("query too short: minimum %d characters", p.cfg.MinQueryLength),
		}
	}
	if length > p.cfg.MaxQueryLength {
		return nil, &models.QueryProcessingError{
			Code:    models.CodeQueryTooLong,
			Message: fmt.Sprintf("query too long: maximum %d characters", p.cfg.MaxQueryLength),
		}
	}

	cleaned := Clean(raw)
	if cleaned == "" {
		return nil, &models.QueryProcessingError{
			Code:    models.CodeQueryEmpty,
			Message: "query contains no searchable characters",
		}
	}
	tokens := Tokenize(cleaned)

	pq := &models.ProcessedQuery{
		SearchID: uuid.New().String(),
		Original: raw,
		Cleaned:  cleaned,
		Expanded: cleaned,
		Tokens:   tokens,
		Type:     req.Type,
		Filters:  req.Filters,
		Options:  req.Options,
		Context:  req.Context,
	}

	// Expansion is advisory and skipped for RAG requests, whose prompt
	// context already carries the full question.
	if p.cfg.ExpansionEnabled && p.gw != nil && req.Type != models.SearchTypeRAG {
		phrasings, err := p.gw.ExpandQuery(ctx, cleaned, ContextLines(req.Context))
		if err != nil {
			p.logger.Warn("query expansion failed, using original text",
				zap.String("search_id", pq.SearchID),
				zap.Error(err),
			)
		} else if len(phrasings) > 0 {
			pq.Expanded = cleaned + " " + strings.Join(phrasings, " ")
		}
	}

	return pq, nil
}

// Clean lowercases the text, strips characters outside the safe set, and
// collapses runs of whitespace.
func Clean(text string) string {
	cleaned := strings.ToLower(text)
	cleaned = unsafeChars.ReplaceAllString(cleaned, " ")
	cleaned = whitespace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Tokenize splits cleaned text on whitespace, drops stop words and tokens
// of length <= 1, and Porter-stems the rest.
func Tokenize(cleaned string) []string {
	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `'"-`)
		if utf8.RuneCountInString(f) <= 1 {
			continue
		}
		if IsStopWord(f) {
			continue
		}
		tokens = append(tokens, porterstemmer.StemString(f))
	}
	return tokens
}

// ContextLines flattens the search context into prompt-ready lines.
func ContextLines(sc models.SearchContext) []string {
	var lines []string
	if sc.CourseID != "" {
		lines = append(lines, "course: "+sc.CourseID)
	}
	for _, prev := range sc.PreviousQueries {
		lines = append(lines, "previous query: "+prev)
	}
	return lines
}
