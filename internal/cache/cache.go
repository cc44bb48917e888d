// Package cache provides the optional TTL-based search result cache.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/studystack/kensaku/internal/models"
)

// ResultCache is the optional short-circuit in front of strategy execution.
// Implementations are best-effort: a miss and an error look the same to the
// caller, and Set failures are swallowed.
type ResultCache interface {
	Get(ctx context.Context, q *models.ProcessedQuery) (*models.SearchResponse, bool)
	Set(ctx context.Context, q *models.ProcessedQuery, resp *models.SearchResponse)
}

// Key derives a deterministic cache key from the normalized query, type,
// filters, and the options that change the result page.
func Key(q *models.ProcessedQuery) string {
	filters := make([]string, 0, len(q.Filters))
	for k, v := range q.Filters {
		filters = append(filters, k+"="+v)
	}
	sort.Strings(filters)

	raw := fmt.Sprintf("%s|%s|%s|%d|%d|%s|%s|%g",
		q.Cleaned,
		q.Type,
		strings.Join(filters, ","),
		q.Options.Page,
		q.Options.Limit,
		q.Options.SortBy,
		q.Options.SortOrder,
		q.Options.MinScore,
	)
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("kensaku:search:%x", sum[:12])
}
