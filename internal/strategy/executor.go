package strategy

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/models"
)

// Executor runs selected strategies concurrently, isolating failures.
type Executor struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewExecutor creates an executor applying timeout to each strategy call.
func NewExecutor(timeout time.Duration, logger *zap.Logger) *Executor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Executor{timeout: timeout, logger: logger}
}

// Execute fans the query out to every strategy and joins on all of them.
// The returned slice has one result set per strategy, index-aligned with the
// input. A strategy that fails or times out contributes an empty set; the
// search as a whole never fails here.
func (e *Executor) Execute(ctx context.Context, strategies []Strategy, q *models.ProcessedQuery) [][]models.SearchResult {
	sets := make([][]models.SearchResult, len(strategies))
	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(i int, s Strategy) {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			start := time.Now()
			results, err := s.Search(sctx, q)
			if err != nil {
				e.logger.Warn("strategy failed, continuing without it",
					zap.String("strategy", s.Name()),
					zap.String("search_id", q.SearchID),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err),
				)
				return
			}
			sets[i] = results
			e.logger.Debug("strategy completed",
				zap.String("strategy", s.Name()),
				zap.String("search_id", q.SearchID),
				zap.Int("results", len(results)),
				zap.Duration("elapsed", time.Since(start)),
			)
		}(i, s)
	}
	wg.Wait()
	return sets
}
