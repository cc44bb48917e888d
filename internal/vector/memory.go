package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/studystack/kensaku/internal/models"
)

// MemoryIndex is a brute-force in-memory vector backend. Suitable for tests
// and standalone deployments with modest corpora.
type MemoryIndex struct {
	dimensions int
	mu         sync.RWMutex
	entries    []Entry
}

// NewMemoryIndex creates an in-memory vector backend with the given dimension.
func NewMemoryIndex(dimensions int) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryIndex{dimensions: dimensions}, nil
}

// Add appends entries, copying each vector.
func (m *MemoryIndex) Add(ctx context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if len(e.Vector) != m.dimensions {
			return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(e.Vector), m.dimensions)
		}
		vec := make([]float32, m.dimensions)
		copy(vec, e.Vector)
		e.Vector = vec
		m.entries = append(m.entries, e)
	}
	return nil
}

// Search returns the top-k entries by cosine similarity, filtered to entries
// matching every supplied filter (type, course_id). Scores are clamped to [0,1].
func (m *MemoryIndex) Search(ctx context.Context, query []float32, filters map[string]string, k int) ([]models.SearchResult, error) {
	if len(query) != m.dimensions {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(query), m.dimensions)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.entries) == 0 {
		return nil, nil
	}
	scored := make([]models.SearchResult, 0, len(m.entries))
	for _, e := range m.entries {
		if !matchesFilters(e, filters) {
			continue
		}
		sim, err := CosineSimilarity(query, e.Vector)
		if err != nil {
			return nil, err
		}
		score := models.ClampScore(sim)
		scored = append(scored, models.SearchResult{
			SourceID:       e.ID,
			Type:           e.Type,
			Score:          score,
			RelevanceScore: score,
			Title:          e.Title,
			CreatedAt:      e.CreatedAt,
			Metadata: map[string]interface{}{
				"course_id": e.CourseID,
				"snippet":   e.Snippet,
			},
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].SourceID < scored[j].SourceID
	})
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Remove deletes entries by ID.
func (m *MemoryIndex) Remove(ctx context.Context, ids []string) error {
	removeSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		removeSet[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if !removeSet[e.ID] {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

// Size returns the number of entries in the index.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close is a no-op for MemoryIndex.
func (m *MemoryIndex) Close() error {
	return nil
}

func matchesFilters(e Entry, filters map[string]string) bool {
	for key, want := range filters {
		switch key {
		case "type":
			if e.Type != want {
				return false
			}
		case "course_id":
			if e.CourseID != want {
				return false
			}
		}
	}
	return true
}
