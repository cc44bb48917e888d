package vector

import (
	"context"
	"time"

	"github.com/studystack/kensaku/internal/models"
)

// Entry is one embedded content item held by a vector backend.
type Entry struct {
	ID        string
	Type      string
	Title     string
	CourseID  string
	Snippet   string
	Vector    []float32
	CreatedAt time.Time
}

// Backend is the vector similarity port consumed by the semantic and RAG
// strategies. Implementations own all persistent state.
type Backend interface {
	Add(ctx context.Context, entries []Entry) error
	Search(ctx context.Context, query []float32, filters map[string]string, k int) ([]models.SearchResult, error)
	Remove(ctx context.Context, ids []string) error
	Size() int
	Close() error
}
