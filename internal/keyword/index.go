// Package keyword provides the full-text retrieval backend port and its
// embedded Bleve implementation.
package keyword

import (
	"context"
	"time"

	"github.com/studystack/kensaku/internal/models"
)

// Document is one indexable content item (course, lesson, uploaded document).
type Document struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CourseID  string    `json:"course_id,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Backend is the full-text retrieval port consumed by the keyword strategy.
// Implementations own all persistent state.
type Backend interface {
	Index(ctx context.Context, doc *Document) error
	Search(ctx context.Context, query string, filters map[string]string, limit int) ([]models.SearchResult, error)
	Delete(ctx context.Context, id string) error
	Count() (uint64, error)
	Close() error
}
