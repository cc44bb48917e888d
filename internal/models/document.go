package models

import (
	"fmt"
	"time"
)

// DocumentInput is the ingestion payload for indexable course content.
// One input fans out to both the keyword index and the vector index.
type DocumentInput struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	CourseID string   `json:"course_id,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Validate checks required fields and fills defaults.
func (d *DocumentInput) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document id is required")
	}
	if d.Title == "" && d.Content == "" {
		return fmt.Errorf("document must have a title or content")
	}
	if d.Type == "" {
		d.Type = "lesson"
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	return nil
}
