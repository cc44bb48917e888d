package keyword

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/studystack/kensaku/internal/models"
)

// BleveIndex implements Backend using an embedded Bleve index.
type BleveIndex struct {
	index bleve.Index
}

func indexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	textField := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so exact course
	// vocabulary like "bayes" is matched as typed.
	textField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", textField)
	docMapping.AddFieldMappingsAt("content", textField)

	exactField := bleve.NewTextFieldMapping()
	exactField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", exactField)
	docMapping.AddFieldMappingsAt("type", exactField)
	docMapping.AddFieldMappingsAt("course_id", exactField)

	im.DefaultMapping = docMapping
	return im
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// reused; remove the directory to force a rebuild after mapping changes.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}
	index, err := bleve.New(path, indexMapping())
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// NewMemoryBleveIndex creates an in-memory Bleve index for tests and
// standalone runs without a configured index path.
func NewMemoryBleveIndex() (*BleveIndex, error) {
	index, err := bleve.NewMemOnly(indexMapping())
	if err != nil {
		return nil, fmt.Errorf("create in-memory bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index implements Backend.
func (b *BleveIndex) Index(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}
	fields := map[string]interface{}{
		"id":         doc.ID,
		"type":       doc.Type,
		"title":      doc.Title,
		"content":    doc.Content,
		"course_id":  doc.CourseID,
		"created_at": doc.CreatedAt.Format(time.RFC3339),
	}
	return b.index.Index(doc.ID, fields)
}

// Search implements Backend. Filters on "type" and "course_id" become exact
// term clauses conjoined with the match query. Scores are raw Bleve scores;
// the keyword strategy normalizes them.
func (b *BleveIndex) Search(ctx context.Context, query string, filters map[string]string, limit int) ([]models.SearchResult, error) {
	match := bleve.NewMatchQuery(query)
	var q blevequery.Query = match
	if len(filters) > 0 {
		clauses := []blevequery.Query{match}
		for _, field := range []string{"type", "course_id"} {
			if want, ok := filters[field]; ok && want != "" {
				tq := bleve.NewTermQuery(want)
				tq.SetField(field)
				clauses = append(clauses, tq)
			}
		}
		q = bleve.NewConjunctionQuery(clauses...)
	}

	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"*"}
	req.Highlight = bleve.NewHighlightWithStyle("html")
	req.Highlight.AddField("content")
	res, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	out := make([]models.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r := models.SearchResult{
			SourceID:   hit.ID,
			Type:       fieldString(hit.Fields, "type"),
			Score:      hit.Score,
			Title:      fieldString(hit.Fields, "title"),
			Highlights: hit.Fragments["content"],
			Metadata: map[string]interface{}{
				"course_id": fieldString(hit.Fields, "course_id"),
			},
		}
		if raw := fieldString(hit.Fields, "created_at"); raw != "" {
			if ts, parseErr := time.Parse(time.RFC3339, raw); parseErr == nil {
				r.CreatedAt = ts
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// Delete implements Backend.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Count implements Backend.
func (b *BleveIndex) Count() (uint64, error) {
	return b.index.DocCount()
}

// Close implements Backend.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

func fieldString(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
