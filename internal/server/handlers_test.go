package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/config"
	"github.com/studystack/kensaku/internal/gateway"
	"github.com/studystack/kensaku/internal/keyword"
	"github.com/studystack/kensaku/internal/models"
	"github.com/studystack/kensaku/internal/query"
	"github.com/studystack/kensaku/internal/search"
	"github.com/studystack/kensaku/internal/strategy"
	"github.com/studystack/kensaku/internal/vector"
)

func newTestServer(t *testing.T) *Server {
	return newTestServerWith(t, gateway.NewMock(32))
}

func newTestServerWith(t *testing.T, gw *gateway.Mock) *Server {
	t.Helper()
	cfg := config.Default()
	logger := zap.NewNop()

	kw, err := keyword.NewMemoryBleveIndex()
	if err != nil {
		t.Fatalf("bleve index: %v", err)
	}
	t.Cleanup(func() { _ = kw.Close() })
	vec, err := vector.NewMemoryIndex(32)
	if err != nil {
		t.Fatalf("vector index: %v", err)
	}

	registry := strategy.NewRegistry()
	registry.Register(strategy.NewKeywordStrategy(kw, cfg.Search.TopKCandidates))
	registry.Register(strategy.NewSemanticStrategy(gw, vec, cfg.Search.TopKCandidates))
	registry.Register(strategy.NewRAGStrategy(gw, vec, 5, logger))

	engine := search.NewEngine(
		query.NewProcessor(gw, &cfg.Search, logger),
		registry,
		strategy.NewExecutor(10*time.Second, logger),
		search.NewSuggester(gw, cfg.Search.SuggestionThreshold, cfg.Search.MaxSuggestions, logger),
		nil,
		&cfg.Search,
		logger,
	)
	return NewServer(engine, kw, vec, gw, &cfg.Server, logger)
}

func indexDocument(t *testing.T, srv *Server, doc models.DocumentInput) {
	t.Helper()
	body, _ := json.Marshal(doc)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("index document: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestHandleIndexAndSearch(t *testing.T) {
	srv := newTestServer(t)
	indexDocument(t, srv, models.DocumentInput{
		ID: "lesson-1", Type: "lesson", Title: "Binary Search Trees",
		Content: "A binary search tree keeps keys in sorted order for fast lookup.",
	})
	indexDocument(t, srv, models.DocumentInput{
		ID: "lesson-2", Type: "lesson", Title: "Hash Tables",
		Content: "Hash tables map keys to buckets using a hash function.",
	})

	body, _ := json.Marshal(models.SearchRequest{Query: "binary search", Type: models.SearchTypeKeyword})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalResults == 0 {
		t.Fatal("expected results")
	}
	if resp.Results[0].SourceID != "lesson-1" {
		t.Errorf("top result = %s, want lesson-1", resp.Results[0].SourceID)
	}
	if resp.SearchID == "" {
		t.Error("expected search id in response")
	}
}

func TestHandleSearchValidationError(t *testing.T) {
	srv := newTestServer(t)
	body, _ := json.Marshal(models.SearchRequest{Query: "a"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload["code"] != models.CodeQueryTooShort {
		t.Errorf("code = %q, want %q", payload["code"], models.CodeQueryTooShort)
	}
}

func TestHandleSearchBadBody(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestHandleIndexDocumentEmbedFailureRollsBack(t *testing.T) {
	gw := gateway.NewMock(32)
	gw.EmbedErr = errors.New("gateway down")
	srv := newTestServerWith(t, gw)

	body, _ := json.Marshal(models.DocumentInput{
		ID: "lesson-7", Type: "lesson", Title: "Sorting",
		Content: "Quicksort partitions around a pivot.",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}

	count, err := srv.keyword.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("keyword count = %d, want 0 after rollback", count)
	}
	if srv.vectors.Size() != 0 {
		t.Errorf("vector size = %d, want 0", srv.vectors.Size())
	}
}

func TestHandleDeleteDocument(t *testing.T) {
	srv := newTestServer(t)
	indexDocument(t, srv, models.DocumentInput{
		ID: "lesson-9", Type: "lesson", Title: "Recursion",
		Content: "A recursive function calls itself on a smaller input.",
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/lesson-9", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	count, err := srv.keyword.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("keyword count after delete = %d, want 0", count)
	}
	if srv.vectors.Size() != 0 {
		t.Errorf("vector size after delete = %d, want 0", srv.vectors.Size())
	}
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t)
	indexDocument(t, srv, models.DocumentInput{
		ID: "lesson-3", Type: "lesson", Title: "Graphs",
		Content: "A graph is a set of vertices connected by edges.",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode status body: %v", err)
	}
	if payload["documents"].(float64) != 1 {
		t.Errorf("documents = %v, want 1", payload["documents"])
	}
	if payload["vector_index_size"].(float64) != 1 {
		t.Errorf("vector_index_size = %v, want 1", payload["vector_index_size"])
	}
	if len(payload["strategies"].([]interface{})) != 3 {
		t.Errorf("strategies = %v, want 3 entries", payload["strategies"])
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestServerStop(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("stop before start should be a no-op: %v", err)
	}
}
