package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/keyword"
	"github.com/studystack/kensaku/internal/models"
	"github.com/studystack/kensaku/internal/vector"
	"github.com/studystack/kensaku/pkg/utils"
)

const snippetLength = 200

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	s.logger.Debug("search request",
		zap.String("query", req.Query),
		zap.String("type", string(req.Type)),
	)
	response, err := s.engine.Search(r.Context(), &req)
	if err != nil {
		s.respondSearchError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

// respondSearchError maps pipeline errors to HTTP statuses. Validation and
// strategy selection problems are the client's fault; everything else is ours.
func (s *Server) respondSearchError(w http.ResponseWriter, err error) {
	var qpe *models.QueryProcessingError
	if errors.As(err, &qpe) {
		s.respondError(w, http.StatusBadRequest, qpe.Code, qpe.Message)
		return
	}
	var nse *models.NoStrategyError
	if errors.As(err, &nse) {
		s.respondError(w, http.StatusBadRequest, models.CodeNoStrategy, nse.Error())
		return
	}
	s.logger.Error("search failed", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, models.CodeSearchFailed, err.Error())
}

func (s *Server) handleIndexDocument(w http.ResponseWriter, r *http.Request) {
	var input models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if err := input.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_document", err.Error())
		return
	}
	s.logger.Debug("index document request", zap.String("id", input.ID), zap.String("title", input.Title))

	ctx := r.Context()
	if err := s.keyword.Index(ctx, &keyword.Document{
		ID:        input.ID,
		Type:      input.Type,
		Title:     input.Title,
		Content:   input.Content,
		CourseID:  input.CourseID,
		Tags:      input.Tags,
		CreatedAt: input.CreatedAt,
	}); err != nil {
		s.logger.Error("keyword indexing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "index_failed", err.Error())
		return
	}

	vectors, err := s.gateway.Embed(ctx, []string{input.Title + "\n" + input.Content})
	if err != nil || len(vectors) == 0 {
		s.logger.Error("embedding failed", zap.Error(err))
		s.rollbackKeywordEntry(ctx, input.ID)
		s.respondError(w, http.StatusInternalServerError, "embed_failed", "embedding failed")
		return
	}
	if err := s.vectors.Add(ctx, []vector.Entry{{
		ID:        input.ID,
		Type:      input.Type,
		Title:     input.Title,
		CourseID:  input.CourseID,
		Snippet:   utils.Truncate(input.Content, snippetLength),
		Vector:    vectors[0],
		CreatedAt: input.CreatedAt,
	}}); err != nil {
		s.logger.Error("vector indexing failed", zap.Error(err))
		s.rollbackKeywordEntry(ctx, input.ID)
		s.respondError(w, http.StatusInternalServerError, "index_failed", err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"id": input.ID, "status": "indexed"})
}

// rollbackKeywordEntry removes the keyword entry written before a later
// ingestion step failed, so a document is never searchable by one path only.
func (s *Server) rollbackKeywordEntry(ctx context.Context, id string) {
	if err := s.keyword.Delete(ctx, id); err != nil {
		s.logger.Warn("keyword rollback failed, document left keyword-only",
			zap.String("id", id), zap.Error(err))
	}
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	if err := s.keyword.Delete(r.Context(), id); err != nil {
		s.logger.Error("keyword deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "delete_failed", err.Error())
		return
	}
	if err := s.vectors.Remove(r.Context(), []string{id}); err != nil {
		s.logger.Error("vector deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "delete_failed", err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	docCount, err := s.keyword.Count()
	if err != nil {
		s.logger.Error("status: keyword count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "status_failed", err.Error())
		return
	}
	gatewayStatus := "ok"
	if err := s.gateway.HealthCheck(r.Context()); err != nil {
		gatewayStatus = err.Error()
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents":         docCount,
		"vector_index_size": s.vectors.Size(),
		"strategies":        s.engine.Strategies(),
		"gateway":           gatewayStatus,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, map[string]string{"code": code, "error": message})
}
