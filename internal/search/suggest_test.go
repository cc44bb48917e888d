package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/studystack/kensaku/internal/gateway"
	"github.com/studystack/kensaku/internal/models"
)

func suggestQuery() *models.ProcessedQuery {
	return &models.ProcessedQuery{
		SearchID: "s1",
		Original: "fourier transform",
		Cleaned:  "fourier transform",
		Type:     models.SearchTypeKeyword,
	}
}

func TestSuggester_LowResultsTrigger(t *testing.T) {
	gw := gateway.NewMock(8)
	gw.Phrasings = []string{"fourier series", "frequency domain analysis", "fft explained", "spectral methods"}
	s := NewSuggester(gw, 5, 3, zap.NewNop())

	got := s.Suggest(context.Background(), suggestQuery(), 2)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions (capped), got %d", len(got))
	}
}

func TestSuggester_EnoughResultsNoSuggestions(t *testing.T) {
	gw := gateway.NewMock(8)
	s := NewSuggester(gw, 5, 3, zap.NewNop())
	if got := s.Suggest(context.Background(), suggestQuery(), 7); got != nil {
		t.Errorf("expected no suggestions above threshold, got %v", got)
	}
}

func TestSuggester_GatewayFailureSwallowed(t *testing.T) {
	gw := gateway.NewMock(8)
	gw.ExpandErr = errors.New("gateway down")
	s := NewSuggester(gw, 5, 3, zap.NewNop())
	if got := s.Suggest(context.Background(), suggestQuery(), 0); len(got) != 0 {
		t.Errorf("expected empty suggestions on failure, got %v", got)
	}
}

func TestSuggester_DropsEchoesOfOriginal(t *testing.T) {
	gw := gateway.NewMock(8)
	gw.Phrasings = []string{"fourier transform", "laplace transform"}
	s := NewSuggester(gw, 5, 3, zap.NewNop())
	got := s.Suggest(context.Background(), suggestQuery(), 0)
	if len(got) != 1 || got[0] != "laplace transform" {
		t.Errorf("expected original phrasing dropped, got %v", got)
	}
}
