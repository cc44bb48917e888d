// Package cli provides output formatting for the Kensaku command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/studystack/kensaku/internal/models"
	"github.com/studystack/kensaku/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputCompact is one result per line.
	OutputCompact SearchOutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// ParseOutputFormat maps a flag value to a format, defaulting to text.
func ParseOutputFormat(s string) (SearchOutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "compact":
		return OutputCompact, nil
	case "json":
		return OutputJSON, nil
	default:
		return OutputText, fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		writeSearchResultsCompact(w, response)
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms (strategies: %s)\n\n",
		response.TotalResults, response.SearchTime, strings.Join(response.Metadata.Strategies, ", "))
	if response.RAGResponse != nil {
		fmt.Fprintf(w, "Answer (confidence %.2f):\n%s\n\n", response.RAGResponse.Confidence, response.RAGResponse.Answer)
		for _, q := range response.RAGResponse.FollowUpQuestions {
			fmt.Fprintf(w, "  follow-up: %s\n", q)
		}
		if len(response.RAGResponse.FollowUpQuestions) > 0 {
			fmt.Fprintln(w)
		}
	}
	for i, result := range response.Results {
		writeOneResult(w, i+1, result)
	}
	if len(response.Suggestions) > 0 {
		fmt.Fprintf(w, "Try also: %s\n", strings.Join(response.Suggestions, ", "))
	}
}

func writeOneResult(w io.Writer, rank int, result models.SearchResult) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "[%s] Rank: %d | Score: %.4f\n", result.Type, rank, result.Score)
	fmt.Fprintf(w, "ID: %s\n", result.SourceID)
	if result.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", result.Title)
	}
	if snippet, ok := result.Metadata["snippet"].(string); ok && snippet != "" {
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(snippet, 200))
	}
	fmt.Fprintln(w)
}

func writeSearchResultsCompact(w io.Writer, response *models.SearchResponse) {
	for _, result := range response.Results {
		title := result.Title
		if title == "" {
			title = result.SourceID
		}
		fmt.Fprintf(w, "%.4f\t%s\t%s\n", result.Score, result.Type, title)
	}
}
