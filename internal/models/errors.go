package models

import "fmt"

// Stable machine-readable error codes surfaced to callers.
const (
	CodeQueryTooShort     = "query_too_short"
	CodeQueryTooLong      = "query_too_long"
	CodeQueryEmpty        = "query_empty"
	CodeInvalidSearchType = "invalid_search_type"
	CodeInvalidSortKey    = "invalid_sort_key"
	CodeNoStrategy        = "no_strategy"
	CodeSearchFailed      = "search_failed"
)

// QueryProcessingError reports malformed caller input (400-class).
type QueryProcessingError struct {
	Code    string
	Message string
}

func (e *QueryProcessingError) Error() string {
	return e.Message
}

// NoStrategyError reports that no registered strategy can handle the
// processed query (400-class).
type NoStrategyError struct {
	Type SearchType
}

func (e *NoStrategyError) Error() string {
	return fmt.Sprintf("no strategy can handle search type %q", e.Type)
}

// SearchError wraps an unexpected failure during fusion or assembly
// (500-class). Query and SearchID are carried for diagnostics.
type SearchError struct {
	Query    string
	SearchID string
	Err      error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %s failed for query %q: %v", e.SearchID, e.Query, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}
