package rag_service

import "fmt"

// IndexingError reports a failed ingestion attempt. The stage names
// which collaborator failed; nothing is cached, so re-invoking Ingest
// is safe.
type IndexingError struct {
	DocumentID string
	Stage      string
	Err        error
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("indexing %s failed at %s: %v", e.DocumentID, e.Stage, e.Err)
}

func (e *IndexingError) Unwrap() error { return e.Err }

// InvalidQueryError rejects an empty or whitespace-only query before
// any external call is made.
type InvalidQueryError struct {
	Query string
}

func (e *InvalidQueryError) Error() string {
	return "query cannot be empty"
}

// GenerationError reports a failed answer-generation call. No history
// entry is written, so re-asking the same query is safe.
type GenerationError struct {
	Query string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
