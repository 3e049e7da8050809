package vectorstore

import "context"

// Metadata is the payload stored alongside each vector. The chunk text
// is what retrieval hands to the answer engine.
type Metadata struct {
	Text string `json:"text"`
}

// Record is one (id, vector, payload) triple. Ids are namespaced by
// document, e.g. "report.pdf-chunk-3", so re-ingesting a document
// overwrites its own records and nothing else.
type Record struct {
	ID       string
	Values   []float32
	Metadata Metadata
}

// Match is a search hit, ordered by descending relevance.
type Match struct {
	ID       string
	Score    float64
	Metadata Metadata
}

// Index persists vector records and answers nearest-neighbor queries.
// Upsert is the only mutating operation and is keyed by record id
// (insert-or-overwrite).
type Index interface {
	Upsert(ctx context.Context, records []Record) error
	Search(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]Match, error)
}
