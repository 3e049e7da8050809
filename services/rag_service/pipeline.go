package rag_service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/serisow/docchat/services/embedding"
	"github.com/serisow/docchat/vectorstore"
)

// IndexingResult is the cached outcome of ingesting one document. It
// is created once per document id and never mutated afterwards.
type IndexingResult struct {
	ChunkCount int
	Chunks     []string
	Vectors    []vectorstore.Record
}

// ResultCache holds one IndexingResult per document id for the
// lifetime of a session.
type ResultCache interface {
	IndexingResult(documentID string) (*IndexingResult, bool)
	StoreIndexingResult(documentID string, result *IndexingResult)
}

// Pipeline ingests a document into the vector index: chunk, embed the
// chunks in one batch, upsert one record per chunk.
type Pipeline struct {
	embedder     embedding.Client
	index        vectorstore.Index
	cache        ResultCache
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger

	// OnProgress, when set, receives a fraction in [0, 1] as ingestion
	// advances. Purely cosmetic.
	OnProgress func(fraction float64)
}

func NewPipeline(embedder embedding.Client, index vectorstore.Index, cache ResultCache, chunkSize, chunkOverlap int, logger *slog.Logger) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Pipeline{
		embedder:     embedder,
		index:        index,
		cache:        cache,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// Ingest indexes a document at most once per session. A second call
// for the same document id returns the cached result without touching
// the embedder or the index. The cache is written only on full
// success, so a failed attempt can simply be retried.
func (p *Pipeline) Ingest(ctx context.Context, documentID, text string) (*IndexingResult, error) {
	if cached, ok := p.cache.IndexingResult(documentID); ok {
		p.logger.Info("Document already processed, using cached data",
			slog.String("document_id", documentID),
			slog.Int("chunk_count", cached.ChunkCount))
		return cached, nil
	}

	p.progress(0)
	start := time.Now()

	chunks := SplitText(text, p.chunkSize, p.chunkOverlap)
	p.progress(0.25)

	embeddings, err := p.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, &IndexingError{DocumentID: documentID, Stage: "embedding", Err: err}
	}
	if len(embeddings) != len(chunks) {
		return nil, &IndexingError{
			DocumentID: documentID,
			Stage:      "embedding",
			Err:        fmt.Errorf("got %d embeddings for %d chunks", len(embeddings), len(chunks)),
		}
	}
	p.progress(0.75)

	records := make([]vectorstore.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = vectorstore.Record{
			ID:       fmt.Sprintf("%s-chunk-%d", documentID, i),
			Values:   embeddings[i],
			Metadata: vectorstore.Metadata{Text: chunk},
		}
	}

	if err := p.index.Upsert(ctx, records); err != nil {
		return nil, &IndexingError{DocumentID: documentID, Stage: "upsert", Err: err}
	}
	p.progress(1)

	result := &IndexingResult{
		ChunkCount: len(chunks),
		Chunks:     chunks,
		Vectors:    records,
	}
	p.cache.StoreIndexingResult(documentID, result)

	p.logger.Info("Document indexed successfully",
		slog.String("document_id", documentID),
		slog.Int("chunk_count", result.ChunkCount),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

func (p *Pipeline) progress(fraction float64) {
	if p.OnProgress != nil {
		p.OnProgress(fraction)
	}
}
