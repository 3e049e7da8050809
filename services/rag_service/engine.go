package rag_service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/serisow/docchat/services/embedding"
	"github.com/serisow/docchat/services/llm_service"
	"github.com/serisow/docchat/vectorstore"
)

const (
	DefaultTopK = 5

	answerTemperature     = 0.5
	answerMaxOutputTokens = 2048
)

// Engine answers a question from indexed document content: embed the
// query, retrieve the topK most relevant chunks, and condition the LLM
// on them.
type Engine struct {
	embedder embedding.Client
	index    vectorstore.Index
	llm      llm_service.LLMService
	topK     int
	logger   *slog.Logger
}

func NewEngine(embedder embedding.Client, index vectorstore.Index, llm llm_service.LLMService, topK int, logger *slog.Logger) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{
		embedder: embedder,
		index:    index,
		llm:      llm,
		topK:     topK,
		logger:   logger,
	}
}

// Answer returns a grounded answer for query. A blank query fails with
// InvalidQueryError before any external call. Zero retrieval matches
// are not an error: the prompt is issued with an empty context.
func (e *Engine) Answer(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", &InvalidQueryError{Query: query}
	}

	vector, err := e.embedder.EmbedOne(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := e.index.Search(ctx, vector, e.topK, true)
	if err != nil {
		return "", fmt.Errorf("failed to search index: %w", err)
	}

	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Metadata.Text
	}
	contextText := strings.Join(texts, "\n")

	prompt := fmt.Sprintf("Context: %s\n\nQuestion: %s\n\nAnswer:", contextText, query)

	candidates, err := e.llm.Generate(ctx, prompt, llm_service.GenerationOptions{
		Temperature:     answerTemperature,
		MaxOutputTokens: answerMaxOutputTokens,
	})
	if err != nil {
		return "", &GenerationError{Query: query, Err: err}
	}
	if len(candidates) == 0 {
		return "", &GenerationError{Query: query, Err: fmt.Errorf("no completions returned")}
	}

	e.logger.Debug("Answered query",
		slog.Int("matches", len(matches)),
		slog.Int("context_length", len(contextText)))

	return candidates[0].Text, nil
}
