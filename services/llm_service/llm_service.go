package llm_service

import "context"

// Candidate is one generated completion. Callers that want a single
// answer take the first candidate's text.
type Candidate struct {
	Text string
}

// GenerationOptions bound verbosity and variance of a completion.
type GenerationOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

type LLMService interface {
	Generate(ctx context.Context, prompt string, opts GenerationOptions) ([]Candidate, error)
}
