package llm_service

import (
	"context"
)

type MockLLMService struct {
	GenerateFunc func(ctx context.Context, prompt string, opts GenerationOptions) ([]Candidate, error)
}

func (m *MockLLMService) Generate(ctx context.Context, prompt string, opts GenerationOptions) ([]Candidate, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts)
	}
	return []Candidate{{Text: "mock response"}}, nil
}
