package embedding

import (
	"context"
)

type MockClient struct {
	EmbedBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOneFunc   func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.EmbedBatchFunc != nil {
		return m.EmbedBatchFunc(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i])), 1, 0}
	}
	return vectors, nil
}

func (m *MockClient) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedOneFunc != nil {
		return m.EmbedOneFunc(ctx, text)
	}
	return []float32{float32(len(text)), 1, 0}, nil
}
