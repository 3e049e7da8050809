package embedding

import "context"

// Client converts text into fixed-dimension vectors. All vectors
// returned by one client share the same dimensionality.
type Client interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}
