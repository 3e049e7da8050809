package vectorstore

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is a brute-force cosine-similarity index used when no
// database is configured (development, tests). Upsert overwrites by
// id like the pgvector backend.
type MemoryIndex struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{records: make(map[string]Record)}
}

func (idx *MemoryIndex) Upsert(ctx context.Context, records []Record) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, r := range records {
		if r.ID == "" {
			return errors.New("record id must not be empty")
		}
		if existing, ok := idx.records[r.ID]; ok && len(existing.Values) != len(r.Values) {
			return errors.New("vector dimension mismatch")
		}
		idx.records[r.ID] = r
	}
	return nil
}

func (idx *MemoryIndex) Search(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]Match, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if topK <= 0 {
		topK = 5
	}

	matches := make([]Match, 0, len(idx.records))
	for _, r := range idx.records {
		m := Match{ID: r.ID, Score: cosineSimilarity(vector, r.Values)}
		if includeMetadata {
			m.Metadata = r.Metadata
		}
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})

	if topK > len(matches) {
		topK = len(matches)
	}
	return matches[:topK], nil
}

// Len reports the number of stored records.
func (idx *MemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
