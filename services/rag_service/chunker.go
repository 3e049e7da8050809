package rag_service

import "strings"

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// SplitText splits text into segments of up to chunkSize characters
// where consecutive segments share overlap characters of context.
// When a window does not end at a natural boundary, the cut backs off
// to the last paragraph break, newline, sentence end, or space inside
// the window, so chunks tend to end on readable boundaries. The
// concatenation of segments (ignoring overlap duplication) always
// reconstructs the input.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultChunkOverlap
		if overlap >= chunkSize {
			overlap = chunkSize / 10
		}
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		// Prefer to cut at a boundary, but never shrink the window
		// below the non-overlapping part or progress stalls.
		if cut := boundaryCut(runes[start:end]); cut > chunkSize-overlap {
			end = start + cut
		}

		chunks = append(chunks, string(runes[start:end]))

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// boundaryCut returns the position just after the best split boundary
// in window, or 0 when the window has none.
func boundaryCut(window []rune) int {
	s := string(window)
	for _, sep := range []string{"\n\n", "\n", ". ", " "} {
		if i := strings.LastIndex(s, sep); i >= 0 {
			return len([]rune(s[:i+len(sep)]))
		}
	}
	return 0
}
