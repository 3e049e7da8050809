package rag_service

import (
	"strings"
	"testing"
)

func TestSplitText_FixedWindows(t *testing.T) {
	// 1200 characters without any split boundary: windows fall at
	// exactly chunkSize with exactly overlap characters shared.
	text := strings.Repeat("a", 1200)

	chunks := SplitText(text, 500, 50)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	wantLens := []int{500, 500, 300}
	for i, want := range wantLens {
		if len(chunks[i]) != want {
			t.Errorf("chunk %d: expected length %d, got %d", i, want, len(chunks[i]))
		}
	}

	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i][len(chunks[i])-50:]
		head := chunks[i+1][:50]
		if tail != head {
			t.Errorf("chunks %d and %d do not share a 50-character overlap", i, i+1)
		}
	}
}

func TestSplitText_Coverage(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
	}{
		{"short text", "hello world", 500, 50},
		{"exact chunk size", numberedProse(". ", 500), 500, 50},
		{"prose with sentences", numberedProse(". ", 1800), 500, 50},
		{"paragraph breaks", numberedProse(".\n\n", 1700), 500, 50},
		{"tiny chunks", "abcdefghijklmnopqrstuvwxyz", 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitText(tt.text, tt.chunkSize, tt.overlap)

			if len(chunks) == 0 {
				t.Fatal("expected at least one chunk for non-empty text")
			}

			for i, c := range chunks {
				if c == "" {
					t.Errorf("chunk %d is empty", i)
				}
				if len([]rune(c)) > tt.chunkSize {
					t.Errorf("chunk %d exceeds chunk size: %d > %d", i, len([]rune(c)), tt.chunkSize)
				}
			}

			// Reconstruct the text: each chunk starts where the
			// previous one left off, minus the shared overlap.
			reconstructed := chunks[0]
			for i := 1; i < len(chunks); i++ {
				prev := []rune(chunks[i-1])
				cur := []rune(chunks[i])
				shared := 0
				for k := min(len(prev), len(cur)); k > 0; k-- {
					if string(prev[len(prev)-k:]) == string(cur[:k]) {
						shared = k
						break
					}
				}
				reconstructed += string(cur[shared:])
			}
			if reconstructed != tt.text {
				t.Errorf("reconstructed text does not match input (got %d chars, want %d)",
					len(reconstructed), len(tt.text))
			}
		})
	}
}

// numberedProse builds non-repeating text of exactly n characters so
// overlap regions between chunks are unambiguous.
func numberedProse(sep string, n int) string {
	var sb strings.Builder
	for i := 0; sb.Len() < n; i++ {
		sb.WriteString("Sentence number ")
		sb.WriteString(strings.Repeat("I", i%7+1))
		sb.WriteString(" talks about distinct topic ")
		sb.WriteByte(byte('a' + i%26))
		sb.WriteByte(byte('a' + (i/26)%26))
		sb.WriteString(sep)
	}
	return sb.String()[:n]
}

func TestSplitText_Empty(t *testing.T) {
	if chunks := SplitText("", 500, 50); chunks != nil {
		t.Errorf("expected nil for empty input, got %v", chunks)
	}
}

func TestSplitText_PrefersBoundaries(t *testing.T) {
	// A newline near the end of the window should win over a mid-word cut.
	text := strings.Repeat("word ", 90) + "\n" + strings.Repeat("next ", 90)

	chunks := SplitText(text, 500, 50)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	first := chunks[0]
	last := first[len(first)-1]
	if last != '\n' && last != ' ' {
		t.Errorf("expected first chunk to end on a boundary, got %q", last)
	}
}
