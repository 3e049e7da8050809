package session

import (
	"context"
	"errors"
	"testing"

	"github.com/serisow/docchat/services/rag_service"
)

type stubAnswerer struct {
	calls  int
	answer string
	err    error
}

func (s *stubAnswerer) Answer(ctx context.Context, query string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func TestSession_AskDeduplicatesExactQueries(t *testing.T) {
	answerer := &stubAnswerer{answer: "42"}
	s := New(answerer)

	first, cached, err := s.Ask(context.Background(), "Q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Error("first ask must not be served from history")
	}

	second, cached, err := s.Ask(context.Background(), "Q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Error("second ask of the same query must be served from history")
	}
	if second != first {
		t.Errorf("expected identical answer, got %q and %q", first, second)
	}

	if answerer.calls != 1 {
		t.Errorf("expected the answerer to run once, ran %d times", answerer.calls)
	}
	if got := len(s.History()); got != 1 {
		t.Errorf("expected history length 1, got %d", got)
	}
}

func TestSession_DedupIsCaseAndWhitespaceSensitive(t *testing.T) {
	answerer := &stubAnswerer{answer: "answer"}
	s := New(answerer)

	queries := []string{"What is X?", "what is x?", "What is X? "}
	for _, q := range queries {
		if _, _, err := s.Ask(context.Background(), q); err != nil {
			t.Fatalf("unexpected error for %q: %v", q, err)
		}
	}

	if answerer.calls != len(queries) {
		t.Errorf("expected %d answerer runs for distinct queries, got %d", len(queries), answerer.calls)
	}
	if got := len(s.History()); got != len(queries) {
		t.Errorf("expected history length %d, got %d", len(queries), got)
	}
}

func TestSession_ClearPreservesHistory(t *testing.T) {
	answerer := &stubAnswerer{answer: "kept"}
	s := New(answerer)

	if _, _, err := s.Ask(context.Background(), "Q1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := s.Ask(context.Background(), "Q2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Clear()

	query, answer := s.Current()
	if query != "" || answer != "" {
		t.Errorf("expected cleared current state, got query=%q answer=%q", query, answer)
	}
	if got := len(s.History()); got != 2 {
		t.Errorf("expected history to survive clear, got length %d", got)
	}

	// A repeated question after clear is still a history hit.
	_, cached, err := s.Ask(context.Background(), "Q1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Error("expected Q1 to be replayed from history after clear")
	}
	if answerer.calls != 2 {
		t.Errorf("replay must not invoke the answerer again, got %d calls", answerer.calls)
	}
}

func TestSession_FailedAskLeavesNoTrace(t *testing.T) {
	wantErr := &rag_service.GenerationError{Query: "Q", Err: errors.New("boom")}
	s := New(&stubAnswerer{err: wantErr})

	_, _, err := s.Ask(context.Background(), "Q")
	if err == nil {
		t.Fatal("expected an error")
	}

	if got := len(s.History()); got != 0 {
		t.Errorf("failed ask must not grow history, got length %d", got)
	}
	query, answer := s.Current()
	if query != "" || answer != "" {
		t.Errorf("failed ask must not set current state, got query=%q answer=%q", query, answer)
	}
}

func TestSession_IndexingResultFirstWriteWins(t *testing.T) {
	s := New(&stubAnswerer{})

	first := &rag_service.IndexingResult{ChunkCount: 3}
	second := &rag_service.IndexingResult{ChunkCount: 9}

	s.StoreIndexingResult("doc.pdf", first)
	s.StoreIndexingResult("doc.pdf", second)

	got, ok := s.IndexingResult("doc.pdf")
	if !ok {
		t.Fatal("expected a cached result")
	}
	if got != first {
		t.Error("expected the first stored result to be authoritative")
	}
}
