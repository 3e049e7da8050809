// Package session holds the per-session state of the service: the
// current question and answer, the append-only query history, and the
// per-document indexing cache. State lives for the process lifetime
// and is never persisted.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/serisow/docchat/services/rag_service"
)

// QueryHistoryEntry pairs a question with the answer it received. The
// first answer for a query is authoritative and reused on repeats.
type QueryHistoryEntry struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// Answerer produces an answer for a novel query. Satisfied by
// rag_service.Engine.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Session is safe for concurrent use: HTTP requests for one session
// may overlap, so history appends and cache writes are serialized by
// a single mutex.
type Session struct {
	ID string

	mu            sync.Mutex
	currentQuery  string
	currentAnswer string
	history       []QueryHistoryEntry
	indexed       map[string]*rag_service.IndexingResult

	answerer Answerer
}

func New(answerer Answerer) *Session {
	return &Session{
		ID:       uuid.NewString(),
		indexed:  make(map[string]*rag_service.IndexingResult),
		answerer: answerer,
	}
}

// Ask answers a question, reusing the stored answer when the exact
// query string (case-sensitive, whitespace-significant) was asked
// before. Novel queries go through the answerer; the result is
// appended to the history. Failed attempts leave no trace.
func (s *Session) Ask(ctx context.Context, query string) (answer string, cached bool, err error) {
	s.mu.Lock()
	for _, entry := range s.history {
		if entry.Query == query {
			s.currentQuery = query
			s.currentAnswer = entry.Answer
			s.mu.Unlock()
			return entry.Answer, true, nil
		}
	}
	s.mu.Unlock()

	answer, err = s.answerer.Answer(ctx, query)
	if err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent Ask for the same query may have won the race; keep
	// the first recorded answer authoritative.
	for _, entry := range s.history {
		if entry.Query == query {
			s.currentQuery = query
			s.currentAnswer = entry.Answer
			return entry.Answer, true, nil
		}
	}
	s.history = append(s.history, QueryHistoryEntry{Query: query, Answer: answer})
	s.currentQuery = query
	s.currentAnswer = answer
	return answer, false, nil
}

// Clear resets the current question and answer. The history and the
// indexing cache are untouched.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentQuery = ""
	s.currentAnswer = ""
}

// Current returns the question and answer on display.
func (s *Session) Current() (query, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentQuery, s.currentAnswer
}

// History returns a copy of the query history in insertion order.
func (s *Session) History() []QueryHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]QueryHistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// IndexingResult returns the cached result for a document id.
func (s *Session) IndexingResult(documentID string) (*rag_service.IndexingResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.indexed[documentID]
	return result, ok
}

// StoreIndexingResult caches a completed ingestion. Results are never
// overwritten: the first full ingestion of a document id wins.
func (s *Session) StoreIndexingResult(documentID string, result *rag_service.IndexingResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexed[documentID]; ok {
		return
	}
	s.indexed[documentID] = result
}
