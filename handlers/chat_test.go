package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/serisow/docchat/services/rag_service"
	"github.com/serisow/docchat/session"
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
	if strings.TrimSpace(query) == "" {
		return "", &rag_service.InvalidQueryError{Query: query}
	}
	return s.answer, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChatHandler_Ask(t *testing.T) {
	answerer := &stubAnswerer{answer: "Paris"}
	h := NewChatHandler(session.New(answerer), testLogger())

	req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(`{"query":"Capital of France?"}`))
	rec := httptest.NewRecorder()

	h.Ask(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Answer != "Paris" || resp.Cached {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestChatHandler_AskRepeatServedFromHistory(t *testing.T) {
	answerer := &stubAnswerer{answer: "42"}
	h := NewChatHandler(session.New(answerer), testLogger())

	body := `{"query":"Q1"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Ask(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
		var resp AskResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if wantCached := i == 1; resp.Cached != wantCached {
			t.Errorf("request %d: expected cached=%v, got %v", i, wantCached, resp.Cached)
		}
	}

	if answerer.calls != 1 {
		t.Errorf("expected one engine invocation, got %d", answerer.calls)
	}
}

func TestChatHandler_AskEmptyQuery(t *testing.T) {
	h := NewChatHandler(session.New(&stubAnswerer{}), testLogger())

	req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(`{"query":"   "}`))
	rec := httptest.NewRecorder()

	h.Ask(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty query, got %d", rec.Code)
	}
}

func TestChatHandler_ClearAndHistory(t *testing.T) {
	answerer := &stubAnswerer{answer: "kept"}
	sess := session.New(answerer)
	h := NewChatHandler(sess, testLogger())

	askReq := httptest.NewRequest("POST", "/api/ask", strings.NewReader(`{"query":"Q1"}`))
	h.Ask(httptest.NewRecorder(), askReq)

	clearReq := httptest.NewRequest("POST", "/api/clear", nil)
	clearRec := httptest.NewRecorder()
	h.Clear(clearRec, clearReq)
	if clearRec.Code != http.StatusOK {
		t.Fatalf("expected 200 from clear, got %d", clearRec.Code)
	}

	sessReq := httptest.NewRequest("GET", "/api/session", nil)
	sessRec := httptest.NewRecorder()
	h.Session(sessRec, sessReq)
	var current SessionResponse
	if err := json.Unmarshal(sessRec.Body.Bytes(), &current); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if current.CurrentQuery != "" || current.CurrentAnswer != "" {
		t.Errorf("expected empty current state after clear, got %+v", current)
	}

	histReq := httptest.NewRequest("GET", "/api/history", nil)
	histRec := httptest.NewRecorder()
	h.History(histRec, histReq)
	var hist HistoryResponse
	if err := json.Unmarshal(histRec.Body.Bytes(), &hist); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if hist.Count != 1 {
		t.Errorf("expected history to survive clear, got count %d", hist.Count)
	}
}

func TestChatHandler_DocumentDetails(t *testing.T) {
	sess := session.New(&stubAnswerer{})
	sess.StoreIndexingResult("report.pdf", &rag_service.IndexingResult{ChunkCount: 7})
	h := NewChatHandler(sess, testLogger())

	r := mux.NewRouter()
	r.HandleFunc("/api/documents/{id}", h.DocumentDetails).Methods("GET")

	req := httptest.NewRequest("GET", "/api/documents/report.pdf", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp DocumentDetailsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ChunkCount != 7 {
		t.Errorf("expected chunk count 7, got %d", resp.ChunkCount)
	}

	req = httptest.NewRequest("GET", "/api/documents/unknown.pdf", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unprocessed document, got %d", rec.Code)
	}
}
