package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/serisow/docchat/services/rag_service"
	"github.com/serisow/docchat/session"
)

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Query string `json:"query"`
}

// AskResponse carries the answer; Cached is true when the answer was
// replayed from the query history instead of generated.
type AskResponse struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
	Cached bool   `json:"cached"`
}

type HistoryResponse struct {
	Entries []session.QueryHistoryEntry `json:"entries"`
	Count   int                         `json:"count"`
}

type SessionResponse struct {
	CurrentQuery  string `json:"current_query"`
	CurrentAnswer string `json:"current_answer"`
}

type DocumentDetailsResponse struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
	Status     string `json:"status"`
}

// ChatHandler serves the question/answer surface backed by a session.
type ChatHandler struct {
	session *session.Session
	logger  *slog.Logger
}

func NewChatHandler(s *session.Session, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		session: s,
		logger:  logger,
	}
}

func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request body",
			slog.String("error", err.Error()))
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	answer, cached, err := h.session.Ask(r.Context(), req.Query)
	if err != nil {
		var invalidQuery *rag_service.InvalidQueryError
		var generation *rag_service.GenerationError
		switch {
		case errors.As(err, &invalidQuery):
			writeJSONError(w, "Query cannot be empty", http.StatusBadRequest)
		case errors.As(err, &generation):
			h.logger.Error("Answer generation failed",
				slog.String("query", req.Query),
				slog.String("error", err.Error()))
			writeJSONError(w, "Failed to generate answer", http.StatusBadGateway)
		default:
			h.logger.Error("Failed to answer query",
				slog.String("query", req.Query),
				slog.String("error", err.Error()))
			writeJSONError(w, "Failed to answer query", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{
		Query:  req.Query,
		Answer: answer,
		Cached: cached,
	})
}

func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.session.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	entries := h.session.History()
	writeJSON(w, http.StatusOK, HistoryResponse{
		Entries: entries,
		Count:   len(entries),
	})
}

func (h *ChatHandler) Session(w http.ResponseWriter, r *http.Request) {
	query, answer := h.session.Current()
	writeJSON(w, http.StatusOK, SessionResponse{
		CurrentQuery:  query,
		CurrentAnswer: answer,
	})
}

func (h *ChatHandler) DocumentDetails(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["id"]

	result, ok := h.session.IndexingResult(documentID)
	if !ok {
		writeJSONError(w, "Document has not been processed yet", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, DocumentDetailsResponse{
		DocumentID: documentID,
		ChunkCount: result.ChunkCount,
		Status:     "indexed",
	})
}
