package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/serisow/docchat/services/extractor"
	"github.com/serisow/docchat/services/rag_service"
)

const maxUploadBytes = 10 << 20 // 10 MB

// ProcessingStats carries the timing of an ingestion, for display only.
type ProcessingStats struct {
	ExtractionTime float64 `json:"extraction_time"`
	IndexingTime   float64 `json:"indexing_time"`
}

// UploadResponse describes the outcome of a document upload.
type UploadResponse struct {
	DocumentID     string          `json:"document_id"`
	Status         string          `json:"status"`
	ChunkCount     int             `json:"chunk_count"`
	WordCount      int             `json:"word_count"`
	ContentPreview string          `json:"content_preview"`
	Stats          ProcessingStats `json:"stats"`
}

// UploadHandler accepts a multipart document upload, extracts its
// text, and runs it through the indexing pipeline. The file name is
// the document identity: uploading the same name again returns the
// cached result.
type UploadHandler struct {
	pipeline  *rag_service.Pipeline
	extractor *extractor.DocumentExtractor
	logger    *slog.Logger
}

func NewUploadHandler(pipeline *rag_service.Pipeline, ext *extractor.DocumentExtractor, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		pipeline:  pipeline,
		extractor: ext,
		logger:    logger,
	}
}

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Received file upload request")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, "Failed to get file from form", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		writeJSONError(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	h.logger.Debug("Starting text extraction",
		slog.String("filename", header.Filename),
		slog.String("content_type", header.Header.Get("Content-Type")),
		slog.Int64("size", header.Size))

	if !h.extractor.Supported(header.Filename) {
		h.logger.Error("Unsupported file type",
			slog.String("filename", header.Filename))
		writeJSONError(w, "Unsupported file type", http.StatusBadRequest)
		return
	}

	extractStart := time.Now()
	text, err := h.extractor.Extract(header.Filename, buf.Bytes())
	if err != nil {
		var extractionErr *extractor.ExtractionError
		if errors.As(err, &extractionErr) {
			writeJSONError(w, "Failed to extract text from document", http.StatusUnprocessableEntity)
			return
		}
		writeJSONError(w, "Failed to process document", http.StatusInternalServerError)
		return
	}
	extractionTime := time.Since(extractStart).Seconds()

	indexStart := time.Now()
	result, err := h.pipeline.Ingest(r.Context(), header.Filename, text)
	if err != nil {
		h.logger.Error("Document indexing failed",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		writeJSONError(w, "Failed to index document", http.StatusBadGateway)
		return
	}

	preview := text
	if len(preview) > 500 {
		preview = preview[:500]
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		DocumentID:     header.Filename,
		Status:         "indexed",
		ChunkCount:     result.ChunkCount,
		WordCount:      len(strings.Fields(text)),
		ContentPreview: preview,
		Stats: ProcessingStats{
			ExtractionTime: extractionTime,
			IndexingTime:   time.Since(indexStart).Seconds(),
		},
	})
}
