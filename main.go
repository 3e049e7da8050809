package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/serisow/docchat/config"
	"github.com/serisow/docchat/db"
	"github.com/serisow/docchat/handlers"
	"github.com/serisow/docchat/logging"
	"github.com/serisow/docchat/server"
	"github.com/serisow/docchat/services/embedding"
	"github.com/serisow/docchat/services/extractor"
	"github.com/serisow/docchat/services/llm_service"
	"github.com/serisow/docchat/services/rag_service"
	"github.com/serisow/docchat/session"
	"github.com/serisow/docchat/vectorstore"
)

func main() {
	cfg := config.Load()

	logger, err := initLogger(cfg.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	index, err := initVectorIndex(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize vector index: %v", err)
	}

	embedder := embedding.NewOpenAIClient(cfg.EmbeddingAPIURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, logger)

	registry := llm_service.NewRegistry()
	registry.Register("gemini", llm_service.NewGeminiService(cfg.GeminiAPIURL, cfg.GeminiAPIKey, logger))
	registry.Register("openai", llm_service.NewOpenAIService(cfg.OpenAIAPIURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, logger))

	llm, err := registry.Get(cfg.LLMProvider)
	if err != nil {
		log.Fatalf("Failed to select LLM provider: %v", err)
	}

	engine := rag_service.NewEngine(embedder, index, llm, cfg.TopK, logger)
	sess := session.New(engine)
	logger.Info("Session initialized", slog.String("session_id", sess.ID))

	pipeline := rag_service.NewPipeline(embedder, index, sess, cfg.ChunkSize, cfg.ChunkOverlap, logger)
	pipeline.OnProgress = func(fraction float64) {
		logger.Debug("Indexing progress", slog.Int("percent", int(fraction*100)))
	}

	docExtractor := extractor.NewDocumentExtractor(logger)

	uploadHandler := handlers.NewUploadHandler(pipeline, docExtractor, logger)
	chatHandler := handlers.NewChatHandler(sess, logger)

	r := server.SetupRoutes(uploadHandler, chatHandler)
	n := server.SetupNegroni(r, logger)

	if cfg.Environment == "production" {
		server.ServeProduction(n, server.Config{
			Domains:      cfg.Domains,
			CertCacheDir: cfg.CertCacheDir,
			HTTPPort:     cfg.HTTPPort,
			HTTPSPort:    cfg.HTTPSPort,
		})
	} else {
		srv := &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      n,
			IdleTimeout:  time.Minute,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
		logger.Info("Starting development server", slog.String("port", cfg.HTTPPort))
		server.ServeDevelopment(srv)
	}
}

// initVectorIndex picks the pgvector backend when a database is
// configured and falls back to the in-memory index otherwise.
func initVectorIndex(cfg config.Config, logger *slog.Logger) (vectorstore.Index, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory vector index")
		return vectorstore.NewMemoryIndex(), nil
	}

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	index := vectorstore.NewPgvectorIndex(pool, cfg.IndexName, cfg.VectorDimension, logger)
	if err := index.Init(context.Background()); err != nil {
		return nil, err
	}
	if err := index.EnsureANNIndex(context.Background()); err != nil {
		logger.Warn("Could not build ANN index, searches will scan sequentially",
			slog.String("error", err.Error()))
	}
	return index, nil
}

func initLogger(logDir string) (*slog.Logger, error) {
	fileHandler, err := logging.NewDailyFileHandler(logDir, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	if err != nil {
		return nil, err
	}

	return slog.New(fileHandler), nil
}
