package server

import (
	"crypto/tls"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/urfave/negroni"
	"golang.org/x/crypto/acme/autocert"

	"github.com/serisow/docchat/handlers"
)

type Config struct {
	Domains      []string
	CertCacheDir string
	HTTPPort     string
	HTTPSPort    string
}

func SetupRoutes(upload *handlers.UploadHandler, chat *handlers.ChatHandler) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/api/documents", upload).Methods("POST")
	r.HandleFunc("/api/documents/{id}", chat.DocumentDetails).Methods("GET")
	r.HandleFunc("/api/ask", chat.Ask).Methods("POST")
	r.HandleFunc("/api/clear", chat.Clear).Methods("POST")
	r.HandleFunc("/api/history", chat.History).Methods("GET")
	r.HandleFunc("/api/session", chat.Session).Methods("GET")

	return r
}

// SetupNegroni wraps the router with recovery, request logging, and a
// per-request id.
func SetupNegroni(r *mux.Router, logger *slog.Logger) *negroni.Negroni {
	n := negroni.New()

	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())
	n.Use(requestIDMiddleware(logger))

	n.UseHandler(r)
	return n
}

func requestIDMiddleware(logger *slog.Logger) negroni.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		logger.Debug("Handling request",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path))
		next(w, r)
	}
}

// ServeProduction serves HTTPS with certificates obtained through
// ACME; plain HTTP only answers challenges and redirects.
func ServeProduction(n *negroni.Negroni, cfg Config) {
	autocertManager := autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(cfg.Domains...),
		Cache:      autocert.DirCache(cfg.CertCacheDir),
	}

	go func() {
		srv := &http.Server{
			Addr:         ":" + cfg.HTTPPort,
			Handler:      autocertManager.HTTPHandler(nil),
			IdleTimeout:  time.Minute,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		err := srv.ListenAndServe()
		log.Fatal(err)
	}()

	tlsConfig := &tls.Config{
		GetCertificate:           autocertManager.GetCertificate,
		PreferServerCipherSuites: true,
		CurvePreferences:         []tls.CurveID{tls.X25519, tls.CurveP256},
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPSPort,
		Handler:      n,
		TLSConfig:    tlsConfig,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	err := srv.ListenAndServeTLS("", "") // Key and cert provided automatically by autocert.
	log.Fatal(err)
}

// ServeDevelopment starts the plain HTTP server.
func ServeDevelopment(s *http.Server) {
	log.Fatal(s.ListenAndServe())
}
