// Package api exposes the reservation HTTP surface. Handlers parse and
// strictly validate inputs before anything reaches the availability engine;
// malformed dates, times or party sizes never enter the core.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"reservas/internal/audit"
	"reservas/internal/config"
	"reservas/internal/service"
)

// HTTPServer serves the public reservation API.
type HTTPServer struct {
	cfg    *config.Config
	svc    *service.Service
	audit  *audit.Log // nil when auditing is disabled
	logger *zerolog.Logger
}

// NewHTTPServer wires handlers onto a mux.
func NewHTTPServer(cfg *config.Config, svc *service.Service, auditLog *audit.Log, logger *zerolog.Logger) *HTTPServer {
	return &HTTPServer{cfg: cfg, svc: svc, audit: auditLog, logger: logger}
}

// Handler returns the routed handler.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/book", s.handleBook)
	mux.HandleFunc("/api/audit/export", s.handleAuditExport)
	return s.withRequestLog(mux)
}

// Run serves until the context is cancelled.
func (s *HTTPServer) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Int("port", port).Msg("reservation API listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// withRequestLog attaches a request id and logs each request.
func (s *HTTPServer) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.logger.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": message})
}
