// Package server exposes the relay over HTTP.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/intel-relay/internal/relay"
)

// Server holds the HTTP handlers for the relay API.
type Server struct {
	svc    *relay.Service
	secret string
}

// New creates a Server. secret authenticates inbound callbacks; empty means
// auth is bypassed (demo mode).
func New(svc *relay.Service, secret string) *Server {
	return &Server{svc: svc, secret: secret}
}

// Router builds the chi router. The dashboard calls these endpoints from the
// browser, so CORS is open for reads and the standard mutating verbs.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Webhook-Secret"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/lindy/trigger", s.handleTrigger)
		r.With(s.requireCallbackAuth).Post("/lindy/callback", s.handleCallback)
		r.Get("/lindy/poll/{requestID}", s.handlePoll)
		r.Delete("/lindy/poll/{requestID}", s.handlePollDelete)
		r.Get("/companies/latest", s.handleLatest)
		r.Post("/companies/refresh", s.handleRefresh)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
