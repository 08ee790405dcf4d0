// Package api exposes the local peer's state over HTTP: session views,
// stats, the presence roster, and an SSE change feed. The surface is a
// read-only projection; mutations travel the peer protocol, not HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/frodon-community/peergames/internal/api/events"
	"github.com/frodon-community/peergames/internal/api/handler"
	"github.com/frodon-community/peergames/internal/api/middleware"
	"github.com/frodon-community/peergames/internal/registry"
	"github.com/frodon-community/peergames/internal/services/poker"
	"github.com/frodon-community/peergames/internal/services/presence"
	"github.com/frodon-community/peergames/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Registry     *registry.Registry
	PokerService *poker.Service
	StatsService *stats.Service
	Presence     *presence.Reconciler
	Hub          *events.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.Registry, cfg.PokerService)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)
	presenceHandler := handler.NewPresenceHandler(cfg.Presence)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, apiPanicHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/strength", sessionHandler.HandStrength).Methods(http.MethodGet)

	api.HandleFunc("/stats/{game}", statsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/stats/{game}", statsHandler.Reset).Methods(http.MethodDelete)

	api.HandleFunc("/presence", presenceHandler.Roster).Methods(http.MethodGet)

	if cfg.Hub != nil {
		api.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
			events.ServeSSE(w, r, cfg.Hub)
		}).Methods(http.MethodGet)
	}

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	handler.WriteError(w, handler.NewInternalError())
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
