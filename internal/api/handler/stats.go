package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/frodon-community/peergames/internal/api/response"
	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/services/stats"
)

// StatsHandler serves the local peer's accumulated match records
type StatsHandler struct {
	stats *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

// gameKind parses the {game} path variable
func gameKind(r *http.Request) (model.GameKind, error) {
	game := model.GameKind(mux.Vars(r)["game"])
	switch game {
	case model.GameTicTacToe, model.GamePoker:
		return game, nil
	default:
		return "", NewInvalidRequestError("unknown game kind")
	}
}

// Get handles GET /api/v1/stats/{game}
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := gameKind(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	gameStats, err := h.stats.Stats(r.Context(), game)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStatsFromModel(gameStats))
}

// Reset handles DELETE /api/v1/stats/{game}
func (h *StatsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	game, err := gameKind(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.stats.Reset(r.Context(), game); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
