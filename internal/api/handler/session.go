package handler

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/frodon-community/peergames/internal/api/response"
	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/registry"
	"github.com/frodon-community/peergames/internal/services/poker"
)

// SessionHandler serves the local peer's session views
type SessionHandler struct {
	registry *registry.Registry
	poker    *poker.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(reg *registry.Registry, pokerService *poker.Service) *SessionHandler {
	return &SessionHandler{
		registry: reg,
		poker:    pokerService,
	}
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.registry.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].SessionID() < sessions[j].SessionID()
	})

	summaries := make([]response.SessionSummary, len(sessions))
	for i, s := range sessions {
		summaries[i] = response.SessionSummaryFromModel(s)
	}
	response.JSON(w, http.StatusOK, summaries)
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	session, err := h.registry.Get(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	switch s := session.(type) {
	case *model.TicTacToeSession:
		response.JSON(w, http.StatusOK, response.TicTacToeFromModel(s))
	case *model.PokerSession:
		response.JSON(w, http.StatusOK, response.PokerFromModel(s))
	default:
		WriteError(w, model.ErrSessionNotFound)
	}
}

// HandStrength handles GET /api/v1/sessions/{id}/strength
func (h *SessionHandler) HandStrength(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	eval, err := h.poker.HandStrength(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HandStrengthFromEval(eval))
}
