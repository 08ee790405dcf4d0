package handler

import (
	"net/http"
	"sort"

	"github.com/frodon-community/peergames/internal/api/response"
	"github.com/frodon-community/peergames/internal/services/presence"
)

// PresenceHandler serves the substrate roster
type PresenceHandler struct {
	presence *presence.Reconciler
}

// NewPresenceHandler creates a new presence handler
func NewPresenceHandler(reconciler *presence.Reconciler) *PresenceHandler {
	return &PresenceHandler{presence: reconciler}
}

// Roster handles GET /api/v1/presence
func (h *PresenceHandler) Roster(w http.ResponseWriter, r *http.Request) {
	roster := h.presence.Roster()
	sort.Slice(roster, func(i, j int) bool {
		return roster[i].Peer.PeerID < roster[j].Peer.PeerID
	})

	entries := make([]response.PresenceEntry, len(roster))
	for i, e := range roster {
		entries[i] = response.PresenceEntryFromModel(e)
	}
	response.JSON(w, http.StatusOK, entries)
}
