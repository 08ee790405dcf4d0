// Package events fans session and presence change notifications out to
// SSE clients. One process has exactly one hub: the view surface shows
// this peer's sessions, so there is no per-session client partitioning.
package events

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/frodon-community/peergames/internal/model"
)

// Hub manages the connected SSE clients
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a hub. Call Run in a goroutine before registering
// clients.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("component", "events")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("event hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("event client registered",
				slog.String("remote", client.remote),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				duration := time.Since(client.connectedAt)
				h.logger.Info("event client unregistered",
					slog.String("remote", client.remote),
					slog.Duration("connection_duration", duration),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					dropped++
					h.logger.Warn("event dropped - client buffer full",
						slog.String("remote", client.remote))
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("event broadcast partial failure",
					slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("event hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends a raw frame to all clients
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("event broadcast dropped - hub buffer full")
	}
}

// BroadcastEvent sends a named SSE event with JSON data
func (h *Hub) BroadcastEvent(eventName string, data any) {
	encoded, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("event payload marshal failed",
			slog.String("event", eventName),
			slog.String("error", err.Error()))
		return
	}
	h.Broadcast(formatSSEMessage(eventName, string(encoded)))
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionChanged announces that a session's local state moved. Clients
// re-fetch the session view; the event carries only the id.
func (h *Hub) SessionChanged(id model.SessionID) {
	h.BroadcastEvent("session_changed", sessionChangedEvent{SessionID: id})
}

// PresenceChanged announces a peer appearing on or leaving the substrate
func (h *Hub) PresenceChanged(peer model.PeerInfo, online bool) {
	h.BroadcastEvent("presence_changed", presenceChangedEvent{Peer: peer, Online: online})
}

type sessionChangedEvent struct {
	SessionID model.SessionID `json:"session_id"`
}

type presenceChangedEvent struct {
	Peer   model.PeerInfo `json:"peer"`
	Online bool           `json:"online"`
}

// formatSSEMessage formats an SSE frame with event name and data.
// Multi-line data gets a "data: " prefix on each line.
func formatSSEMessage(eventName, data string) []byte {
	msg := "event: " + eventName + "\n"
	for _, line := range splitLines(data) {
		msg += "data: " + line + "\n"
	}
	msg += "\n"
	return []byte(msg)
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	var lines []string
	var current string
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current)
			current = ""
		} else if r != '\r' {
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}
