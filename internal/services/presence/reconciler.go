// Package presence tracks which peers are currently visible on the
// substrate. Presence events carry no guarantees: a peer can vanish and
// reappear at any time, so the record keeps last-seen timestamps instead
// of assuming clean departures.
package presence

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frodon-community/peergames/internal/dependencies/clock"
	"github.com/frodon-community/peergames/internal/model"
)

// Entry is one peer's presence record
type Entry struct {
	Peer     model.PeerInfo `json:"peer"`
	Online   bool           `json:"online"`
	LastSeen time.Time      `json:"last_seen"`
}

// Reconciler maintains the presence roster
type Reconciler struct {
	clock  clock.Clock
	logger *slog.Logger

	mu    sync.RWMutex
	peers map[model.PeerID]Entry
}

func New(clk clock.Clock, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		clock:  clk,
		logger: logger,
		peers:  make(map[model.PeerID]Entry),
	}
}

func (r *Reconciler) PeerAppeared(_ context.Context, peer model.PeerInfo) {
	r.mu.Lock()
	r.peers[peer.PeerID] = Entry{
		Peer:     peer,
		Online:   true,
		LastSeen: r.clock.Now(),
	}
	r.mu.Unlock()
	r.logger.Info("peer appeared",
		slog.String("peer", string(peer.PeerID)),
		slog.String("name", peer.DisplayName))
}

// PeerLeft marks a peer offline and returns its last known identity,
// which is all later consumers (replacement pickers, notifications) have
// to go on
func (r *Reconciler) PeerLeft(_ context.Context, id model.PeerID) model.PeerInfo {
	r.mu.Lock()
	entry, ok := r.peers[id]
	if !ok {
		entry = Entry{Peer: model.PeerInfo{PeerID: id, DisplayName: string(id)}}
	}
	entry.Online = false
	entry.LastSeen = r.clock.Now()
	r.peers[id] = entry
	r.mu.Unlock()

	r.logger.Info("peer left", slog.String("peer", string(id)))
	return entry.Peer
}

// Online reports whether the peer is currently visible
func (r *Reconciler) Online(id model.PeerID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.peers[id].Online
}

// Roster returns every peer ever seen this process lifetime
func (r *Reconciler) Roster() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.peers))
	for _, e := range r.peers {
		out = append(out, e)
	}
	return out
}
