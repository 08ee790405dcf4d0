package storage

import (
	"context"

	"github.com/frodon-community/peergames/internal/model"
)

// Storage defines the interface for data persistence. Sessions are
// ephemeral and never stored; only per-game win/loss records survive a
// restart.
type Storage interface {
	// Stats operations, keyed by the owning peer and game
	SaveStats(ctx context.Context, peer model.PeerID, game model.GameKind, stats *model.GameStats) error
	GetStats(ctx context.Context, peer model.PeerID, game model.GameKind) (*model.GameStats, error)
	DeleteStats(ctx context.Context, peer model.PeerID, game model.GameKind) error
}
