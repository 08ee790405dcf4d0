package memory

import (
	"context"
	"sync"

	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	stats map[statsKey]*model.GameStats
}

type statsKey struct {
	peer model.PeerID
	game model.GameKind
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{stats: make(map[statsKey]*model.GameStats)}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveStats(ctx context.Context, peer model.PeerID, game model.GameKind, stats *model.GameStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[statsKey{peer: peer, game: game}] = stats
	return nil
}

func (s *Storage) GetStats(ctx context.Context, peer model.PeerID, game model.GameKind) (*model.GameStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[statsKey{peer: peer, game: game}]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	return stats, nil
}

func (s *Storage) DeleteStats(ctx context.Context, peer model.PeerID, game model.GameKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stats, statsKey{peer: peer, game: game})
	return nil
}
