// Package stats accumulates per-game match records for the local peer.
package stats

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frodon-community/peergames/internal/dependencies/clock"
	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/storage"
)

// Service records completed matches and serves the accumulated totals
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	self    model.PeerID
}

func New(st storage.Storage, clk clock.Clock, logger *slog.Logger, self model.PeerID) *Service {
	return &Service{
		storage: st,
		clock:   clk,
		logger:  logger,
		self:    self,
	}
}

// Record appends one finished match. The overall record, the per-opponent
// record and the bounded history all move together so a crash between
// matches never leaves them disagreeing.
func (s *Service) Record(ctx context.Context, game model.GameKind, entry model.MatchEntry) error {
	stats, err := s.storage.GetStats(ctx, s.self, game)
	if err != nil {
		if !errors.Is(err, model.ErrStatsNotFound) {
			return err
		}
		stats = &model.GameStats{}
	}
	if stats.PerOpponent == nil {
		stats.PerOpponent = make(map[model.PeerID]model.Record)
	}

	if entry.PlayedAt.IsZero() {
		entry.PlayedAt = s.clock.Now()
	}

	stats.Overall.Add(entry.Result)
	if entry.OpponentID != "" {
		rec := stats.PerOpponent[entry.OpponentID]
		rec.Add(entry.Result)
		stats.PerOpponent[entry.OpponentID] = rec
	}

	stats.History = append([]model.MatchEntry{entry}, stats.History...)
	if len(stats.History) > model.HistoryCap {
		stats.History = stats.History[:model.HistoryCap]
	}

	if err := s.storage.SaveStats(ctx, s.self, game, stats); err != nil {
		return err
	}

	s.logger.Info("recorded match",
		slog.String("game", string(game)),
		slog.String("result", string(entry.Result)),
		slog.String("opponent", string(entry.OpponentID)))
	return nil
}

// Stats returns the accumulated record for a game. A peer that has never
// played gets a zero record, not an error.
func (s *Service) Stats(ctx context.Context, game model.GameKind) (*model.GameStats, error) {
	stats, err := s.storage.GetStats(ctx, s.self, game)
	if err != nil {
		if errors.Is(err, model.ErrStatsNotFound) {
			return &model.GameStats{}, nil
		}
		return nil, err
	}
	return stats, nil
}

// Reset clears the record for a game
func (s *Service) Reset(ctx context.Context, game model.GameKind) error {
	return s.storage.DeleteStats(ctx, s.self, game)
}
