package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/frodon-community/peergames/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetStats() {
	stats := &model.GameStats{
		Overall: model.Record{Wins: 3, Losses: 1, Draws: 2},
		PerOpponent: map[model.PeerID]model.Record{
			"peer-2": {Wins: 3, Losses: 1, Draws: 2},
		},
	}

	err := s.storage.SaveStats(s.ctx, "peer-1", model.GameTicTacToe, stats)
	s.Require().NoError(err)

	got, err := s.storage.GetStats(s.ctx, "peer-1", model.GameTicTacToe)
	s.Require().NoError(err)
	s.Equal(stats.Overall, got.Overall)
	s.Equal(stats.PerOpponent, got.PerOpponent)
}

func (s *StorageSuite) TestGetStatsNotFound() {
	_, err := s.storage.GetStats(s.ctx, "peer-1", model.GamePoker)
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *StorageSuite) TestStatsKeyedByGame() {
	ttc := &model.GameStats{Overall: model.Record{Wins: 1}}
	pk := &model.GameStats{Overall: model.Record{Losses: 1}}

	s.Require().NoError(s.storage.SaveStats(s.ctx, "peer-1", model.GameTicTacToe, ttc))
	s.Require().NoError(s.storage.SaveStats(s.ctx, "peer-1", model.GamePoker, pk))

	got, err := s.storage.GetStats(s.ctx, "peer-1", model.GamePoker)
	s.Require().NoError(err)
	s.Equal(1, got.Overall.Losses)
	s.Equal(0, got.Overall.Wins)
}

func (s *StorageSuite) TestDeleteStats() {
	stats := &model.GameStats{Overall: model.Record{Wins: 1}}
	s.Require().NoError(s.storage.SaveStats(s.ctx, "peer-1", model.GameTicTacToe, stats))

	err := s.storage.DeleteStats(s.ctx, "peer-1", model.GameTicTacToe)
	s.Require().NoError(err)

	_, err = s.storage.GetStats(s.ctx, "peer-1", model.GameTicTacToe)
	s.ErrorIs(err, model.ErrStatsNotFound)
}
