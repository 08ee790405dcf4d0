package stats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/frodon-community/peergames/internal/dependencies/mocks"
	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/storage/memory"
	"github.com/frodon-community/peergames/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
	clock   *mocks.MockClock
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(memory.New(), s.clock, testutil.NopLogger(), "peer-1")
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestRecordFirstMatch() {
	err := s.service.Record(s.ctx, model.GameTicTacToe, model.MatchEntry{
		OpponentID:   "peer-2",
		OpponentName: "Bob",
		Result:       model.ResultWin,
	})
	s.Require().NoError(err)

	stats, err := s.service.Stats(s.ctx, model.GameTicTacToe)
	s.Require().NoError(err)
	s.Equal(1, stats.Overall.Wins)
	s.Equal(1, stats.PerOpponent["peer-2"].Wins)
	s.Require().Len(stats.History, 1)
	s.Equal(s.clock.Now(), stats.History[0].PlayedAt)
}

func (s *ServiceSuite) TestRecordAccumulatesPerOpponent() {
	results := []model.MatchResult{model.ResultWin, model.ResultLoss, model.ResultWin}
	for _, r := range results {
		s.Require().NoError(s.service.Record(s.ctx, model.GameTicTacToe, model.MatchEntry{
			OpponentID: "peer-2",
			Result:     r,
		}))
	}
	s.Require().NoError(s.service.Record(s.ctx, model.GameTicTacToe, model.MatchEntry{
		OpponentID: "peer-3",
		Result:     model.ResultDraw,
	}))

	stats, err := s.service.Stats(s.ctx, model.GameTicTacToe)
	s.Require().NoError(err)
	s.Equal(model.Record{Wins: 2, Losses: 1, Draws: 1}, stats.Overall)
	s.Equal(model.Record{Wins: 2, Losses: 1}, stats.PerOpponent["peer-2"])
	s.Equal(model.Record{Draws: 1}, stats.PerOpponent["peer-3"])
}

func (s *ServiceSuite) TestHistoryNewestFirstAndCapped() {
	for i := 0; i < model.HistoryCap+5; i++ {
		s.Require().NoError(s.service.Record(s.ctx, model.GamePoker, model.MatchEntry{
			OpponentID: model.PeerID(fmt.Sprintf("peer-%d", i)),
			Result:     model.ResultWin,
		}))
	}

	stats, err := s.service.Stats(s.ctx, model.GamePoker)
	s.Require().NoError(err)
	s.Len(stats.History, model.HistoryCap)
	// Newest entry is first; the oldest five fell off
	s.Equal(model.PeerID(fmt.Sprintf("peer-%d", model.HistoryCap+4)), stats.History[0].OpponentID)
	s.Equal(model.PeerID("peer-5"), stats.History[model.HistoryCap-1].OpponentID)
	// The overall record still counts every match
	s.Equal(model.HistoryCap+5, stats.Overall.Wins)
}

func (s *ServiceSuite) TestStatsForUnplayedGameIsZero() {
	stats, err := s.service.Stats(s.ctx, model.GamePoker)
	s.Require().NoError(err)
	s.Equal(0, stats.Overall.Total())
	s.Empty(stats.History)
}

func (s *ServiceSuite) TestGamesAreIndependent() {
	s.Require().NoError(s.service.Record(s.ctx, model.GameTicTacToe, model.MatchEntry{
		OpponentID: "peer-2",
		Result:     model.ResultWin,
	}))

	stats, err := s.service.Stats(s.ctx, model.GamePoker)
	s.Require().NoError(err)
	s.Equal(0, stats.Overall.Total())
}

func (s *ServiceSuite) TestReset() {
	s.Require().NoError(s.service.Record(s.ctx, model.GameTicTacToe, model.MatchEntry{
		Result: model.ResultWin,
	}))
	s.Require().NoError(s.service.Reset(s.ctx, model.GameTicTacToe))

	stats, err := s.service.Stats(s.ctx, model.GameTicTacToe)
	s.Require().NoError(err)
	s.Equal(0, stats.Overall.Total())
}
