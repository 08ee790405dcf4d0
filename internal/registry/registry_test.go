package registry

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/frodon-community/peergames/internal/model"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = New()
}

func (s *RegistrySuite) ticTacToe(id model.SessionID) *model.TicTacToeSession {
	return model.NewTicTacToeSession(id, "alice", "bob", model.MarkX)
}

func (s *RegistrySuite) poker(id model.SessionID) *model.PokerSession {
	return &model.PokerSession{ID: id, SelfID: "alice", HostID: "alice", IsHost: true}
}

func (s *RegistrySuite) TestPutAndGet() {
	session := s.ticTacToe("ttc_1")
	s.Require().NoError(s.registry.Put(session))

	got, err := s.registry.Get("ttc_1")
	s.Require().NoError(err)
	s.Equal(session, got)
	s.True(s.registry.Has("ttc_1"))
}

func (s *RegistrySuite) TestPutRejectsDuplicateID() {
	s.Require().NoError(s.registry.Put(s.ticTacToe("ttc_1")))

	err := s.registry.Put(s.ticTacToe("ttc_1"))
	s.ErrorIs(err, model.ErrSessionExists)
}

func (s *RegistrySuite) TestReplaceOverwrites() {
	s.Require().NoError(s.registry.Put(s.ticTacToe("ttc_1")))

	fresh := model.NewTicTacToeSession("ttc_1", "alice", "carol", model.MarkO)
	s.registry.Replace(fresh)

	got, err := s.registry.TicTacToe("ttc_1")
	s.Require().NoError(err)
	s.Equal(model.PeerID("carol"), got.OpponentID)
}

func (s *RegistrySuite) TestGetUnknown() {
	_, err := s.registry.Get("missing")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *RegistrySuite) TestTypedGetters() {
	s.Require().NoError(s.registry.Put(s.ticTacToe("ttc_1")))
	s.Require().NoError(s.registry.Put(s.poker("pk_1")))

	ttt, err := s.registry.TicTacToe("ttc_1")
	s.Require().NoError(err)
	s.Equal(model.SessionID("ttc_1"), ttt.ID)

	pk, err := s.registry.Poker("pk_1")
	s.Require().NoError(err)
	s.Equal(model.SessionID("pk_1"), pk.ID)

	// Kind mismatch reads as not found
	_, err = s.registry.Poker("ttc_1")
	s.ErrorIs(err, model.ErrSessionNotFound)
	_, err = s.registry.TicTacToe("pk_1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *RegistrySuite) TestRemove() {
	s.Require().NoError(s.registry.Put(s.ticTacToe("ttc_1")))
	s.registry.Remove("ttc_1")

	s.False(s.registry.Has("ttc_1"))
	// Removing again is a no-op
	s.registry.Remove("ttc_1")
}

func (s *RegistrySuite) TestList() {
	s.Empty(s.registry.List())

	s.Require().NoError(s.registry.Put(s.ticTacToe("ttc_1")))
	s.Require().NoError(s.registry.Put(s.poker("pk_1")))

	s.Len(s.registry.List(), 2)
}
