package presence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/frodon-community/peergames/internal/dependencies/mocks"
	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/testutil"
)

type ReconcilerSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	reconciler *Reconciler
	ctx        context.Context
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

func (s *ReconcilerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.reconciler = New(s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ReconcilerSuite) TestAppearRecordsPeer() {
	s.reconciler.PeerAppeared(s.ctx, model.PeerInfo{PeerID: "bob", DisplayName: "Bob"})

	s.True(s.reconciler.Online("bob"))
	roster := s.reconciler.Roster()
	s.Require().Len(roster, 1)
	s.Equal("Bob", roster[0].Peer.DisplayName)
	s.Equal(s.clock.Now(), roster[0].LastSeen)
}

func (s *ReconcilerSuite) TestLeaveKeepsLastIdentity() {
	s.reconciler.PeerAppeared(s.ctx, model.PeerInfo{PeerID: "bob", DisplayName: "Bob"})
	s.clock.Advance(time.Minute)

	info := s.reconciler.PeerLeft(s.ctx, "bob")
	s.Equal("Bob", info.DisplayName)
	s.False(s.reconciler.Online("bob"))

	roster := s.reconciler.Roster()
	s.Require().Len(roster, 1)
	s.Equal(s.clock.Now(), roster[0].LastSeen)
}

func (s *ReconcilerSuite) TestLeaveOfUnknownPeer() {
	info := s.reconciler.PeerLeft(s.ctx, "ghost")
	s.Equal(model.PeerID("ghost"), info.PeerID)
	s.False(s.reconciler.Online("ghost"))
}

func (s *ReconcilerSuite) TestFlappingPeer() {
	peer := model.PeerInfo{PeerID: "bob", DisplayName: "Bob"}
	for i := 0; i < 3; i++ {
		s.reconciler.PeerAppeared(s.ctx, peer)
		s.reconciler.PeerLeft(s.ctx, "bob")
	}
	s.reconciler.PeerAppeared(s.ctx, peer)

	s.True(s.reconciler.Online("bob"))
	s.Len(s.reconciler.Roster(), 1)
}

func (s *ReconcilerSuite) TestOnlineUnknownPeer() {
	s.False(s.reconciler.Online("nobody"))
}
