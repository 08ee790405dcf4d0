package inproc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/protocol"
	"github.com/frodon-community/peergames/internal/transport"
)

// recordingHandler captures every event delivered to one peer
type recordingHandler struct {
	messages []protocol.Message
	froms    []model.PeerID
	appeared []model.PeerID
	left     []model.PeerID
}

var _ transport.Handler = (*recordingHandler)(nil)

func (h *recordingHandler) HandleMessage(from model.PeerID, msg protocol.Message) {
	h.froms = append(h.froms, from)
	h.messages = append(h.messages, msg)
}

func (h *recordingHandler) HandlePeerAppear(peer model.PeerInfo) {
	h.appeared = append(h.appeared, peer.PeerID)
}

func (h *recordingHandler) HandlePeerLeave(id model.PeerID) {
	h.left = append(h.left, id)
}

type InprocSuite struct {
	suite.Suite
	net    *Network
	alice  *Peer
	bob    *Peer
	aliceH *recordingHandler
	bobH   *recordingHandler
	ctx    context.Context
}

func TestInprocSuite(t *testing.T) {
	suite.Run(t, new(InprocSuite))
}

func (s *InprocSuite) SetupTest() {
	s.net = NewNetwork()
	s.alice = s.net.Join(model.PeerInfo{PeerID: "alice", DisplayName: "Alice"})
	s.aliceH = &recordingHandler{}
	s.alice.SetHandler(s.aliceH)

	s.bob = s.net.Join(model.PeerInfo{PeerID: "bob", DisplayName: "Bob"})
	s.bobH = &recordingHandler{}
	s.bob.SetHandler(s.bobH)

	s.ctx = context.Background()
}

func (s *InprocSuite) TestSendDeliversSynchronously() {
	msg := protocol.New(protocol.TypeMove, "ttc_1")
	s.Require().NoError(s.alice.Send(s.ctx, "bob", msg))

	s.Require().Len(s.bobH.messages, 1)
	s.Equal(msg.MsgID, s.bobH.messages[0].MsgID)
	s.Equal(model.PeerID("alice"), s.bobH.froms[0])
	s.Empty(s.aliceH.messages)
}

func (s *InprocSuite) TestSendToUnknownPeerIsSilent() {
	s.NoError(s.alice.Send(s.ctx, "ghost", protocol.New(protocol.TypeMove, "ttc_1")))
}

func (s *InprocSuite) TestLossyPeerDropsOutbound() {
	s.alice.Lossy = true
	s.Require().NoError(s.alice.Send(s.ctx, "bob", protocol.New(protocol.TypeMove, "ttc_1")))
	s.Empty(s.bobH.messages)

	s.alice.Lossy = false
	s.Require().NoError(s.alice.Send(s.ctx, "bob", protocol.New(protocol.TypeMove, "ttc_1")))
	s.Len(s.bobH.messages, 1)
}

func (s *InprocSuite) TestJoinAnnouncesToExistingPeers() {
	s.net.Join(model.PeerInfo{PeerID: "carol", DisplayName: "Carol"})

	s.Equal([]model.PeerID{"bob", "carol"}, s.aliceH.appeared)
	s.Equal([]model.PeerID{"carol"}, s.bobH.appeared)
}

func (s *InprocSuite) TestDropAnnouncesLeave() {
	s.net.Drop("bob")

	s.Equal([]model.PeerID{"bob"}, s.aliceH.left)
	// The dropped peer gets no event for its own departure
	s.Empty(s.bobH.left)
}

func (s *InprocSuite) TestRejoinReusesHandler() {
	s.net.Drop("bob")
	s.Require().NoError(s.alice.Send(s.ctx, "bob", protocol.New(protocol.TypeMove, "ttc_1")))
	s.Empty(s.bobH.messages)

	s.net.Rejoin(s.bob)
	s.Equal([]model.PeerID{"bob", "bob"}, s.aliceH.appeared)

	s.Require().NoError(s.alice.Send(s.ctx, "bob", protocol.New(protocol.TypeMove, "ttc_1")))
	s.Len(s.bobH.messages, 1)
}

func (s *InprocSuite) TestCloseAnnouncesLeave() {
	s.Require().NoError(s.bob.Close())
	s.Equal([]model.PeerID{"bob"}, s.aliceH.left)
}

func (s *InprocSuite) TestPeersExcludesSelf() {
	peers := s.alice.Peers()
	s.Require().Len(peers, 1)
	s.Equal(model.PeerID("bob"), peers[0].PeerID)
}
