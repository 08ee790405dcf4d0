package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/protocol"
	"github.com/frodon-community/peergames/internal/testutil"
	"github.com/frodon-community/peergames/internal/transport"
)

// recordingHandler captures delivered events; the receive loop runs on
// its own goroutine so access is locked
type recordingHandler struct {
	mu       sync.Mutex
	messages []protocol.Message
	appeared []model.PeerID
	left     []model.PeerID
}

var _ transport.Handler = (*recordingHandler)(nil)

func (h *recordingHandler) HandleMessage(_ model.PeerID, msg protocol.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

func (h *recordingHandler) HandlePeerAppear(peer model.PeerInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.appeared = append(h.appeared, peer.PeerID)
}

func (h *recordingHandler) HandlePeerLeave(id model.PeerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.left = append(h.left, id)
}

func (h *recordingHandler) messageCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

func (h *recordingHandler) sawAppear(id model.PeerID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.appeared {
		if p == id {
			return true
		}
	}
	return false
}

func (h *recordingHandler) sawLeave(id model.PeerID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.left {
		if p == id {
			return true
		}
	}
	return false
}

type MessengerSuite struct {
	suite.Suite
	mini   *miniredis.Miniredis
	alice  *Messenger
	bob    *Messenger
	aliceH *recordingHandler
	bobH   *recordingHandler
	ctx    context.Context
}

func TestMessengerSuite(t *testing.T) {
	suite.Run(t, new(MessengerSuite))
}

func (s *MessengerSuite) SetupTest() {
	mini, err := miniredis.Run()
	s.Require().NoError(err)
	s.mini = mini
	s.ctx = context.Background()

	cfg := Config{Address: mini.Addr()}
	logger := testutil.NopLogger()

	s.alice = NewMessenger(cfg, model.PeerInfo{PeerID: "alice", DisplayName: "Alice"}, logger)
	s.aliceH = &recordingHandler{}
	s.alice.SetHandler(s.aliceH)
	s.Require().NoError(s.alice.Start(s.ctx))

	s.bob = NewMessenger(cfg, model.PeerInfo{PeerID: "bob", DisplayName: "Bob"}, logger)
	s.bobH = &recordingHandler{}
	s.bob.SetHandler(s.bobH)
	s.Require().NoError(s.bob.Start(s.ctx))
}

func (s *MessengerSuite) TearDownTest() {
	_ = s.alice.Close()
	_ = s.bob.Close()
	s.mini.Close()
}

func (s *MessengerSuite) waitFor(cond func() bool) {
	s.Require().Eventually(cond, time.Second, 5*time.Millisecond)
}

func (s *MessengerSuite) TestJoinBuildsRosterBothWays() {
	// Bob joined after alice; the join/here exchange tells each about
	// the other
	s.waitFor(func() bool { return s.aliceH.sawAppear("bob") })
	s.waitFor(func() bool { return s.bobH.sawAppear("alice") })

	s.waitFor(func() bool { return len(s.alice.Peers()) == 1 })
	s.Equal(model.PeerID("bob"), s.alice.Peers()[0].PeerID)
}

func (s *MessengerSuite) TestSendDeliversToTarget() {
	s.waitFor(func() bool { return s.aliceH.sawAppear("bob") })

	msg := protocol.New(protocol.TypeMove, "ttc_1")
	msg.Move = &protocol.MovePayload{Cell: 4}
	s.Require().NoError(s.alice.Send(s.ctx, "bob", msg))

	s.waitFor(func() bool { return s.bobH.messageCount() == 1 })
	s.bobH.mu.Lock()
	defer s.bobH.mu.Unlock()
	s.Equal(msg.MsgID, s.bobH.messages[0].MsgID)
	s.Equal(4, s.bobH.messages[0].Move.Cell)
	s.Empty(s.aliceH.messages)
}

func (s *MessengerSuite) TestCloseAnnouncesLeave() {
	s.waitFor(func() bool { return s.aliceH.sawAppear("bob") })

	s.Require().NoError(s.bob.Close())

	s.waitFor(func() bool { return s.aliceH.sawLeave("bob") })
	s.Empty(s.alice.Peers())

	// Replace so TearDownTest's Close is a harmless second close target
	s.bob = NewMessenger(Config{Address: s.mini.Addr()},
		model.PeerInfo{PeerID: "bob2", DisplayName: "Bob"}, testutil.NopLogger())
}

func (s *MessengerSuite) TestRepeatedJoinDoesNotDuplicateAppear() {
	s.waitFor(func() bool { return s.aliceH.sawAppear("bob") })

	// A re-announced here for a known peer updates the roster silently
	s.Require().NoError(s.bob.announce(s.ctx, presenceHere))

	s.waitFor(func() bool { return len(s.alice.Peers()) == 1 })
	s.aliceH.mu.Lock()
	defer s.aliceH.mu.Unlock()
	count := 0
	for _, p := range s.aliceH.appeared {
		if p == "bob" {
			count++
		}
	}
	s.Equal(1, count)
}
