// Package transport abstracts the sphere platform's peer messaging.
// Delivery is point-to-point and unreliable: a message arrives eventually
// or not at all, may arrive twice, and only per-sender ordering is
// assumed. Consumers recover from gaps via resync, never retransmission.
package transport

import (
	"context"

	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/protocol"
)

// Handler consumes inbound envelopes and presence events. Implementations
// are invoked serially per process; a handler runs to completion before
// the next event is delivered.
type Handler interface {
	HandleMessage(from model.PeerID, msg protocol.Message)
	HandlePeerAppear(peer model.PeerInfo)
	HandlePeerLeave(peerID model.PeerID)
}

// Messenger is one peer's connection to the messaging substrate
type Messenger interface {
	// Self returns the local peer identity
	Self() model.PeerInfo

	// Send fires an envelope at a peer. Fire-and-forget: a nil error
	// means the message was handed to the substrate, not delivered.
	Send(ctx context.Context, to model.PeerID, msg protocol.Message) error

	// SetHandler installs the consumer. Must be called before any
	// message can be delivered.
	SetHandler(h Handler)

	// Peers lists the peers currently visible on the substrate,
	// excluding self
	Peers() []model.PeerInfo

	Close() error
}
