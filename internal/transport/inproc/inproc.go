// Package inproc is an in-process messaging substrate. Every peer lives
// in the same process and delivery is synchronous, which makes protocol
// tests deterministic: when Send returns, the remote handler has run.
package inproc

import (
	"context"
	"sync"

	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/protocol"
	"github.com/frodon-community/peergames/internal/transport"
)

// Network connects in-process peers
type Network struct {
	mu    sync.RWMutex
	peers map[model.PeerID]*Peer
}

// NewNetwork creates an empty network
func NewNetwork() *Network {
	return &Network{peers: make(map[model.PeerID]*Peer)}
}

// Join adds a peer to the network and announces it to everyone else
func (n *Network) Join(info model.PeerInfo) *Peer {
	p := &Peer{info: info, net: n}

	n.mu.Lock()
	others := make([]*Peer, 0, len(n.peers))
	for _, o := range n.peers {
		others = append(others, o)
	}
	n.peers[info.PeerID] = p
	n.mu.Unlock()

	for _, o := range others {
		o.deliverAppear(info)
	}
	return p
}

// Drop removes a peer without a clean Close, simulating an abrupt
// disconnect; remaining peers observe a peer-leave event
func (n *Network) Drop(id model.PeerID) {
	n.remove(id)
}

func (n *Network) remove(id model.PeerID) {
	n.mu.Lock()
	_, ok := n.peers[id]
	delete(n.peers, id)
	others := make([]*Peer, 0, len(n.peers))
	for _, o := range n.peers {
		others = append(others, o)
	}
	n.mu.Unlock()

	if !ok {
		return
	}
	for _, o := range others {
		o.deliverLeave(id)
	}
}

// Rejoin re-announces a previously dropped peer, reusing its handler
func (n *Network) Rejoin(p *Peer) {
	n.mu.Lock()
	others := make([]*Peer, 0, len(n.peers))
	for _, o := range n.peers {
		others = append(others, o)
	}
	n.peers[p.info.PeerID] = p
	n.mu.Unlock()

	for _, o := range others {
		o.deliverAppear(p.info)
	}
}

// Peer is one in-process endpoint
type Peer struct {
	info    model.PeerInfo
	net     *Network
	mu      sync.RWMutex
	handler transport.Handler

	// Lossy drops outbound messages instead of delivering them,
	// for loss-tolerance tests
	Lossy bool
}

var _ transport.Messenger = (*Peer)(nil)

func (p *Peer) Self() model.PeerInfo { return p.info }

func (p *Peer) SetHandler(h transport.Handler) {
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
}

// Send delivers synchronously to the target's handler. Unknown targets
// are a silent no-op, matching the substrate's fire-and-forget contract.
func (p *Peer) Send(_ context.Context, to model.PeerID, msg protocol.Message) error {
	if p.Lossy {
		return nil
	}
	p.net.mu.RLock()
	target, ok := p.net.peers[to]
	p.net.mu.RUnlock()
	if !ok {
		return nil
	}
	target.deliverMessage(p.info.PeerID, msg)
	return nil
}

func (p *Peer) Peers() []model.PeerInfo {
	p.net.mu.RLock()
	defer p.net.mu.RUnlock()
	out := make([]model.PeerInfo, 0, len(p.net.peers))
	for id, o := range p.net.peers {
		if id == p.info.PeerID {
			continue
		}
		out = append(out, o.info)
	}
	return out
}

func (p *Peer) Close() error {
	p.net.remove(p.info.PeerID)
	return nil
}

func (p *Peer) deliverMessage(from model.PeerID, msg protocol.Message) {
	p.mu.RLock()
	h := p.handler
	p.mu.RUnlock()
	if h != nil {
		h.HandleMessage(from, msg)
	}
}

func (p *Peer) deliverAppear(peer model.PeerInfo) {
	p.mu.RLock()
	h := p.handler
	p.mu.RUnlock()
	if h != nil {
		h.HandlePeerAppear(peer)
	}
}

func (p *Peer) deliverLeave(id model.PeerID) {
	p.mu.RLock()
	h := p.handler
	p.mu.RUnlock()
	if h != nil {
		h.HandlePeerLeave(id)
	}
}
