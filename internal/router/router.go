// Package router dispatches inbound envelopes to the game services. It
// enforces the protocol's role asymmetry: authority-bound messages are
// only handled on the authority's copy, participant-bound messages only
// on a replica, and anything referencing an unknown session is dropped
// as stale unless its type is allowed to create one.
package router

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/protocol"
	"github.com/frodon-community/peergames/internal/registry"
	"github.com/frodon-community/peergames/internal/services/poker"
	"github.com/frodon-community/peergames/internal/services/presence"
	"github.com/frodon-community/peergames/internal/services/tictactoe"
	"github.com/frodon-community/peergames/internal/transport"
)

// dedupWindow bounds how many message ids are remembered for replay
// suppression
const dedupWindow = 1024

// Notifier is told when local state changed and views should refresh
type Notifier interface {
	SessionChanged(id model.SessionID)
	PresenceChanged(peer model.PeerInfo, online bool)
}

// Router is the single entry point for everything the transport delivers
type Router struct {
	registry  *registry.Registry
	tictactoe *tictactoe.Service
	poker     *poker.Service
	presence  *presence.Reconciler
	notifier  Notifier
	logger    *slog.Logger

	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

var _ transport.Handler = (*Router)(nil)

func New(
	reg *registry.Registry,
	tictactoeService *tictactoe.Service,
	pokerService *poker.Service,
	presenceReconciler *presence.Reconciler,
	notifier Notifier,
	logger *slog.Logger,
) *Router {
	return &Router{
		registry:  reg,
		tictactoe: tictactoeService,
		poker:     pokerService,
		presence:  presenceReconciler,
		notifier:  notifier,
		logger:    logger,
		seen:      make(map[string]struct{}, dedupWindow),
	}
}

// HandleMessage validates and dispatches one inbound envelope. Protocol
// violations are dropped with a log line, never answered; the sender
// converges through the next sync or resync.
func (r *Router) HandleMessage(from model.PeerID, msg protocol.Message) {
	if r.isDuplicate(msg.MsgID) {
		r.logger.Debug("dropping redelivered message",
			slog.String("msg_id", msg.MsgID),
			slog.String("type", string(msg.Type)))
		return
	}

	session, err := r.registry.Get(msg.SessionID)
	if err != nil {
		if !msg.Type.CreatesSession() {
			r.logger.Debug("dropping message for unknown session",
				slog.String("session_id", string(msg.SessionID)),
				slog.String("type", string(msg.Type)))
			return
		}
	} else {
		if msg.Type.AuthorityBound() && !session.IsAuthority() {
			r.logger.Warn("dropping authority-bound message on replica",
				slog.String("type", string(msg.Type)),
				slog.String("from", string(from)))
			return
		}
		if msg.Type.ParticipantBound() && session.IsAuthority() && !msg.Type.CreatesSession() {
			r.logger.Warn("dropping participant-bound message on authority",
				slog.String("type", string(msg.Type)),
				slog.String("from", string(from)))
			return
		}
	}

	ctx := context.Background()
	if err := r.dispatch(ctx, from, msg); err != nil {
		r.logger.Warn("dropping rejected message",
			slog.String("type", string(msg.Type)),
			slog.String("session_id", string(msg.SessionID)),
			slog.String("from", string(from)),
			slog.String("error", err.Error()))
		return
	}

	if r.notifier != nil {
		r.notifier.SessionChanged(msg.SessionID)
	}
}

func (r *Router) dispatch(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	switch msg.Type {
	case protocol.TypeChallenge:
		return r.tictactoe.HandleChallenge(ctx, from, msg)
	case protocol.TypeRematch:
		return r.tictactoe.HandleRematch(ctx, from, msg)
	case protocol.TypeMove:
		return r.tictactoe.HandleMove(ctx, from, msg)
	case protocol.TypeForfeit:
		return r.tictactoe.HandleForfeit(ctx, from, msg)
	case protocol.TypeInvite:
		return r.poker.HandleInvite(ctx, from, msg)
	case protocol.TypeInviteAccept:
		return r.poker.HandleInviteAccept(ctx, from, msg)
	case protocol.TypeInviteDecline:
		return r.poker.HandleInviteDecline(ctx, from, msg)
	case protocol.TypeAction:
		return r.poker.HandleAction(ctx, from, msg)
	case protocol.TypeStateSync:
		return r.poker.HandleStateSync(ctx, from, msg)
	case protocol.TypeHand:
		return r.poker.HandleHand(ctx, from, msg)
	case protocol.TypeShowdown:
		return r.poker.HandleShowdown(ctx, from, msg)
	case protocol.TypeResync:
		return r.poker.HandleResync(ctx, from, msg)
	case protocol.TypeLeave:
		return r.poker.HandleLeave(ctx, from, msg)
	case protocol.TypeKick:
		return r.poker.HandleKick(ctx, from, msg)
	case protocol.TypeReplaceNotify:
		return r.poker.HandleReplaceNotify(ctx, from, msg)
	default:
		r.logger.Warn("dropping message of unknown type",
			slog.String("type", string(msg.Type)))
		return nil
	}
}

// HandlePeerAppear reconciles every session touched by a returning peer
func (r *Router) HandlePeerAppear(peer model.PeerInfo) {
	ctx := context.Background()
	r.presence.PeerAppeared(ctx, peer)
	r.poker.PeerAppeared(ctx, peer)
	if r.notifier != nil {
		r.notifier.PresenceChanged(peer, true)
	}
}

// HandlePeerLeave reconciles every session touched by a vanishing peer
func (r *Router) HandlePeerLeave(peerID model.PeerID) {
	ctx := context.Background()
	info := r.presence.PeerLeft(ctx, peerID)
	r.poker.PeerLeft(ctx, peerID)
	if r.notifier != nil {
		r.notifier.PresenceChanged(info, false)
	}
}

// isDuplicate records a message id and reports whether it was already
// seen inside the dedup window
func (r *Router) isDuplicate(msgID string) bool {
	if msgID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[msgID]; ok {
		return true
	}
	r.seen[msgID] = struct{}{}
	r.order = append(r.order, msgID)
	if len(r.order) > dedupWindow {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.seen, oldest)
	}
	return false
}
