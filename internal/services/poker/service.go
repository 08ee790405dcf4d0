// Package poker runs host-authoritative Texas Hold'em tables. The host's
// copy of a table is ground truth; every other seat holds a replica that
// is overwritten wholesale by each state_sync and only ever predicted
// ahead for the local player's own pending action.
package poker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frodon-community/peergames/internal/dependencies/clock"
	"github.com/frodon-community/peergames/internal/dependencies/random"
	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/protocol"
	"github.com/frodon-community/peergames/internal/registry"
	"github.com/frodon-community/peergames/internal/services/stats"
	"github.com/frodon-community/peergames/internal/transport"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Service owns every poker table this peer sits at, hosting or not
type Service struct {
	registry  *registry.Registry
	messenger transport.Messenger
	stats     *stats.Service
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
}

func New(
	reg *registry.Registry,
	messenger transport.Messenger,
	statsService *stats.Service,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		registry:  reg,
		messenger: messenger,
		stats:     statsService,
		clock:     clk,
		random:    rnd,
		logger:    logger,
	}
}

func (s *Service) newSessionID() model.SessionID {
	return model.SessionID(fmt.Sprintf("pk_%d_%s",
		s.clock.Now().UnixMilli(), s.random.String(6, idAlphabet)))
}

// CreateTable opens a table with the local peer hosting and invites the
// first opponent
func (s *Service) CreateTable(ctx context.Context, first model.PeerID) (*model.PokerSession, error) {
	self := s.messenger.Self()
	cfg := model.DefaultTableConfig()

	session := &model.PokerSession{
		ID:     s.newSessionID(),
		SelfID: self.PeerID,
		HostID: self.PeerID,
		IsHost: true,
		Public: model.PokerPublic{
			Phase:     model.PhaseLobby,
			DealerIdx: -1,
			RoundBet:  cfg.BigBlind,
			Config:    cfg,
			Players: []*model.Participant{{
				PeerID:      self.PeerID,
				DisplayName: self.DisplayName,
				Avatar:      self.Avatar,
				Status:      model.StatusActive,
				Chips:       cfg.StartingChips,
			}},
		},
		AllHands:       make(map[model.PeerID][]model.Card),
		PendingInvites: make(map[model.PeerID]bool),
	}
	if err := s.registry.Put(session); err != nil {
		return nil, err
	}

	if err := s.Invite(ctx, session.ID, first); err != nil {
		s.registry.Remove(session.ID)
		return nil, err
	}

	s.logger.Info("created table",
		slog.String("session_id", string(session.ID)),
		slog.String("invited", string(first)))
	return session, nil
}

// Invite seats a peer and sends it the table proposal. Only the host may
// invite, and only while the table is in the lobby.
func (s *Service) Invite(ctx context.Context, id model.SessionID, peer model.PeerID) error {
	session, err := s.registry.Poker(id)
	if err != nil {
		return err
	}
	if !session.IsHost {
		return model.ErrNotAuthority
	}
	if session.Public.Phase != model.PhaseLobby {
		return model.ErrSessionEnded
	}
	if session.Public.Participant(peer) != nil {
		return model.ErrSeatTaken
	}
	if len(session.Public.Players) >= session.Public.Config.MaxPlayers {
		return model.ErrTableFull
	}

	info := s.peerInfo(peer)
	session.Public.Players = append(session.Public.Players, &model.Participant{
		PeerID:      peer,
		DisplayName: info.DisplayName,
		Avatar:      info.Avatar,
		Status:      model.StatusActive,
		Chips:       session.Public.Config.StartingChips,
	})
	session.PendingInvites[peer] = true

	return s.sendInvite(ctx, session, peer)
}

func (s *Service) sendInvite(ctx context.Context, session *model.PokerSession, peer model.PeerID) error {
	msg := protocol.New(protocol.TypeInvite, session.ID)
	msg.Invite = &protocol.InvitePayload{
		FromName: s.messenger.Self().DisplayName,
		Config:   session.Public.Config,
		Players:  session.Public.Clone().Players,
	}
	if err := s.messenger.Send(ctx, peer, msg); err != nil {
		return fmt.Errorf("sending invite: %w", err)
	}
	return nil
}

// Accept joins the table this peer was invited to
func (s *Service) Accept(ctx context.Context, id model.SessionID) error {
	session, err := s.registry.Poker(id)
	if err != nil {
		return err
	}
	session.InvitedBy = ""

	msg := protocol.New(protocol.TypeInviteAccept, id)
	if err := s.messenger.Send(ctx, session.HostID, msg); err != nil {
		return fmt.Errorf("sending accept: %w", err)
	}
	return nil
}

// Decline refuses an invitation and forgets the table
func (s *Service) Decline(ctx context.Context, id model.SessionID) error {
	session, err := s.registry.Poker(id)
	if err != nil {
		return err
	}
	s.registry.Remove(id)

	msg := protocol.New(protocol.TypeInviteDecline, id)
	if err := s.messenger.Send(ctx, session.HostID, msg); err != nil {
		return fmt.Errorf("sending decline: %w", err)
	}
	return nil
}

// StartHand deals a new hand. It both launches the first hand from the
// lobby and starts the next one after a hand ends.
func (s *Service) StartHand(ctx context.Context, id model.SessionID) error {
	session, err := s.registry.Poker(id)
	if err != nil {
		return err
	}
	if err := Deal(session, s.random); err != nil {
		return err
	}
	s.broadcastSync(ctx, session)
	s.logger.Info("dealt hand",
		slog.String("session_id", string(id)),
		slog.Int("players", len(session.Public.Players)))
	return nil
}

// Act submits the local player's betting action. The host applies it
// directly; a participant sends it to the host and projects an optimistic
// echo until the authoritative sync lands.
func (s *Service) Act(ctx context.Context, id model.SessionID, action model.PokerAction, amount int64) error {
	session, err := s.registry.Poker(id)
	if err != nil {
		return err
	}

	if session.IsHost {
		step, err := Apply(session, session.SelfID, action, amount)
		if err != nil {
			return err
		}
		s.finishStep(ctx, session, step)
		return nil
	}

	// Install the echo before sending: the authority's sync must always
	// win the race against the prediction
	Predict(session, action, amount)
	msg := protocol.New(protocol.TypeAction, id)
	msg.Action = &protocol.ActionPayload{Action: action, Amount: amount}
	if err := s.messenger.Send(ctx, session.HostID, msg); err != nil {
		session.Predicted = nil
		return fmt.Errorf("sending action: %w", err)
	}
	return nil
}

// Leave exits the table. A participant tells the host and forgets the
// session; a dissolving host kicks every remaining seat first.
func (s *Service) Leave(ctx context.Context, id model.SessionID) error {
	session, err := s.registry.Poker(id)
	if err != nil {
		return err
	}

	if session.IsHost {
		for _, p := range session.Public.Players {
			if p.PeerID == session.SelfID {
				continue
			}
			msg := protocol.New(protocol.TypeKick, id)
			if err := s.messenger.Send(ctx, p.PeerID, msg); err != nil {
				s.logger.Warn("failed to notify kicked peer",
					slog.String("peer", string(p.PeerID)),
					slog.String("error", err.Error()))
			}
		}
		s.registry.Remove(id)
		return nil
	}

	msg := protocol.New(protocol.TypeLeave, id)
	if err := s.messenger.Send(ctx, session.HostID, msg); err != nil {
		return fmt.Errorf("sending leave: %w", err)
	}
	s.registry.Remove(id)
	return nil
}

// Kick removes a seat from a lobby-phase table
func (s *Service) Kick(ctx context.Context, id model.SessionID, peer model.PeerID) error {
	session, err := s.registry.Poker(id)
	if err != nil {
		return err
	}
	if !session.IsHost {
		return model.ErrNotAuthority
	}
	if session.Public.Phase != model.PhaseLobby {
		return model.ErrSessionEnded
	}
	if session.Public.Participant(peer) == nil {
		return model.ErrParticipantNotFound
	}

	msg := protocol.New(protocol.TypeKick, id)
	if err := s.messenger.Send(ctx, peer, msg); err != nil {
		return fmt.Errorf("sending kick: %w", err)
	}
	s.removeSeat(session, peer)
	s.broadcastSync(ctx, session)
	return nil
}

// Replace hands a disconnected seat to a fresh peer mid-session: the old
// peer is kicked, the seat keeps its chips and hole cards under the new
// identity, the newcomer is invited with the live seat list, and every
// other seat learns about the swap.
func (s *Service) Replace(ctx context.Context, id model.SessionID, oldPeer, newPeer model.PeerID) error {
	session, err := s.registry.Poker(id)
	if err != nil {
		return err
	}
	if !session.IsHost {
		return model.ErrNotAuthority
	}
	old := session.Public.Participant(oldPeer)
	if old == nil {
		return model.ErrParticipantNotFound
	}
	if old.Status != model.StatusDisconnected {
		return model.ErrParticipantNotActive
	}
	if session.Public.Participant(newPeer) != nil {
		return model.ErrSeatTaken
	}

	kick := protocol.New(protocol.TypeKick, id)
	if err := s.messenger.Send(ctx, oldPeer, kick); err != nil {
		s.logger.Warn("failed to notify replaced peer",
			slog.String("peer", string(oldPeer)),
			slog.String("error", err.Error()))
	}

	oldName := old.DisplayName
	info := s.peerInfo(newPeer)
	if hand, ok := session.AllHands[oldPeer]; ok {
		session.AllHands[newPeer] = hand
		delete(session.AllHands, oldPeer)
	}
	old.PeerID = newPeer
	old.DisplayName = info.DisplayName
	old.Avatar = info.Avatar
	old.Status = model.StatusActive

	if err := s.sendInvite(ctx, session, newPeer); err != nil {
		return err
	}

	notify := protocol.New(protocol.TypeReplaceNotify, id)
	notify.Replace = &protocol.ReplacePayload{
		OldID:   oldPeer,
		OldName: oldName,
		NewID:   newPeer,
		NewName: info.DisplayName,
		Avatar:  info.Avatar,
	}
	for _, p := range session.Public.Players {
		if p.PeerID == session.SelfID || p.PeerID == newPeer {
			continue
		}
		if err := s.messenger.Send(ctx, p.PeerID, notify); err != nil {
			s.logger.Warn("failed to send replace notify",
				slog.String("peer", string(p.PeerID)),
				slog.String("error", err.Error()))
		}
	}

	s.broadcastSync(ctx, session)
	s.logger.Info("replaced seat",
		slog.String("session_id", string(id)),
		slog.String("old", string(oldPeer)),
		slog.String("new", string(newPeer)))
	return nil
}

// HandStrength names the local player's current best hand, for display
// alongside the hole cards
func (s *Service) HandStrength(id model.SessionID) (HandEval, error) {
	session, err := s.registry.Poker(id)
	if err != nil {
		return HandEval{}, err
	}
	if len(session.MyHand) < 2 {
		return HandEval{}, model.ErrSessionNotStarted
	}
	cards := append(append([]model.Card{}, session.MyHand...), session.View().Community...)
	return EvalBest(cards), nil
}

// HandleInvite installs the proposed table on the invitee's side. A
// replacement invite for a table already in progress lands the same way;
// the first sync then brings the replica up to date.
func (s *Service) HandleInvite(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	if msg.Invite == nil {
		return nil
	}

	session := &model.PokerSession{
		ID:             msg.SessionID,
		SelfID:         s.messenger.Self().PeerID,
		HostID:         from,
		IsHost:         false,
		InvitedBy:      msg.Invite.FromName,
		AllHands:       make(map[model.PeerID][]model.Card),
		PendingInvites: make(map[model.PeerID]bool),
		Public: model.PokerPublic{
			Phase:     model.PhaseLobby,
			DealerIdx: -1,
			RoundBet:  msg.Invite.Config.BigBlind,
			Config:    msg.Invite.Config,
			Players:   msg.Invite.Players,
		},
	}
	s.registry.Replace(session)

	s.logger.Info("received invite",
		slog.String("session_id", string(msg.SessionID)),
		slog.String("host", string(from)))
	return nil
}

// HandleInviteAccept seats an accepting peer, host side
func (s *Service) HandleInviteAccept(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	session, err := s.registry.Poker(msg.SessionID)
	if err != nil {
		return err
	}
	if !session.IsHost {
		return model.ErrAuthorityMsg
	}

	if p := session.Public.Participant(from); p != nil {
		p.Status = model.StatusActive
	} else {
		info := s.peerInfo(from)
		session.Public.Players = append(session.Public.Players, &model.Participant{
			PeerID:      from,
			DisplayName: info.DisplayName,
			Avatar:      info.Avatar,
			Status:      model.StatusActive,
			Chips:       session.Public.Config.StartingChips,
		})
	}
	delete(session.PendingInvites, from)
	s.broadcastSync(ctx, session)
	return nil
}

// HandleInviteDecline unseats a declining peer, host side
func (s *Service) HandleInviteDecline(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	session, err := s.registry.Poker(msg.SessionID)
	if err != nil {
		return err
	}
	if !session.IsHost {
		return model.ErrAuthorityMsg
	}
	s.removeSeat(session, from)
	s.broadcastSync(ctx, session)
	return nil
}

// HandleAction applies a participant's betting action, host side
func (s *Service) HandleAction(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	if msg.Action == nil {
		return nil
	}
	session, err := s.registry.Poker(msg.SessionID)
	if err != nil {
		return err
	}

	step, err := Apply(session, from, msg.Action.Action, msg.Action.Amount)
	if err != nil {
		return err
	}
	s.finishStep(ctx, session, step)
	return nil
}

// HandleStateSync overwrites the replica's public state with the
// authority's. Any optimistic echo is discarded, confirmed or not.
func (s *Service) HandleStateSync(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	if msg.Sync == nil {
		return nil
	}
	session, err := s.registry.Poker(msg.SessionID)
	if err != nil {
		return err
	}
	if from != session.HostID {
		return model.ErrAuthorityMsg
	}

	session.Public = msg.Sync.Public
	session.Predicted = nil
	return nil
}

// HandleHand stores the private hole cards the authority dealt us
func (s *Service) HandleHand(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	if msg.Hand == nil {
		return nil
	}
	session, err := s.registry.Poker(msg.SessionID)
	if err != nil {
		return err
	}
	if from != session.HostID {
		return model.ErrAuthorityMsg
	}
	session.MyHand = msg.Hand.Cards
	return nil
}

// HandleShowdown installs the hand result and records the match outcome
func (s *Service) HandleShowdown(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	if msg.Showdown == nil {
		return nil
	}
	session, err := s.registry.Poker(msg.SessionID)
	if err != nil {
		return err
	}
	if from != session.HostID {
		return model.ErrAuthorityMsg
	}

	ApplyShowdown(session, msg.Showdown)
	s.recordOutcome(ctx, session, msg.Showdown)
	return nil
}

// HandleResync answers a participant's pull with fresh authoritative
// state. Resync is idempotent: any number of pulls converge the replica.
func (s *Service) HandleResync(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	session, err := s.registry.Poker(msg.SessionID)
	if err != nil {
		return err
	}
	if !session.IsHost {
		return model.ErrAuthorityMsg
	}

	if p := session.Public.Participant(from); p != nil && p.Status == model.StatusDisconnected {
		p.Status = model.StatusActive
	}
	s.syncPeer(ctx, session, from)
	return nil
}

// HandleLeave marks a departing seat, host side. The seat forfeits its
// chips; if the hand was waiting on that seat the round settles as if it
// had folded.
func (s *Service) HandleLeave(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	session, err := s.registry.Poker(msg.SessionID)
	if err != nil {
		return err
	}
	if !session.IsHost {
		return model.ErrAuthorityMsg
	}
	p := session.Public.Participant(from)
	if p == nil {
		return model.ErrParticipantNotFound
	}

	p.Chips = 0
	s.disconnectSeat(ctx, session, p)
	return nil
}

// disconnectSeat marks a seat unavailable and keeps the hand moving: a
// seat that vanished mid-turn is folded on its behalf through the normal
// action path, so round closure and street advancement fire as usual.
func (s *Service) disconnectSeat(ctx context.Context, session *model.PokerSession, p *model.Participant) {
	wasCurrent := session.Public.Phase.InProgress() &&
		session.Public.ParticipantIdx(p.PeerID) == session.Public.CurrentIdx

	if !wasCurrent {
		p.Status = model.StatusDisconnected
		if session.Public.Phase.InProgress() {
			s.broadcastSync(ctx, session)
		}
		return
	}

	step, err := Apply(session, p.PeerID, model.ActionFold, 0)
	p.Status = model.StatusDisconnected
	if err != nil {
		s.logger.Warn("failed to auto-fold departed peer",
			slog.String("peer", string(p.PeerID)),
			slog.String("error", err.Error()))
		return
	}
	s.finishStep(ctx, session, step)
}

// HandleKick drops the local replica after the host removed this seat
func (s *Service) HandleKick(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	session, err := s.registry.Poker(msg.SessionID)
	if err != nil {
		return err
	}
	if from != session.HostID {
		return model.ErrAuthorityMsg
	}
	s.registry.Remove(msg.SessionID)
	s.logger.Info("removed from table", slog.String("session_id", string(msg.SessionID)))
	return nil
}

// HandleReplaceNotify rewrites a seat's identity after the host swapped
// in a replacement peer. Chips, bet and turn position carry over.
func (s *Service) HandleReplaceNotify(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	if msg.Replace == nil {
		return nil
	}
	session, err := s.registry.Poker(msg.SessionID)
	if err != nil {
		return err
	}
	if from != session.HostID {
		return model.ErrAuthorityMsg
	}

	if p := session.Public.Participant(msg.Replace.OldID); p != nil {
		p.PeerID = msg.Replace.NewID
		p.DisplayName = msg.Replace.NewName
		p.Avatar = msg.Replace.Avatar
		p.Status = model.StatusActive
	}
	return nil
}

// PeerAppeared reconciles a reappearing peer across this service's
// sessions: the host pushes fresh state at a returning seat, and a
// participant whose host came back pulls a resync.
func (s *Service) PeerAppeared(ctx context.Context, peer model.PeerInfo) {
	for _, existing := range s.registry.List() {
		session, ok := existing.(*model.PokerSession)
		if !ok {
			continue
		}

		if session.IsHost {
			p := session.Public.Participant(peer.PeerID)
			if p == nil {
				continue
			}
			if p.Status == model.StatusDisconnected {
				p.Status = model.StatusActive
			}
			s.syncPeer(ctx, session, peer.PeerID)
			s.broadcastSync(ctx, session)
		} else if peer.PeerID == session.HostID {
			msg := protocol.New(protocol.TypeResync, session.ID)
			if err := s.messenger.Send(ctx, session.HostID, msg); err != nil {
				s.logger.Warn("failed to request resync",
					slog.String("session_id", string(session.ID)),
					slog.String("error", err.Error()))
			}
		}
	}
}

// PeerLeft marks a vanished seat on hosted tables. If the hand was
// waiting on that seat, the authority folds it through the normal action
// path so every downstream invariant holds.
func (s *Service) PeerLeft(ctx context.Context, peerID model.PeerID) {
	for _, existing := range s.registry.List() {
		session, ok := existing.(*model.PokerSession)
		if !ok || !session.IsHost {
			continue
		}
		p := session.Public.Participant(peerID)
		if p == nil || p.Status == model.StatusEliminated {
			continue
		}
		s.disconnectSeat(ctx, session, p)
	}
}

// finishStep broadcasts whatever a transition produced: the hand result
// when it ended, otherwise the updated table state
func (s *Service) finishStep(ctx context.Context, session *model.PokerSession, step Step) {
	if !step.Ended {
		s.broadcastSync(ctx, session)
		return
	}

	msg := protocol.New(protocol.TypeShowdown, session.ID)
	msg.Showdown = step.Result
	for _, p := range session.Public.Players {
		if p.PeerID == session.SelfID {
			continue
		}
		if err := s.messenger.Send(ctx, p.PeerID, msg); err != nil {
			s.logger.Warn("failed to send showdown",
				slog.String("peer", string(p.PeerID)),
				slog.String("error", err.Error()))
		}
	}
	s.recordOutcome(ctx, session, step.Result)
}

// broadcastSync pushes the public state to every other seat, plus each
// seat's private hand while a hand is live
func (s *Service) broadcastSync(ctx context.Context, session *model.PokerSession) {
	for _, p := range session.Public.Players {
		if p.PeerID == session.SelfID {
			continue
		}
		s.syncPeer(ctx, session, p.PeerID)
	}
}

func (s *Service) syncPeer(ctx context.Context, session *model.PokerSession, peer model.PeerID) {
	msg := protocol.New(protocol.TypeStateSync, session.ID)
	msg.Sync = &protocol.SyncPayload{Public: *session.Public.Clone()}
	if err := s.messenger.Send(ctx, peer, msg); err != nil {
		s.logger.Warn("failed to sync peer",
			slog.String("peer", string(peer)),
			slog.String("error", err.Error()))
		return
	}

	hand, ok := session.AllHands[peer]
	if ok && session.Public.Phase.InProgress() {
		hm := protocol.New(protocol.TypeHand, session.ID)
		hm.Hand = &protocol.HandPayload{Cards: hand}
		if err := s.messenger.Send(ctx, peer, hm); err != nil {
			s.logger.Warn("failed to send hand",
				slog.String("peer", string(peer)),
				slog.String("error", err.Error()))
		}
	}
}

func (s *Service) recordOutcome(ctx context.Context, session *model.PokerSession, result *model.ShowdownResult) {
	res := model.ResultLoss
	if result.Winner == session.SelfID {
		res = model.ResultWin
	}
	entry := model.MatchEntry{
		Result:     res,
		WinnerName: result.WinnerName,
		Pot:        result.Pot,
	}
	if err := s.stats.Record(ctx, model.GamePoker, entry); err != nil {
		s.logger.Error("failed to record hand outcome",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()))
	}
}

func (s *Service) removeSeat(session *model.PokerSession, peer model.PeerID) {
	players := session.Public.Players[:0]
	for _, p := range session.Public.Players {
		if p.PeerID != peer {
			players = append(players, p)
		}
	}
	session.Public.Players = players
	delete(session.PendingInvites, peer)
}

func (s *Service) peerInfo(id model.PeerID) model.PeerInfo {
	for _, p := range s.messenger.Peers() {
		if p.PeerID == id {
			return p
		}
	}
	return model.PeerInfo{PeerID: id, DisplayName: string(id)}
}
