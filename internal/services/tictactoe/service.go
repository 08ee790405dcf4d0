// Package tictactoe runs the two-party mirrored-state game. There is no
// runtime authority: both sides apply every move through the same
// transition function and re-derive the winner locally, so the copies
// cannot disagree without a dropped message, and a dropped message simply
// stalls the match.
package tictactoe

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

// Service owns the local side of every tictactoe match
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
	return model.SessionID(fmt.Sprintf("ttc_%d_%s",
		s.clock.Now().UnixMilli(), s.random.String(6, idAlphabet)))
}

// Challenge starts a match against opponent. The challenger plays X and
// moves first; the challenged side auto-accepts on receipt.
func (s *Service) Challenge(ctx context.Context, opponent model.PeerID) (*model.TicTacToeSession, error) {
	session := model.NewTicTacToeSession(s.newSessionID(), s.messenger.Self().PeerID, opponent, model.MarkX)
	if err := s.registry.Put(session); err != nil {
		return nil, err
	}

	msg := protocol.New(protocol.TypeChallenge, session.ID)
	if err := s.messenger.Send(ctx, opponent, msg); err != nil {
		s.registry.Remove(session.ID)
		return nil, fmt.Errorf("sending challenge: %w", err)
	}
	s.supersede(opponent, session.ID)

	s.logger.Info("challenged peer",
		slog.String("session_id", string(session.ID)),
		slog.String("opponent", string(opponent)))
	return session, nil
}

// Play applies the local player's move and forwards it to the opponent
func (s *Service) Play(ctx context.Context, id model.SessionID, cell int) (*model.TicTacToeSession, error) {
	session, err := s.registry.TicTacToe(id)
	if err != nil {
		return nil, err
	}

	if err := ApplyMove(session, session.MySymbol, cell); err != nil {
		return nil, err
	}

	msg := protocol.New(protocol.TypeMove, id)
	msg.Move = &protocol.MovePayload{Cell: cell}
	if err := s.messenger.Send(ctx, session.OpponentID, msg); err != nil {
		return nil, fmt.Errorf("sending move: %w", err)
	}

	s.finishIfEnded(ctx, session)
	return session, nil
}

// Forfeit concedes the match
func (s *Service) Forfeit(ctx context.Context, id model.SessionID) error {
	session, err := s.registry.TicTacToe(id)
	if err != nil {
		return err
	}
	if err := Forfeit(session, session.MySymbol); err != nil {
		return err
	}

	msg := protocol.New(protocol.TypeForfeit, id)
	if err := s.messenger.Send(ctx, session.OpponentID, msg); err != nil {
		return fmt.Errorf("sending forfeit: %w", err)
	}

	s.finishIfEnded(ctx, session)
	return nil
}

// Rematch starts a fresh match against the same opponent under a new
// session id. The requester becomes the challenger and plays X.
func (s *Service) Rematch(ctx context.Context, oldID model.SessionID) (*model.TicTacToeSession, error) {
	old, err := s.registry.TicTacToe(oldID)
	if err != nil {
		return nil, err
	}
	if old.Phase != model.PhaseEnded {
		return nil, model.ErrSessionNotStarted
	}

	session := model.NewTicTacToeSession(s.newSessionID(), old.SelfID, old.OpponentID, model.MarkX)
	if err := s.registry.Put(session); err != nil {
		return nil, err
	}
	s.registry.Remove(oldID)

	msg := protocol.New(protocol.TypeRematch, session.ID)
	if err := s.messenger.Send(ctx, session.OpponentID, msg); err != nil {
		return nil, fmt.Errorf("sending rematch: %w", err)
	}

	s.logger.Info("rematch started",
		slog.String("session_id", string(session.ID)),
		slog.String("replaces", string(oldID)))
	return session, nil
}

// HandleChallenge accepts an incoming challenge, joining as O. A repeat
// challenge from the same peer replaces whatever match was on the board.
func (s *Service) HandleChallenge(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	if _, err := s.registry.TicTacToe(msg.SessionID); err == nil {
		// Redelivered challenge for a session already joined
		return nil
	}
	s.supersede(from, msg.SessionID)

	session := model.NewTicTacToeSession(msg.SessionID, s.messenger.Self().PeerID, from, model.MarkO)
	if err := s.registry.Put(session); err != nil {
		return err
	}
	s.logger.Info("accepted challenge",
		slog.String("session_id", string(msg.SessionID)),
		slog.String("challenger", string(from)))
	return nil
}

// HandleMove applies the opponent's move to the mirrored board
func (s *Service) HandleMove(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	if msg.Move == nil {
		return nil
	}
	session, err := s.registry.TicTacToe(msg.SessionID)
	if err != nil {
		return err
	}
	if from != session.OpponentID {
		return model.ErrParticipantNotFound
	}

	if err := ApplyMove(session, session.MySymbol.Opponent(), msg.Move.Cell); err != nil {
		return err
	}

	s.finishIfEnded(ctx, session)
	return nil
}

// HandleForfeit records the opponent's concession
func (s *Service) HandleForfeit(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	session, err := s.registry.TicTacToe(msg.SessionID)
	if err != nil {
		return err
	}
	if from != session.OpponentID {
		return model.ErrParticipantNotFound
	}

	if err := Forfeit(session, session.MySymbol.Opponent()); err != nil {
		return err
	}

	s.finishIfEnded(ctx, session)
	return nil
}

// HandleRematch joins a fresh match proposed by the previous opponent.
// The finished session is superseded along with any other match against
// that peer.
func (s *Service) HandleRematch(ctx context.Context, from model.PeerID, msg protocol.Message) error {
	return s.HandleChallenge(ctx, from, msg)
}

// supersede drops every other tictactoe session against opponent
func (s *Service) supersede(opponent model.PeerID, keep model.SessionID) {
	for _, existing := range s.registry.List() {
		t, ok := existing.(*model.TicTacToeSession)
		if !ok || t.ID == keep || t.OpponentID != opponent {
			continue
		}
		s.registry.Remove(t.ID)
	}
}

// finishIfEnded records the outcome once per session end
func (s *Service) finishIfEnded(ctx context.Context, session *model.TicTacToeSession) {
	if session.Phase != model.PhaseEnded {
		return
	}

	var result model.MatchResult
	switch session.Winner {
	case session.MySymbol:
		result = model.ResultWin
	case model.MarkDraw:
		result = model.ResultDraw
	default:
		result = model.ResultLoss
	}

	entry := model.MatchEntry{
		OpponentID:   session.OpponentID,
		OpponentName: s.peerName(session.OpponentID),
		Result:       result,
	}
	if err := s.stats.Record(ctx, model.GameTicTacToe, entry); err != nil {
		s.logger.Error("failed to record match",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()))
	}
}

func (s *Service) peerName(id model.PeerID) string {
	for _, p := range s.messenger.Peers() {
		if p.PeerID == id {
			return p.DisplayName
		}
	}
	return string(id)
}
