package model

// SessionID uniquely identifies a match for its whole lifetime.
// A rematch always allocates a fresh SessionID.
type SessionID string

// PeerID is the stable peer identity assigned by the sphere platform
type PeerID string

// GameKind identifies which state machine a session runs
type GameKind string

const (
	GameTicTacToe GameKind = "tictactoe"
	GamePoker     GameKind = "poker"
)

// Phase is the coarse lifecycle state of a session.
// Progression is monotonic; only a rematch returns to the lobby.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePreflop Phase = "preflop"
	PhaseFlop    Phase = "flop"
	PhaseTurn    Phase = "turn"
	PhaseRiver   Phase = "river"
	PhasePlaying Phase = "playing" // tictactoe's single in-progress phase
	PhaseEnded   Phase = "ended"
)

// InProgress reports whether the phase is past the lobby but not yet terminal
func (p Phase) InProgress() bool {
	return p != PhaseLobby && p != PhaseEnded
}

// Session is the registry view of an active match, independent of game kind
type Session interface {
	SessionID() SessionID
	Game() GameKind
	Authority() PeerID
	IsAuthority() bool
	CurrentPhase() Phase
}

// PeerInfo is the presentation identity the platform exposes for a peer
type PeerInfo struct {
	PeerID      PeerID `json:"peer_id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
}
