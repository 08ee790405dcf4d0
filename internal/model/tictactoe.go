package model

// Mark is a tictactoe cell owner
type Mark string

const (
	MarkNone Mark = ""
	MarkX    Mark = "X"
	MarkO    Mark = "O"
	// MarkDraw is only ever used as a winner value, never on the board
	MarkDraw Mark = "draw"
)

// Opponent returns the other playing mark
func (m Mark) Opponent() Mark {
	if m == MarkX {
		return MarkO
	}
	return MarkX
}

// Board is the 3x3 grid in row-major order
type Board [9]Mark

// Full reports whether every cell is occupied
func (b Board) Full() bool {
	for _, c := range b {
		if c == MarkNone {
			return false
		}
	}
	return true
}

// TicTacToeSession is one side's view of a two-party match. Each side
// holds a mirrored copy and applies both players' moves locally; the
// winner is re-derived from board contents on both sides, never sent
// on the wire. The challenger always plays X and moves first.
type TicTacToeSession struct {
	ID         SessionID `json:"id"`
	SelfID     PeerID    `json:"self_id"`
	OpponentID PeerID    `json:"opponent_id"`
	MySymbol   Mark      `json:"my_symbol"`
	Board      Board     `json:"board"`
	MyTurn     bool      `json:"my_turn"`
	Phase      Phase     `json:"phase"`
	Winner     Mark      `json:"winner,omitempty"`
}

// NewTicTacToeSession creates the local view of a match against opponent,
// playing the given symbol. X starts.
func NewTicTacToeSession(id SessionID, self, opponent PeerID, symbol Mark) *TicTacToeSession {
	return &TicTacToeSession{
		ID:         id,
		SelfID:     self,
		OpponentID: opponent,
		MySymbol:   symbol,
		MyTurn:     symbol == MarkX,
		Phase:      PhasePlaying,
	}
}

func (s *TicTacToeSession) SessionID() SessionID { return s.ID }
func (s *TicTacToeSession) Game() GameKind       { return GameTicTacToe }
func (s *TicTacToeSession) CurrentPhase() Phase  { return s.Phase }

// Authority returns the challenger's peer. Both sides run the same pure
// transition functions; the challenger (X) is the nominal authority for
// registry bookkeeping.
func (s *TicTacToeSession) Authority() PeerID {
	if s.MySymbol == MarkX {
		return s.SelfID
	}
	return s.OpponentID
}

func (s *TicTacToeSession) IsAuthority() bool { return s.MySymbol == MarkX }

var _ Session = (*TicTacToeSession)(nil)
