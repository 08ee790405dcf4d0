package tictactoe

import (
	"github.com/frodon-community/peergames/internal/model"
)

// winLines are the eight three-in-a-row index triples on a 3x3 board
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Winner derives the outcome from board contents alone. It returns the
// winning mark and its line, MarkDraw on a full board with no line, or
// done=false while the game is still open. Both sides of a match run this
// over their mirrored boards, so the result never travels on the wire.
func Winner(b model.Board) (winner model.Mark, line [3]int, done bool) {
	for _, l := range winLines {
		if b[l[0]] != model.MarkNone && b[l[0]] == b[l[1]] && b[l[1]] == b[l[2]] {
			return b[l[0]], l, true
		}
	}
	if b.Full() {
		return model.MarkDraw, [3]int{}, true
	}
	return model.MarkNone, [3]int{}, false
}

// ApplyMove places mover's mark and advances the session. It is the single
// transition function for both the local player's moves and the opponent's,
// which keeps the two mirrored copies in lockstep.
func ApplyMove(s *model.TicTacToeSession, mover model.Mark, cell int) error {
	if s.Phase == model.PhaseEnded {
		return model.ErrSessionEnded
	}
	if cell < 0 || cell >= len(s.Board) {
		return model.ErrCellOutOfRange
	}
	if s.Board[cell] != model.MarkNone {
		return model.ErrCellOccupied
	}
	moverTurn := (mover == s.MySymbol) == s.MyTurn
	if !moverTurn {
		return model.ErrNotParticipantTurn
	}

	s.Board[cell] = mover

	if winner, _, done := Winner(s.Board); done {
		s.Winner = winner
		s.Phase = model.PhaseEnded
		s.MyTurn = false
		return nil
	}

	s.MyTurn = !s.MyTurn
	return nil
}

// Forfeit ends the session with the given mark conceding
func Forfeit(s *model.TicTacToeSession, conceding model.Mark) error {
	if s.Phase == model.PhaseEnded {
		return model.ErrSessionEnded
	}
	s.Winner = conceding.Opponent()
	s.Phase = model.PhaseEnded
	s.MyTurn = false
	return nil
}
