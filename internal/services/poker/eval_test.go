package poker

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/frodon-community/peergames/internal/model"
)

type EvalSuite struct {
	suite.Suite
}

func TestEvalSuite(t *testing.T) {
	suite.Run(t, new(EvalSuite))
}

func cards(notations ...string) []model.Card {
	out := make([]model.Card, 0, len(notations))
	for _, n := range notations {
		// Value then suit glyph, e.g. "A♠" or "T♥"
		runes := []rune(n)
		out = append(out, model.Card{
			Value: string(runes[0]),
			Suit:  model.Suit(string(runes[1])),
		})
	}
	return out
}

func (s *EvalSuite) TestHandCategories() {
	tests := []struct {
		name string
		hand []model.Card
		want string
	}{
		{"royal flush", cards("A♠", "K♠", "Q♠", "J♠", "T♠"), "Royal Flush"},
		{"straight flush", cards("9♥", "8♥", "7♥", "6♥", "5♥"), "Straight Flush"},
		{"four of a kind", cards("7♠", "7♥", "7♦", "7♣", "2♠"), "Four of a Kind"},
		{"full house", cards("K♠", "K♥", "K♦", "4♣", "4♠"), "Full House"},
		{"flush", cards("A♦", "J♦", "8♦", "6♦", "2♦"), "Flush"},
		{"straight", cards("9♠", "8♥", "7♦", "6♣", "5♠"), "Straight"},
		{"wheel straight", cards("A♠", "5♥", "4♦", "3♣", "2♠"), "Straight"},
		{"three of a kind", cards("Q♠", "Q♥", "Q♦", "7♣", "2♠"), "Three of a Kind"},
		{"two pair", cards("J♠", "J♥", "8♦", "8♣", "3♠"), "Two Pair"},
		{"pair", cards("T♠", "T♥", "9♦", "5♣", "2♠"), "Pair"},
		{"high card", cards("A♠", "J♥", "9♦", "5♣", "2♠"), "High Card"},
	}
	for _, tc := range tests {
		got := EvalBest(tc.hand)
		s.Equal(tc.want, got.Name, tc.name)
	}
}

func (s *EvalSuite) TestCategoryOrdering() {
	ordered := [][]model.Card{
		cards("A♠", "K♠", "Q♠", "J♠", "T♠"), // royal flush
		cards("9♥", "8♥", "7♥", "6♥", "5♥"), // straight flush
		cards("7♠", "7♥", "7♦", "7♣", "2♠"), // quads
		cards("K♠", "K♥", "K♦", "4♣", "4♠"), // full house
		cards("A♦", "J♦", "8♦", "6♦", "2♦"), // flush
		cards("9♠", "8♥", "7♦", "6♣", "5♠"), // straight
		cards("Q♠", "Q♥", "Q♦", "7♣", "2♠"), // trips
		cards("J♠", "J♥", "8♦", "8♣", "3♠"), // two pair
		cards("T♠", "T♥", "9♦", "5♣", "2♠"), // pair
		cards("A♠", "J♥", "9♦", "5♣", "2♠"), // high card
	}
	for i := 1; i < len(ordered); i++ {
		s.Greater(EvalBest(ordered[i-1]).Score, EvalBest(ordered[i]).Score)
	}
}

func (s *EvalSuite) TestCategoryDominatesKickers() {
	// The weakest hand of a category still beats the strongest hand of
	// the category below it
	lowPair := EvalBest(cards("2♠", "2♥", "7♦", "5♣", "3♠"))
	aceHigh := EvalBest(cards("A♦", "K♣", "9♠", "5♥", "3♦"))
	s.Greater(lowPair.Score, aceHigh.Score)

	lowBoat := EvalBest(cards("2♠", "2♥", "2♦", "3♣", "3♠"))
	aceFlush := EvalBest(cards("A♦", "K♦", "Q♦", "J♦", "9♦"))
	s.Greater(lowBoat.Score, aceFlush.Score)
}

func (s *EvalSuite) TestKickersBreakTies() {
	// Same pair, higher kicker wins
	high := EvalBest(cards("T♠", "T♥", "A♦", "5♣", "2♠"))
	low := EvalBest(cards("T♦", "T♣", "K♦", "5♥", "2♥"))
	s.Greater(high.Score, low.Score)

	// Higher pair beats higher kickers
	pairJ := EvalBest(cards("J♠", "J♥", "3♦", "4♣", "2♠"))
	pairT := EvalBest(cards("T♠", "T♥", "A♦", "K♣", "Q♠"))
	s.Greater(pairJ.Score, pairT.Score)
}

func (s *EvalSuite) TestWheelIsLowestStraight() {
	wheel := EvalBest(cards("A♠", "5♥", "4♦", "3♣", "2♠"))
	sixHigh := EvalBest(cards("6♠", "5♥", "4♦", "3♣", "2♠"))
	s.Greater(sixHigh.Score, wheel.Score)
}

func (s *EvalSuite) TestSevenCardsPicksBestFive() {
	// Hole cards complete a flush hidden in seven cards
	seven := cards("A♥", "2♥", "K♠", "9♥", "6♥", "3♦", "J♥")
	got := EvalBest(seven)
	s.Equal("Flush", got.Name)
}

func (s *EvalSuite) TestSevenCardBoardStraightFlushBeatsLower() {
	board := cards("T♣", "9♣", "8♣", "7♣", "6♣")
	alice := EvalBest(append(cards("A♣", "K♣"), board...))
	bob := EvalBest(append(cards("Q♣", "J♣"), board...))
	s.Equal("Straight Flush", alice.Name)
	s.Equal("Straight Flush", bob.Name)
	s.Greater(bob.Score, alice.Score)
}

func (s *EvalSuite) TestHoleCardPreview() {
	// Two cards alone still name a category for the pre-flop preview
	s.Equal("Pair", EvalBest(cards("A♠", "A♥")).Name)
	s.Equal("High Card", EvalBest(cards("A♠", "K♥")).Name)
}

func (s *EvalSuite) TestTooFewCards() {
	got := EvalBest(cards("A♠"))
	s.Equal("—", got.Name)
	s.Zero(got.Score)
}
