package model

import "fmt"

// Suit is a card suit glyph, kept as the wire representation
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Suits in deck order
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// CardValues in ascending rank order; index+2 is the numeric rank
var CardValues = []string{"2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K", "A"}

// Card is a playing card. JSON tags match the sync payload shape.
type Card struct {
	Suit  Suit   `json:"s"`
	Value string `json:"v"`
}

// Rank returns the numeric rank of the card (2..14, ace high)
func (c Card) Rank() int {
	for i, v := range CardValues {
		if v == c.Value {
			return i + 2
		}
	}
	return 0
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Value, c.Suit)
}

// NewDeck returns the 52 cards in canonical order (unshuffled)
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range Suits {
		for _, v := range CardValues {
			deck = append(deck, Card{Suit: s, Value: v})
		}
	}
	return deck
}
