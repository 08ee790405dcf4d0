package model

// ParticipantStatus tracks a seat's availability within a session
type ParticipantStatus string

const (
	StatusActive       ParticipantStatus = "active"
	StatusFolded       ParticipantStatus = "folded"
	StatusAllIn        ParticipantStatus = "allin"
	StatusDisconnected ParticipantStatus = "disconnected"
	StatusEliminated   ParticipantStatus = "eliminated" // zero chips, terminal
)

// Participant is one seat in a session. Insertion order in the session's
// participant slice defines turn rotation. Resource fields (chips, bet)
// are mutated only by the authority's transition functions.
type Participant struct {
	PeerID      PeerID            `json:"id"`
	DisplayName string            `json:"name"`
	Avatar      string            `json:"avatar,omitempty"`
	Status      ParticipantStatus `json:"status"`

	// Betting-round resources; unused by the two-party game
	Chips    int64 `json:"chips"`
	Bet      int64 `json:"bet"`
	HasActed bool  `json:"has_acted"`
}

// InHand reports whether the participant still contests the pot
// (folded and eliminated seats are out; disconnected seats stay in
// until the authority folds them)
func (p *Participant) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// CanAct reports whether the participant may take a betting action
func (p *Participant) CanAct() bool {
	return p.Status == StatusActive
}
