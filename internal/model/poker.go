package model

// PokerAction is a betting action submitted by a participant
type PokerAction string

const (
	ActionFold  PokerAction = "fold"
	ActionCheck PokerAction = "check"
	ActionCall  PokerAction = "call"
	ActionRaise PokerAction = "raise"
	ActionAllIn PokerAction = "allin"
)

// TableConfig holds the blind structure and starting stack for a table
type TableConfig struct {
	SmallBlind    int64 `json:"sb"`
	BigBlind      int64 `json:"bb"`
	StartingChips int64 `json:"starting_chips"`
	MaxPlayers    int   `json:"max_players"`
}

// DefaultTableConfig returns the standard table settings
func DefaultTableConfig() TableConfig {
	return TableConfig{
		SmallBlind:    10,
		BigBlind:      20,
		StartingChips: 1000,
		MaxPlayers:    8,
	}
}

// PokerPublic is the shared table state every participant sees. It is
// the state_sync payload: non-authority copies are overwritten wholesale
// with it, never merged field by field.
type PokerPublic struct {
	Phase      Phase          `json:"phase"`
	Players    []*Participant `json:"players"`
	Community  []Card         `json:"community"`
	Pot        int64          `json:"pot"`
	RoundBet   int64          `json:"round_bet"`
	CurrentIdx int            `json:"current_idx"`
	DealerIdx  int            `json:"dealer_idx"`
	Config     TableConfig    `json:"config"`
}

// ShowdownEval is one contester's scored hand at showdown
type ShowdownEval struct {
	PeerID   PeerID `json:"id"`
	Name     string `json:"name"`
	Hand     []Card `json:"hand"`
	HandName string `json:"hand_name"`
	Score    int64  `json:"score"`
}

// ShowdownResult records the outcome of a hand. The single highest score
// takes the entire pot; side pots are deliberately not computed.
type ShowdownResult struct {
	Pot        int64          `json:"pot"`
	Winner     PeerID         `json:"winner"`
	WinnerName string         `json:"winner_name"`
	Results    []ShowdownEval `json:"results"`
	Stacks     []SeatStack    `json:"stacks"`
	Community  []Card         `json:"community,omitempty"`
}

// SeatStack is the post-hand chip count for one seat
type SeatStack struct {
	PeerID PeerID `json:"id"`
	Chips  int64  `json:"chips"`
}

// PokerSession is one process's copy of a table. The authority's copy is
// ground truth and additionally holds the deck and every hand; a
// participant's copy holds only its own hand and is replaced by each
// state_sync from the authority.
type PokerSession struct {
	ID     SessionID `json:"id"`
	SelfID PeerID    `json:"self_id"`
	HostID PeerID    `json:"host_id"`
	IsHost bool      `json:"is_host"`

	Public PokerPublic `json:"public"`

	// Predicted is the optimistic overlay a participant applies to its
	// own just-submitted action. It is discarded wholesale on the next
	// authoritative sync, never merged.
	Predicted *PokerPublic `json:"-"`

	MyHand []Card `json:"my_hand,omitempty"`

	// Authority-only private state
	Deck     []Card            `json:"-"`
	AllHands map[PeerID][]Card `json:"-"`

	PendingInvites map[PeerID]bool `json:"pending_invites,omitempty"`

	Result *ShowdownResult `json:"result,omitempty"`

	// InvitedBy is set on an invitee's copy until it accepts or declines
	InvitedBy string `json:"invited_by,omitempty"`
}

func (s *PokerSession) SessionID() SessionID { return s.ID }
func (s *PokerSession) Game() GameKind       { return GamePoker }
func (s *PokerSession) Authority() PeerID    { return s.HostID }
func (s *PokerSession) IsAuthority() bool    { return s.IsHost }
func (s *PokerSession) CurrentPhase() Phase  { return s.Public.Phase }

var _ Session = (*PokerSession)(nil)

// View returns the table state to project: the predicted overlay when one
// is pending, otherwise the confirmed public state.
func (s *PokerSession) View() *PokerPublic {
	if s.Predicted != nil {
		return s.Predicted
	}
	return &s.Public
}

// Participant returns the seat for the given peer, or nil
func (p *PokerPublic) Participant(id PeerID) *Participant {
	for _, pl := range p.Players {
		if pl.PeerID == id {
			return pl
		}
	}
	return nil
}

// ParticipantIdx returns the seat index for the given peer, or -1
func (p *PokerPublic) ParticipantIdx(id PeerID) int {
	for i, pl := range p.Players {
		if pl.PeerID == id {
			return i
		}
	}
	return -1
}

// ToAct returns the participant whose turn it is, or nil outside a hand
func (p *PokerPublic) ToAct() *Participant {
	if !p.Phase.InProgress() {
		return nil
	}
	if p.CurrentIdx < 0 || p.CurrentIdx >= len(p.Players) {
		return nil
	}
	return p.Players[p.CurrentIdx]
}

// Clone deep-copies the public state. Used for the optimistic overlay so
// the confirmed copy stays untouched until the authority replies.
func (p *PokerPublic) Clone() *PokerPublic {
	out := *p
	out.Players = make([]*Participant, len(p.Players))
	for i, pl := range p.Players {
		cp := *pl
		out.Players[i] = &cp
	}
	out.Community = append([]Card(nil), p.Community...)
	return &out
}
