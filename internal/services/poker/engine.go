package poker

import (
	"sort"

	"github.com/frodon-community/peergames/internal/dependencies/random"
	"github.com/frodon-community/peergames/internal/model"
)

// The transition functions in this file run only on the authority's copy.
// Participants never mutate table state directly; they receive the result
// through state_sync and showdown messages.

const uncontestedHandName = "All others folded"

// Deal starts a new hand: fresh shuffled deck, dealer button advanced,
// blinds posted, two cards to every live seat.
func Deal(s *model.PokerSession, rnd random.Random) error {
	if !s.IsHost {
		return model.ErrNotAuthority
	}

	pub := &s.Public
	live := 0
	for _, p := range pub.Players {
		if p.Chips > 0 {
			live++
		}
	}
	if live < 2 {
		return model.ErrInsufficientPlayers
	}

	deck := model.NewDeck()
	rnd.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	s.Deck = deck
	s.AllHands = make(map[model.PeerID][]model.Card)
	s.Result = nil
	pub.Community = nil
	pub.Pot = 0
	pub.Phase = model.PhasePreflop

	// Advance the button to the next seat with chips
	pub.DealerIdx = (pub.DealerIdx + 1) % len(pub.Players)
	for pub.Players[pub.DealerIdx].Chips <= 0 {
		pub.DealerIdx = (pub.DealerIdx + 1) % len(pub.Players)
	}

	nextFunded := func(idx int) int {
		i := (idx + 1) % len(pub.Players)
		for pub.Players[i].Chips <= 0 {
			i = (i + 1) % len(pub.Players)
		}
		return i
	}
	sbIdx := nextFunded(pub.DealerIdx)
	bbIdx := nextFunded(sbIdx)

	for _, p := range pub.Players {
		p.Bet = 0
		p.HasActed = false
		if p.Chips > 0 {
			p.Status = model.StatusActive
		} else {
			p.Status = model.StatusEliminated
		}
	}

	// Short stacks post what they have and go all-in
	sb, bb := pub.Players[sbIdx], pub.Players[bbIdx]
	sbAmt := min64(pub.Config.SmallBlind, sb.Chips)
	bbAmt := min64(pub.Config.BigBlind, bb.Chips)
	sb.Chips -= sbAmt
	sb.Bet = sbAmt
	bb.Chips -= bbAmt
	bb.Bet = bbAmt
	if sb.Chips == 0 {
		sb.Status = model.StatusAllIn
	}
	if bb.Chips == 0 {
		bb.Status = model.StatusAllIn
	}
	pub.RoundBet = bbAmt

	for _, p := range pub.Players {
		if p.InHand() {
			s.AllHands[p.PeerID] = []model.Card{drawCard(s), drawCard(s)}
		}
	}
	s.MyHand = s.AllHands[s.SelfID]

	// First to act sits left of the big blind
	first := nextFunded(bbIdx)
	for pub.Players[first].Status != model.StatusActive {
		first = nextFunded(first)
		if first == bbIdx {
			break
		}
	}
	pub.CurrentIdx = first
	return nil
}

// Step reports what a betting action caused, so the caller knows which
// messages to broadcast
type Step struct {
	// Ended is set when the hand finished, with Result carrying the
	// outcome to push to every participant
	Ended  bool
	Result *model.ShowdownResult
}

// Apply validates and applies one betting action on the authority's copy.
// Violations return an error and leave the table untouched.
func Apply(s *model.PokerSession, from model.PeerID, action model.PokerAction, amount int64) (Step, error) {
	if !s.IsHost {
		return Step{}, model.ErrNotAuthority
	}
	pub := &s.Public
	if pub.Phase == model.PhaseLobby {
		return Step{}, model.ErrSessionNotStarted
	}
	if pub.Phase == model.PhaseEnded {
		return Step{}, model.ErrSessionEnded
	}
	idx := pub.ParticipantIdx(from)
	if idx < 0 {
		return Step{}, model.ErrParticipantNotFound
	}
	if pub.CurrentIdx != idx {
		return Step{}, model.ErrNotParticipantTurn
	}
	p := pub.Players[idx]
	if !p.CanAct() {
		return Step{}, model.ErrParticipantNotActive
	}

	switch action {
	case model.ActionFold:
		p.Status = model.StatusFolded
		p.HasActed = true
	case model.ActionCheck:
		if p.Bet < pub.RoundBet {
			return Step{}, model.ErrCheckNotAllowed
		}
		p.HasActed = true
	case model.ActionCall:
		toCall := min64(pub.RoundBet-p.Bet, p.Chips)
		p.Chips -= toCall
		p.Bet += toCall
		if p.Chips == 0 {
			p.Status = model.StatusAllIn
		}
		p.HasActed = true
	case model.ActionRaise:
		// Undersized raises are bumped to the minimum, not refused
		minRaise := pub.RoundBet + pub.Config.BigBlind
		target := amount
		if target < minRaise {
			target = minRaise
		}
		actual := min64(target-p.Bet, p.Chips)
		p.Chips -= actual
		p.Bet += actual
		pub.RoundBet = p.Bet
		if p.Chips == 0 {
			p.Status = model.StatusAllIn
		}
		resetActed(pub, from)
		p.HasActed = true
	case model.ActionAllIn:
		all := p.Chips
		p.Chips = 0
		p.Bet += all
		if p.Bet > pub.RoundBet {
			pub.RoundBet = p.Bet
			resetActed(pub, from)
		}
		p.Status = model.StatusAllIn
		p.HasActed = true
	default:
		return Step{}, model.ErrUnknownAction
	}

	if step, done := checkRoundEnd(s); done {
		return step, nil
	}

	// Advance to the next seat that can act
	next := (idx + 1) % len(pub.Players)
	for guard := 0; pub.Players[next].Status != model.StatusActive && guard < len(pub.Players); guard++ {
		next = (next + 1) % len(pub.Players)
	}
	pub.CurrentIdx = next
	return Step{}, nil
}

// resetActed reopens the betting round for everyone behind a raise
func resetActed(pub *model.PokerPublic, raiser model.PeerID) {
	for _, op := range pub.Players {
		if op.PeerID != raiser && op.Status == model.StatusActive {
			op.HasActed = false
		}
	}
}

// checkRoundEnd settles an uncontested pot, advances the street when the
// betting round closed, or leaves the table mid-round
func checkRoundEnd(s *model.PokerSession) (Step, bool) {
	pub := &s.Public

	var inHand []*model.Participant
	var active []*model.Participant
	for _, p := range pub.Players {
		if p.InHand() {
			inHand = append(inHand, p)
		}
		if p.Status == model.StatusActive {
			active = append(active, p)
		}
	}

	// Everyone else folded: the last contester takes the pot without a
	// reveal; hole cards stay private
	if len(inHand) <= 1 {
		var winner *model.Participant
		if len(inHand) == 1 {
			winner = inHand[0]
		}
		if winner != nil {
			collectBets(pub)
			winner.Chips += pub.Pot
			result := &model.ShowdownResult{
				Pot:        pub.Pot,
				Winner:     winner.PeerID,
				WinnerName: winner.DisplayName,
				Results: []model.ShowdownEval{{
					PeerID:   winner.PeerID,
					Name:     winner.DisplayName,
					Hand:     []model.Card{},
					HandName: uncontestedHandName,
				}},
				Stacks: stacks(pub),
			}
			pub.Pot = 0
			pub.Phase = model.PhaseEnded
			s.Result = result
			return Step{Ended: true, Result: result}, true
		}
	}

	roundOver := true
	for _, p := range active {
		if !p.HasActed || p.Bet != pub.RoundBet {
			roundOver = false
			break
		}
	}
	if roundOver {
		return nextStreet(s), true
	}
	return Step{}, false
}

// nextStreet collects the round's bets and reveals the next community
// cards, or runs the showdown after the river. With fewer than two seats
// still able to bet there is no further action, so the remaining streets
// run out back to back until the showdown.
func nextStreet(s *model.PokerSession) Step {
	pub := &s.Public
	for {
		collectBets(pub)
		for _, p := range pub.Players {
			p.HasActed = false
		}
		pub.RoundBet = 0

		inHand, active := 0, 0
		for _, p := range pub.Players {
			if p.InHand() {
				inHand++
			}
			if p.Status == model.StatusActive {
				active++
			}
		}
		if inHand <= 1 {
			return showdown(s)
		}

		switch pub.Phase {
		case model.PhasePreflop:
			pub.Phase = model.PhaseFlop
			pub.Community = append(pub.Community, drawCard(s), drawCard(s), drawCard(s))
		case model.PhaseFlop:
			pub.Phase = model.PhaseTurn
			pub.Community = append(pub.Community, drawCard(s))
		case model.PhaseTurn:
			pub.Phase = model.PhaseRiver
			pub.Community = append(pub.Community, drawCard(s))
		case model.PhaseRiver:
			return showdown(s)
		}

		if active >= 2 {
			break
		}
	}

	// First active seat left of the button opens the street
	idx := (pub.DealerIdx + 1) % len(pub.Players)
	for pub.Players[idx].Status != model.StatusActive {
		idx = (idx + 1) % len(pub.Players)
		if idx == pub.DealerIdx {
			break
		}
	}
	pub.CurrentIdx = idx
	return Step{}
}

// showdown reveals every contester's hand and awards the whole pot to the
// single best score. Side pots are deliberately not computed; an all-in
// short stack can win chips it did not cover.
func showdown(s *model.PokerSession) Step {
	pub := &s.Public
	collectBets(pub)

	var evals []model.ShowdownEval
	for _, p := range pub.Players {
		if !p.InHand() {
			continue
		}
		hand := s.AllHands[p.PeerID]
		best := EvalBest(append(append([]model.Card{}, hand...), pub.Community...))
		evals = append(evals, model.ShowdownEval{
			PeerID:   p.PeerID,
			Name:     p.DisplayName,
			Hand:     hand,
			HandName: best.Name,
			Score:    best.Score,
		})
	}
	sort.SliceStable(evals, func(i, j int) bool { return evals[i].Score > evals[j].Score })
	winner := evals[0]

	if wp := pub.Participant(winner.PeerID); wp != nil {
		wp.Chips += pub.Pot
	}

	result := &model.ShowdownResult{
		Pot:        pub.Pot,
		Winner:     winner.PeerID,
		WinnerName: winner.Name,
		Results:    evals,
		Stacks:     stacks(pub),
		Community:  pub.Community,
	}
	pub.Pot = 0
	pub.Phase = model.PhaseEnded
	s.Result = result
	return Step{Ended: true, Result: result}
}

// ApplyShowdown installs an authoritative hand result on a participant's
// copy: terminal phase, stacks overwritten from the result, never merged
func ApplyShowdown(s *model.PokerSession, result *model.ShowdownResult) {
	s.Public.Phase = model.PhaseEnded
	s.Result = result
	s.Predicted = nil
	for _, st := range result.Stacks {
		if p := s.Public.Participant(st.PeerID); p != nil {
			p.Chips = st.Chips
			p.Bet = 0
		}
	}
	if result.Community != nil {
		s.Public.Community = result.Community
	}
}

// Predict applies the optimistic local echo of an action the participant
// just submitted. It works on a clone; the confirmed copy stays intact
// until the authority's sync replaces everything.
func Predict(s *model.PokerSession, action model.PokerAction, amount int64) {
	pub := s.Public.Clone()
	me := pub.Participant(s.SelfID)
	if me == nil {
		return
	}
	switch action {
	case model.ActionFold:
		me.Status = model.StatusFolded
	case model.ActionCall:
		toCall := min64(pub.RoundBet-me.Bet, me.Chips)
		me.Chips -= toCall
		me.Bet += toCall
	case model.ActionRaise:
		target := amount
		if minRaise := pub.RoundBet + pub.Config.BigBlind; target < minRaise {
			target = minRaise
		}
		actual := min64(target-me.Bet, me.Chips)
		me.Chips -= actual
		me.Bet += actual
		pub.RoundBet = me.Bet
	case model.ActionAllIn:
		me.Bet += me.Chips
		me.Chips = 0
		me.Status = model.StatusAllIn
	}
	me.HasActed = true
	s.Predicted = pub
}

func collectBets(pub *model.PokerPublic) {
	for _, p := range pub.Players {
		pub.Pot += p.Bet
		p.Bet = 0
	}
}

func stacks(pub *model.PokerPublic) []model.SeatStack {
	out := make([]model.SeatStack, 0, len(pub.Players))
	for _, p := range pub.Players {
		out = append(out, model.SeatStack{PeerID: p.PeerID, Chips: p.Chips})
	}
	return out
}

// drawCard pops from the top of the deck
func drawCard(s *model.PokerSession) model.Card {
	c := s.Deck[len(s.Deck)-1]
	s.Deck = s.Deck[:len(s.Deck)-1]
	return c
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
