package response

import (
	"time"

	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/services/poker"
	"github.com/frodon-community/peergames/internal/services/presence"
)

// SessionSummary is one row of the session list
type SessionSummary struct {
	ID          string `json:"id"`
	Game        string `json:"game"`
	Phase       string `json:"phase"`
	Authority   string `json:"authority"`
	IsAuthority bool   `json:"is_authority"`
}

// SessionSummaryFromModel converts a registry session
func SessionSummaryFromModel(s model.Session) SessionSummary {
	return SessionSummary{
		ID:          string(s.SessionID()),
		Game:        string(s.Game()),
		Phase:       string(s.CurrentPhase()),
		Authority:   string(s.Authority()),
		IsAuthority: s.IsAuthority(),
	}
}

// cardStrings renders cards in display form ("A♣")
func cardStrings(cards []model.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// TicTacToeSession is the two-party board view
type TicTacToeSession struct {
	ID       string    `json:"id"`
	Opponent string    `json:"opponent"`
	MySymbol string    `json:"my_symbol"`
	Board    [9]string `json:"board"`
	MyTurn   bool      `json:"my_turn"`
	Phase    string    `json:"phase"`
	Winner   string    `json:"winner,omitempty"`
}

// TicTacToeFromModel converts model.TicTacToeSession
func TicTacToeFromModel(s *model.TicTacToeSession) TicTacToeSession {
	var board [9]string
	for i, m := range s.Board {
		board[i] = string(m)
	}
	return TicTacToeSession{
		ID:       string(s.ID),
		Opponent: string(s.OpponentID),
		MySymbol: string(s.MySymbol),
		Board:    board,
		MyTurn:   s.MyTurn,
		Phase:    string(s.Phase),
		Winner:   string(s.Winner),
	}
}

// Seat is one table position
type Seat struct {
	PeerID      string `json:"id"`
	DisplayName string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	Status      string `json:"status"`
	Chips       int64  `json:"chips"`
	Bet         int64  `json:"bet"`
	HasActed    bool   `json:"has_acted"`
}

// SeatFromModel converts model.Participant
func SeatFromModel(p *model.Participant) Seat {
	return Seat{
		PeerID:      string(p.PeerID),
		DisplayName: p.DisplayName,
		Avatar:      p.Avatar,
		Status:      string(p.Status),
		Chips:       p.Chips,
		Bet:         p.Bet,
		HasActed:    p.HasActed,
	}
}

// ShowdownEval is one contester's revealed hand
type ShowdownEval struct {
	PeerID   string   `json:"id"`
	Name     string   `json:"name"`
	Hand     []string `json:"hand"`
	HandName string   `json:"hand_name"`
}

// Showdown is a completed hand's outcome
type Showdown struct {
	Pot        int64          `json:"pot"`
	Winner     string         `json:"winner"`
	WinnerName string         `json:"winner_name"`
	Results    []ShowdownEval `json:"results"`
	Community  []string       `json:"community,omitempty"`
}

// ShowdownFromModel converts model.ShowdownResult
func ShowdownFromModel(r *model.ShowdownResult) *Showdown {
	if r == nil {
		return nil
	}
	results := make([]ShowdownEval, len(r.Results))
	for i, e := range r.Results {
		results[i] = ShowdownEval{
			PeerID:   string(e.PeerID),
			Name:     e.Name,
			Hand:     cardStrings(e.Hand),
			HandName: e.HandName,
		}
	}
	return &Showdown{
		Pot:        r.Pot,
		Winner:     string(r.Winner),
		WinnerName: r.WinnerName,
		Results:    results,
		Community:  cardStrings(r.Community),
	}
}

// PokerSession is the table view: the predicted overlay when the local
// player has an action in flight, otherwise the confirmed state. Private
// authority state (deck, other hands) never appears here.
type PokerSession struct {
	ID         string    `json:"id"`
	Host       string    `json:"host"`
	IsHost     bool      `json:"is_host"`
	Phase      string    `json:"phase"`
	Players    []Seat    `json:"players"`
	Community  []string  `json:"community"`
	Pot        int64     `json:"pot"`
	RoundBet   int64     `json:"round_bet"`
	CurrentIdx int       `json:"current_idx"`
	DealerIdx  int       `json:"dealer_idx"`
	MyHand     []string  `json:"my_hand,omitempty"`
	Predicted  bool      `json:"predicted"`
	Result     *Showdown `json:"result,omitempty"`
	InvitedBy  string    `json:"invited_by,omitempty"`
}

// PokerFromModel converts model.PokerSession via its view projection
func PokerFromModel(s *model.PokerSession) PokerSession {
	view := s.View()
	players := make([]Seat, len(view.Players))
	for i, p := range view.Players {
		players[i] = SeatFromModel(p)
	}
	return PokerSession{
		ID:         string(s.ID),
		Host:       string(s.HostID),
		IsHost:     s.IsHost,
		Phase:      string(view.Phase),
		Players:    players,
		Community:  cardStrings(view.Community),
		Pot:        view.Pot,
		RoundBet:   view.RoundBet,
		CurrentIdx: view.CurrentIdx,
		DealerIdx:  view.DealerIdx,
		MyHand:     cardStrings(s.MyHand),
		Predicted:  s.Predicted != nil,
		Result:     ShowdownFromModel(s.Result),
		InvitedBy:  s.InvitedBy,
	}
}

// HandStrength scores the local player's current hole cards plus the
// visible community
type HandStrength struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// HandStrengthFromEval converts a poker.HandEval
func HandStrengthFromEval(e poker.HandEval) HandStrength {
	return HandStrength{Name: e.Name, Score: e.Score}
}

// Record is a win/loss/draw counter
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
	Total  int `json:"total"`
}

// RecordFromModel converts model.Record
func RecordFromModel(r model.Record) Record {
	return Record{
		Wins:   r.Wins,
		Losses: r.Losses,
		Draws:  r.Draws,
		Total:  r.Total(),
	}
}

// MatchEntry is one line of match history
type MatchEntry struct {
	OpponentID   string    `json:"opponent_id,omitempty"`
	OpponentName string    `json:"opponent_name,omitempty"`
	Result       string    `json:"result"`
	WinnerName   string    `json:"winner_name,omitempty"`
	Pot          int64     `json:"pot,omitempty"`
	PlayedAt     time.Time `json:"played_at"`
}

// GameStats is the accumulated record for one game kind
type GameStats struct {
	Overall     Record            `json:"overall"`
	PerOpponent map[string]Record `json:"per_opponent,omitempty"`
	History     []MatchEntry      `json:"history,omitempty"`
}

// GameStatsFromModel converts model.GameStats
func GameStatsFromModel(s *model.GameStats) GameStats {
	var perOpponent map[string]Record
	if len(s.PerOpponent) > 0 {
		perOpponent = make(map[string]Record, len(s.PerOpponent))
		for id, rec := range s.PerOpponent {
			perOpponent[string(id)] = RecordFromModel(rec)
		}
	}
	history := make([]MatchEntry, len(s.History))
	for i, e := range s.History {
		history[i] = MatchEntry{
			OpponentID:   string(e.OpponentID),
			OpponentName: e.OpponentName,
			Result:       string(e.Result),
			WinnerName:   e.WinnerName,
			Pot:          e.Pot,
			PlayedAt:     e.PlayedAt,
		}
	}
	return GameStats{
		Overall:     RecordFromModel(s.Overall),
		PerOpponent: perOpponent,
		History:     history,
	}
}

// PresenceEntry is one peer's roster line
type PresenceEntry struct {
	PeerID      string    `json:"peer_id"`
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar,omitempty"`
	Online      bool      `json:"online"`
	LastSeen    time.Time `json:"last_seen"`
}

// PresenceEntryFromModel converts a presence.Entry
func PresenceEntryFromModel(e presence.Entry) PresenceEntry {
	return PresenceEntry{
		PeerID:      string(e.Peer.PeerID),
		DisplayName: e.Peer.DisplayName,
		Avatar:      e.Peer.Avatar,
		Online:      e.Online,
		LastSeen:    e.LastSeen,
	}
}
