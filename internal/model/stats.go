package model

import "time"

// HistoryCap bounds the recent-match history; oldest entries are evicted
const HistoryCap = 30

// MatchResult is the local outcome of a completed match
type MatchResult string

const (
	ResultWin  MatchResult = "win"
	ResultLoss MatchResult = "loss"
	ResultDraw MatchResult = "draw"
)

// Record is a running win/loss/draw counter
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

// Total returns the number of matches counted
func (r Record) Total() int {
	return r.Wins + r.Losses + r.Draws
}

// Add increments the counter matching the result
func (r *Record) Add(res MatchResult) {
	switch res {
	case ResultWin:
		r.Wins++
	case ResultLoss:
		r.Losses++
	case ResultDraw:
		r.Draws++
	}
}

// GameStats is everything persisted for one game kind: overall record,
// per-opponent records, and a bounded recent-match list (newest first).
type GameStats struct {
	Overall     Record            `json:"overall"`
	PerOpponent map[PeerID]Record `json:"per_opponent,omitempty"`
	History     []MatchEntry      `json:"history,omitempty"`
}

// MatchEntry is one line of match history
type MatchEntry struct {
	OpponentID   PeerID      `json:"opponent_id,omitempty"`
	OpponentName string      `json:"opponent_name,omitempty"`
	Result       MatchResult `json:"result"`
	WinnerName   string      `json:"winner_name,omitempty"`
	Pot          int64       `json:"pot,omitempty"`
	PlayedAt     time.Time   `json:"played_at"`
}
