package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []SessionSummary:
		o.printSessionList(v)
	case TicTacToeState:
		o.printTicTacToe(v)
	case PokerState:
		o.printPoker(v)
	case HandStrength:
		o.printHandStrength(v)
	case GameStats:
		o.printGameStats(v)
	case []PresenceEntry:
		o.printPresence(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SessionSummary response type (matches API)
type SessionSummary struct {
	ID          string `json:"id"`
	Game        string `json:"game"`
	Phase       string `json:"phase"`
	Authority   string `json:"authority"`
	IsAuthority bool   `json:"is_authority"`
}

// TicTacToeState response type
type TicTacToeState struct {
	ID       string    `json:"id"`
	Opponent string    `json:"opponent"`
	MySymbol string    `json:"my_symbol"`
	Board    [9]string `json:"board"`
	MyTurn   bool      `json:"my_turn"`
	Phase    string    `json:"phase"`
	Winner   string    `json:"winner,omitempty"`
}

// Seat response type
type Seat struct {
	PeerID      string `json:"id"`
	DisplayName string `json:"name"`
	Status      string `json:"status"`
	Chips       int64  `json:"chips"`
	Bet         int64  `json:"bet"`
}

// Showdown response type
type Showdown struct {
	Pot        int64    `json:"pot"`
	Winner     string   `json:"winner"`
	WinnerName string   `json:"winner_name"`
	Community  []string `json:"community,omitempty"`
}

// PokerState response type
type PokerState struct {
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
}

// HandStrength response type
type HandStrength struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// Record response type
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
	Total  int `json:"total"`
}

// MatchEntry response type
type MatchEntry struct {
	OpponentName string    `json:"opponent_name,omitempty"`
	Result       string    `json:"result"`
	WinnerName   string    `json:"winner_name,omitempty"`
	Pot          int64     `json:"pot,omitempty"`
	PlayedAt     time.Time `json:"played_at"`
}

// GameStats response type
type GameStats struct {
	Overall     Record            `json:"overall"`
	PerOpponent map[string]Record `json:"per_opponent,omitempty"`
	History     []MatchEntry      `json:"history,omitempty"`
}

// PresenceEntry response type
type PresenceEntry struct {
	PeerID      string    `json:"peer_id"`
	DisplayName string    `json:"display_name"`
	Online      bool      `json:"online"`
	LastSeen    time.Time `json:"last_seen"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSessionList(sessions []SessionSummary) {
	if len(sessions) == 0 {
		fmt.Println("No active sessions")
		return
	}
	fmt.Printf("Sessions (%d):\n", len(sessions))
	for _, s := range sessions {
		role := "participant"
		if s.IsAuthority {
			role = "authority"
		}
		fmt.Printf("  - %s [%s] %s (%s)\n", s.ID, s.Game, s.Phase, role)
	}
}

func (o *Output) printTicTacToe(s TicTacToeState) {
	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("Opponent: %s\n", s.Opponent)
	fmt.Printf("Playing: %s\n", s.MySymbol)
	fmt.Printf("Phase: %s\n", s.Phase)
	fmt.Println()
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			c := s.Board[row*3+col]
			if c == "" {
				c = "."
			}
			cells[col] = c
		}
		fmt.Printf("  %s\n", strings.Join(cells, " "))
	}
	fmt.Println()
	if s.Winner != "" {
		fmt.Printf("Winner: %s\n", s.Winner)
	} else if s.MyTurn {
		fmt.Println("Your turn")
	} else {
		fmt.Println("Waiting for opponent")
	}
}

func (o *Output) printPoker(s PokerState) {
	fmt.Printf("Table: %s\n", s.ID)
	fmt.Printf("Host: %s\n", s.Host)
	fmt.Printf("Phase: %s\n", s.Phase)
	fmt.Printf("Pot: %d\n", s.Pot)
	if len(s.Community) > 0 {
		fmt.Printf("Community: %s\n", strings.Join(s.Community, " "))
	}
	if len(s.MyHand) > 0 {
		fmt.Printf("Your hand: %s\n", strings.Join(s.MyHand, " "))
	}
	if s.Predicted {
		fmt.Println("(showing unconfirmed local action)")
	}
	fmt.Printf("Seats (%d):\n", len(s.Players))
	for i, p := range s.Players {
		markers := ""
		if i == s.DealerIdx {
			markers += " [button]"
		}
		if i == s.CurrentIdx && s.Phase != "lobby" && s.Phase != "ended" {
			markers += " [to act]"
		}
		fmt.Printf("  - %s (%s) chips=%d bet=%d %s%s\n",
			p.DisplayName, p.PeerID, p.Chips, p.Bet, p.Status, markers)
	}
	if s.Result != nil {
		fmt.Printf("Hand over: %s wins %d\n", s.Result.WinnerName, s.Result.Pot)
	}
}

func (o *Output) printHandStrength(h HandStrength) {
	fmt.Printf("Hand: %s\n", h.Name)
}

func (o *Output) printGameStats(s GameStats) {
	fmt.Printf("Overall: %dW / %dL / %dD (%d played)\n",
		s.Overall.Wins, s.Overall.Losses, s.Overall.Draws, s.Overall.Total)
	if len(s.PerOpponent) > 0 {
		fmt.Println("Per opponent:")
		for id, rec := range s.PerOpponent {
			fmt.Printf("  %s: %dW / %dL / %dD\n", id, rec.Wins, rec.Losses, rec.Draws)
		}
	}
	if len(s.History) > 0 {
		fmt.Printf("Recent matches (%d):\n", len(s.History))
		for _, e := range s.History {
			when := e.PlayedAt.Format("2006-01-02 15:04")
			switch {
			case e.WinnerName != "":
				fmt.Printf("  [%s] %s - %s won %d\n", when, e.Result, e.WinnerName, e.Pot)
			case e.OpponentName != "":
				fmt.Printf("  [%s] %s vs %s\n", when, e.Result, e.OpponentName)
			default:
				fmt.Printf("  [%s] %s\n", when, e.Result)
			}
		}
	}
}

func (o *Output) printPresence(roster []PresenceEntry) {
	if len(roster) == 0 {
		fmt.Println("No peers seen")
		return
	}
	fmt.Printf("Peers (%d):\n", len(roster))
	for _, e := range roster {
		state := "offline"
		if e.Online {
			state = "online"
		}
		fmt.Printf("  - %s (%s) %s, last seen %s\n",
			e.DisplayName, e.PeerID, state, e.LastSeen.Format("2006-01-02 15:04:05"))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
