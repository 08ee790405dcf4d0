package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frodon-community/peergames/internal/factory"
	"github.com/frodon-community/peergames/internal/model"
	"github.com/frodon-community/peergames/internal/transport/inproc"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted two-peer match in-process",
		Long: `Run two peers over an in-process substrate and play a tictactoe
match and one poker hand between them, printing the results. Useful
for a quick end-to-end check without Redis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context())
		},
	}
}

func runDemo(ctx context.Context) error {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if cfg.Verbose {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	network := inproc.NewNetwork()
	alice, err := factory.New(factory.Config{
		Self:    model.PeerInfo{PeerID: "alice", DisplayName: "Alice"},
		Logger:  logger,
		Network: network,
	})
	if err != nil {
		return err
	}
	defer func() { _ = alice.Close() }()

	bob, err := factory.New(factory.Config{
		Self:    model.PeerInfo{PeerID: "bob", DisplayName: "Bob"},
		Logger:  logger,
		Network: network,
	})
	if err != nil {
		return err
	}
	defer func() { _ = bob.Close() }()

	if err := demoTicTacToe(ctx, alice, bob); err != nil {
		return err
	}
	fmt.Println()
	return demoPoker(ctx, alice, bob)
}

func demoTicTacToe(ctx context.Context, alice, bob *factory.App) error {
	fmt.Println("=== tictactoe: Alice challenges Bob ===")

	session, err := alice.TicTacToeService.Challenge(ctx, "bob")
	if err != nil {
		return err
	}

	// Alice takes the top row while Bob answers on the middle row
	moves := []struct {
		app  *factory.App
		cell int
	}{
		{alice, 0}, {bob, 3}, {alice, 1}, {bob, 4}, {alice, 2},
	}
	for _, m := range moves {
		if _, err := m.app.TicTacToeService.Play(ctx, session.ID, m.cell); err != nil {
			return err
		}
	}

	fmt.Printf("board: %s\n", boardString(session.Board))
	fmt.Printf("winner: %s\n", session.Winner)
	return nil
}

func boardString(b model.Board) string {
	cells := make([]string, len(b))
	for i, m := range b {
		if m == model.MarkNone {
			cells[i] = "."
		} else {
			cells[i] = string(m)
		}
	}
	return strings.Join(cells, " ")
}

func demoPoker(ctx context.Context, alice, bob *factory.App) error {
	fmt.Println("=== poker: Alice hosts a heads-up hand ===")

	session, err := alice.PokerService.CreateTable(ctx, "bob")
	if err != nil {
		return err
	}
	if err := bob.PokerService.Accept(ctx, session.ID); err != nil {
		return err
	}
	if err := alice.PokerService.StartHand(ctx, session.ID); err != nil {
		return err
	}

	// Check or call until the hand resolves; 4 streets of heads-up play
	// bound the number of actions
	apps := map[model.PeerID]*factory.App{"alice": alice, "bob": bob}
	for i := 0; i < 20 && session.Public.Phase.InProgress(); i++ {
		seat := session.Public.ToAct()
		if seat == nil {
			break
		}
		action := model.ActionCheck
		if seat.Bet < session.Public.RoundBet {
			action = model.ActionCall
		}
		if err := apps[seat.PeerID].PokerService.Act(ctx, session.ID, action, 0); err != nil {
			return err
		}
	}

	fmt.Printf("community: %s\n", cardList(session.Public.Community))
	if r := session.Result; r != nil {
		fmt.Printf("winner: %s takes %d (%s)\n", r.WinnerName, r.Pot, handName(r))
		for _, s := range r.Stacks {
			fmt.Printf("  %s: %d chips\n", s.PeerID, s.Chips)
		}
	}
	return nil
}

func cardList(cards []model.Card) string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return strings.Join(out, " ")
}

func handName(r *model.ShowdownResult) string {
	for _, e := range r.Results {
		if e.PeerID == r.Winner {
			return e.HandName
		}
	}
	return ""
}
