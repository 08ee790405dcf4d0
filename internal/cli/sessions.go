package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect the peer's active sessions",
	}

	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsGetCmd())
	cmd.AddCommand(newSessionsStrengthCmd())

	return cmd
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []SessionSummary
			if err := client.Get("/api/v1/sessions", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one session's state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The detail shape depends on the game kind; sniff it from the
			// raw document
			var raw json.RawMessage
			if err := client.Get("/api/v1/sessions/"+args[0], &raw); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			var probe struct {
				Host string `json:"host"`
			}
			if err := json.Unmarshal(raw, &probe); err != nil {
				return err
			}

			if probe.Host != "" {
				var state PokerState
				if err := json.Unmarshal(raw, &state); err != nil {
					return err
				}
				out.Print(state)
				return nil
			}

			var state TicTacToeState
			if err := json.Unmarshal(raw, &state); err != nil {
				return err
			}
			out.Print(state)
			return nil
		},
	}
}

func newSessionsStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength <id>",
		Short: "Score your current poker hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HandStrength
			if err := client.Get("/api/v1/sessions/"+args[0]+"/strength", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
