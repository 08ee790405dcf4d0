package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Inspect the peer's match records",
	}

	cmd.AddCommand(newStatsGetCmd())
	cmd.AddCommand(newStatsResetCmd())

	return cmd
}

func newStatsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game>",
		Short: "Show the record for a game (tictactoe, poker)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameStats
			if err := client.Get("/api/v1/stats/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStatsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <game>",
		Short: "Clear the record for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/stats/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Stats reset")
			return nil
		},
	}
}
