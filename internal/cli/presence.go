package cli

import (
	"github.com/spf13/cobra"
)

func newPresenceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presence",
		Short: "Show the substrate roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []PresenceEntry
			if err := client.Get("/api/v1/presence", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
