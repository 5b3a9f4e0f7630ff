package main

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete KEY",
		Short: "Remove a single cache entry",
		Long: `Remove one entry and its payload. Deleting an absent key reports a
not_found status; the command is idempotent and always exits zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.openEngine()
			if err != nil {
				return err
			}
			printStatus(cmd, engine.Delete(cmd.Context(), args[0]))
			return nil
		},
	}
}
