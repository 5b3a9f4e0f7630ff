package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simstim-dev/resultcache/cache"
)

func newGetCmd(a *app) *cobra.Command {
	var withFull bool

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Look up a cached result",
		Long: `Look up a cached result by key. The payload is written to stdout on a
hit; every other outcome (miss, stale, expired, corrupt, disabled) is
reported as a status on stderr and the command still exits zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.openEngine()
			if err != nil {
				return err
			}

			payload, status := engine.Get(cmd.Context(), args[0])
			printStatus(cmd, status)
			if status != cache.StatusHit {
				return nil
			}
			cmd.Print(string(payload))
			if withFull {
				if full, ok := engine.FullResult(cmd.Context(), args[0]); ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "full result:", len(full), "bytes")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withFull, "full", false, "report the full result blob size if present")
	return cmd
}
