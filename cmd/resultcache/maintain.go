package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInvalidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate GLOB",
		Short: "Invalidate entries whose sources match a glob",
		Long: `Remove every entry with a recorded source path matching the glob.
Patterns match the full source path or its base name, so "*.go"
invalidates entries sourced from Go files anywhere.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.openEngine()
			if err != nil {
				return err
			}
			n := engine.Invalidate(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "invalidated %d entries\n", n)
			return nil
		},
	}
}

func newCleanupCmd(a *app) *cobra.Command {
	var maxBytes int64

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Evict entries until the store fits its budget",
		Long: `Evict least-recently-used entries until the store fits the size budget.
Entries that have never been hit are evicted first. Without --max-bytes
the configured budget applies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.openEngine()
			if err != nil {
				return err
			}
			n := engine.Cleanup(cmd.Context(), maxBytes)
			fmt.Fprintf(cmd.OutOrStdout(), "evicted %d entries\n", n)
			return nil
		},
	}

	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "size budget in bytes (0 uses the configured budget)")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry and reset counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.openEngine()
			if err != nil {
				return err
			}
			n := engine.Clear(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d entries\n", n)
			return nil
		},
	}
}
