package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simstim-dev/resultcache/cache"
)

func newKeyCmd(*app) *cobra.Command {
	var (
		paths     []string
		query     string
		operation string
	)

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Derive the cache key for an operation",
		Long: `Derive the deterministic cache key for a set of input paths, a query,
and an operation name. Path order and query case do not affect the key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := cache.NewDefaultKeyer().Key(paths, query, operation)
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&paths, "path", nil, "input path (repeatable)")
	cmd.Flags().StringVar(&query, "query", "", "query string")
	cmd.Flags().StringVar(&operation, "op", "", "operation name")
	return cmd
}
