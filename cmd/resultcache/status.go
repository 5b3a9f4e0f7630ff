package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simstim-dev/resultcache/health"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the health of the cache store",
		Long: `Run health checks against the cache store: the directory must be
writable and the index must parse. A store over its size budget is
reported as degraded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			agg := health.NewAggregator(health.AggregatorConfig{Timeout: 5 * time.Second})
			agg.Register(health.NewStorageChecker(a.cfg.Cache.Dir, a.cfg.CachePolicy().MaxBytes))

			results := agg.CheckAll(cmd.Context())
			out := cmd.OutOrStdout()
			for _, name := range agg.CheckerNames() {
				r := results[name]
				fmt.Fprintf(out, "%-10s %-10s %s\n", name, r.Status, r.Message)
			}
			fmt.Fprintln(out, "overall:", health.OverallStatus(results))
			return nil
		},
	}
}
