package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.openEngine()
			if err != nil {
				return err
			}
			st := engine.Stats(cmd.Context())

			if asJSON {
				data, err := json.MarshalIndent(st, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "enabled:       %t\n", st.Enabled)
			fmt.Fprintf(out, "entries:       %d\n", st.Entries)
			fmt.Fprintf(out, "hits:          %d\n", st.Hits)
			fmt.Fprintf(out, "misses:        %d\n", st.Misses)
			fmt.Fprintf(out, "invalidations: %d\n", st.Invalidations)
			fmt.Fprintf(out, "hit rate:      %.1f%%\n", st.HitRate*100)
			fmt.Fprintf(out, "size:          %d / %d bytes\n", st.SizeBytes, st.MaxSizeBytes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit statistics as JSON")
	return cmd
}
