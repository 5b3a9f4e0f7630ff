package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simstim-dev/resultcache/cache"
	"github.com/simstim-dev/resultcache/config"
	"github.com/simstim-dev/resultcache/observe"
	"github.com/simstim-dev/resultcache/secret"
)

// app carries the loaded configuration and lazily wired engine shared by
// every subcommand.
type app struct {
	configPath string
	dir        string

	cfg      config.Config
	observer observe.Observer
	engine   *cache.Engine
}

// setup loads configuration and builds the observer. Called from the root
// PersistentPreRunE so flags are already parsed.
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dir != "" {
		cfg.Cache.Dir = a.dir
	}
	a.cfg = cfg

	obs, err := observe.NewObserver(ctx, cfg.Observability())
	if err != nil {
		return err
	}
	a.observer = obs
	return nil
}

// openEngine wires the cache engine: the configured policy, a content
// scanner rejecting secret-bearing payloads, and telemetry recording.
func (a *app) openEngine() (*cache.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}

	rec, err := observe.NewRecorder(a.observer, "results")
	if err != nil {
		return nil, err
	}

	scanner := secret.NewScanner(secret.DefaultDetectors()...)
	engine, err := cache.New(a.cfg.Cache.Dir, a.cfg.CachePolicy(),
		cache.WithSafetyPolicy(scanner.Allow),
		cache.WithRecorder(rec),
	)
	if err != nil {
		return nil, err
	}
	a.engine = engine
	return engine, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "resultcache",
		Short: "Content-addressable result cache for analysis operations",
		Long: `resultcache caches the results of expensive deterministic analysis
operations, keyed by a digest of the input paths, query, and operation.

Cached results are integrity-verified on every read, invalidated when a
source file changes or the TTL elapses, and bounded in size by LRU
eviction. Cache misses of any kind are reported as statuses, never as
command failures.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.observer != nil {
				_ = a.observer.Shutdown(cmd.Context())
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default searches .resultcache.yaml upward)")
	cmd.PersistentFlags().StringVar(&a.dir, "dir", "", "cache directory (overrides config)")

	cmd.AddCommand(
		newKeyCmd(a),
		newGetCmd(a),
		newSetCmd(a),
		newDeleteCmd(a),
		newInvalidateCmd(a),
		newCleanupCmd(a),
		newClearCmd(a),
		newStatsCmd(a),
		newStatusCmd(a),
	)
	return cmd
}

// printStatus reports a cache status on stderr so stdout stays reserved
// for payloads. Non-success statuses are not process failures.
func printStatus(cmd *cobra.Command, status cache.Status) {
	fmt.Fprintln(cmd.ErrOrStderr(), "status:", status)
}
