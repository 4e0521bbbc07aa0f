package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/config"
	"mindbloom/internal/logger"
	"mindbloom/internal/server"

	"github.com/spf13/cobra"
)

// openBackend is swapped out in tests.
var openBackend = server.OpenBackend

var (
	compact bool
	timeout time.Duration
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "progressctl",
		Short:         "Inspect and refresh users' training progress",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVar(&compact, "compact", false, "print JSON on a single line")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "give up after this long")

	rootCmd.AddCommand(
		engineCmd("show <userID>", "Compute the full progress summary", func(ctx context.Context, e *analytics.Engine, userID string) any {
			return e.GetProgressAnalytics(ctx, userID)
		}),
		engineCmd("cached <userID>", "Print the cached projection, recalculating it when stale", func(ctx context.Context, e *analytics.Engine, userID string) any {
			return e.GetCachedOrCalculate(ctx, userID)
		}),
		engineCmd("recalc <userID>", "Recalculate and store the cached projection", func(ctx context.Context, e *analytics.Engine, userID string) any {
			return e.RecalculateAndCache(ctx, userID)
		}),
		engineCmd("today <userID>", "Summarize today's training (UTC)", func(ctx context.Context, e *analytics.Engine, userID string) any {
			return e.TodayPerformance(ctx, userID)
		}),
	)
	return rootCmd
}

func engineCmd(use, short string, run func(ctx context.Context, e *analytics.Engine, userID string) any) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer log.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			backend, err := openBackend(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("opening storage: %w", err)
			}
			defer backend.Close(context.Background())

			result := run(ctx, backend.NewEngine(cfg, log, nil), args[0])

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(result)
		},
	}
}
