package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/pokedex-cache/internal/app"
)

var (
	warmupCount     int
	warmupBatchSize int
)

var warmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Load the first N pokemon into the store and exit",
	Long: `Warmup loads ids 1..N through the normal lookup path, skipping ids that
are already stored. It runs regardless of WARMUP_ENABLED.`,
	Args: cobra.NoArgs,
	RunE: runWarmup,
}

func init() {
	warmupCmd.Flags().IntVar(&warmupCount, "count", 0, "number of ids to load (default WARMUP_COUNT)")
	warmupCmd.Flags().IntVar(&warmupBatchSize, "batch-size", 0, "ids per batch (default WARMUP_BATCH_SIZE)")
}

func runWarmup(cmd *cobra.Command, args []string) error {
	c := cfg
	c.WarmupEnabled = true
	if warmupCount > 0 {
		c.WarmupCount = warmupCount
	}
	if warmupBatchSize > 0 {
		c.WarmupBatchSize = warmupBatchSize
	}

	a, err := app.New(cmd.Context(), log, c)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.Services.Warmup.Run(cmd.Context())
	if stats != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "requested=%d loaded=%d skipped=%d failed=%d total=%d\n",
			stats.Requested, stats.Loaded, stats.Skipped, stats.Failed, stats.Total)
	}
	return err
}
