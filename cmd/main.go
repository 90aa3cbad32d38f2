package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/pokedex-cache/internal/app"
	"github.com/yungbote/pokedex-cache/internal/platform/envutil"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

var (
	log *logger.Logger
	cfg app.Config
)

var rootCmd = &cobra.Command{
	Use:   "pokedex-cache",
	Short: "Read-through Pokémon cache backed by PokeAPI",
	Long: `pokedex-cache answers Pokémon lookups from a relational store and fills
misses from PokeAPI, normalizing names and reference items on the way in.

Without a subcommand it runs the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(envutil.String("LOG_MODE", "development"))
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = l

		log.Info("Loading environment variables...")
		c, err := app.LoadConfig()
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(warmupCmd)
	rootCmd.AddCommand(lookupCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
