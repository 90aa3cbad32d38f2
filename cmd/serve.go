package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/pokedex-cache/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Error("Startup failed", "error", err)
		return err
	}
	defer a.Close()

	a.Start(ctx)
	if err := a.Run(ctx); err != nil {
		log.Error("Server failed", "error", err)
		return err
	}
	log.Info("Server stopped")
	return nil
}
