package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/yungbote/pokedex-cache/internal/app"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <id-or-name>",
	Short: "Resolve one pokemon through the cache and print it as JSON",
	Example: `  pokedex-cache lookup 25
  pokedex-cache lookup pikachu`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	a, err := app.New(cmd.Context(), log, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	view, err := a.Services.Pokemon.GetByKey(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}
