package main

import (
	"github.com/spf13/cobra"

	"github.com/aurorec/aurorec/config"
	"github.com/aurorec/aurorec/journal"
)

var (
	historyEntityID string
	historyLimit    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past reconcile runs from the local journal",
	Long: `Show the journal of past reconcile runs, newest first. No-op runs
are journaled too, so converged passes stay visible.`,
	Example: `  aurorec history
  aurorec history --entity-id prod-aurora --limit 10`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyEntityID, "entity-id", "", "Only show runs for one entity")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to show, 0 for all")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	records, err := store.List(historyEntityID, historyLimit)
	if err != nil {
		return err
	}

	printJSON(records)
	return nil
}
