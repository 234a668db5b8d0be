package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "aurorec",
		Short: "Database cluster reconciliation engine",
		Long: `Aurorec - Database Cluster Reconciliation Engine

Aurorec converges managed relational database clusters toward a declared
desired state. It reads the remote state, computes a field-level diff,
plans the minimal operation sequence, and executes it with bounded
retries. A converged cluster produces zero mutating calls.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`Aurorec {{.Version}} - Database Cluster Reconciliation Engine
`)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "aurorec.yaml", "Desired-state config file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
}
