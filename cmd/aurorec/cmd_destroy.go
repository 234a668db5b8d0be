package main

import (
	"github.com/spf13/cobra"

	"github.com/aurorec/aurorec/reconciler"
)

var (
	skipFinalSnapshot bool
	finalSnapshotID   string
)

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Tear down the configured cluster and its instances",
	Long: `Delete every entity the config manages. Instances are deleted and
confirmed absent before the cluster delete is issued.

Without --skip-final-snapshot a final snapshot is taken; name it with
--final-snapshot-id.`,
	Example: `  aurorec destroy --final-snapshot-id prod-aurora-final
  aurorec destroy --skip-final-snapshot`,
	RunE: runDestroy,
}

func init() {
	rootCmd.AddCommand(destroyCmd)
	destroyCmd.Flags().BoolVar(&skipFinalSnapshot, "skip-final-snapshot", false,
		"Delete the cluster without taking a final snapshot")
	destroyCmd.Flags().StringVar(&finalSnapshotID, "final-snapshot-id", "",
		"Identifier for the final snapshot taken before deletion")
}

func runDestroy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, cleanup, err := buildRuntime(ctx, reconciler.Options{
		SkipFinalSnapshot: skipFinalSnapshot,
		FinalSnapshotID:   finalSnapshotID,
	}, false)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := rt.rec.Destroy(ctx, rt.cfg)
	printJSON(result)
	return err
}
