package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurorec/aurorec/config"
	awsprovider "github.com/aurorec/aurorec/providers/aws"
	"github.com/aurorec/aurorec/snapshots"
)

var (
	snapSnapshotID string
	snapClusterID  string
	snapType       string
	snapStatus     string
	snapPattern    string
	snapMaxRecords int32
	snapSortBy     string
	snapSortOrder  string
	snapSortStart  int
	snapSortEnd    int
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List cluster snapshots",
	Long: `List snapshots of the configured cluster, or of an explicit cluster
or snapshot identifier. Purely read-only.

Results can be filtered by status and an identifier regex, sorted by id
or creation time, and sliced with --sort-start/--sort-end.`,
	Example: `  aurorec snapshots
  aurorec snapshots --cluster-id prod-aurora --status available
  aurorec snapshots --pattern '^nightly-' --sort-by create_time --sort-order descending
  aurorec snapshots --sort-by create_time --sort-start 0 --sort-end 5`,
	RunE: runSnapshots,
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)

	snapshotsCmd.Flags().StringVar(&snapSnapshotID, "snapshot-id", "", "Exact snapshot identifier")
	snapshotsCmd.Flags().StringVar(&snapClusterID, "cluster-id", "", "Cluster identifier (defaults to the configured cluster)")
	snapshotsCmd.Flags().StringVar(&snapType, "snapshot-type", "", "Snapshot type (automated, manual, shared, public)")
	snapshotsCmd.Flags().StringVar(&snapStatus, "status", "", "Filter by snapshot status")
	snapshotsCmd.Flags().StringVar(&snapPattern, "pattern", "", "Regex applied to snapshot identifiers")
	snapshotsCmd.Flags().Int32Var(&snapMaxRecords, "max-records", 0, "Maximum records requested from the provider")
	snapshotsCmd.Flags().StringVar(&snapSortBy, "sort-by", "", "Sort key: id or create_time")
	snapshotsCmd.Flags().StringVar(&snapSortOrder, "sort-order", snapshots.OrderAscending, "Sort order: ascending or descending")
	snapshotsCmd.Flags().IntVar(&snapSortStart, "sort-start", -1, "Slice start index after sorting")
	snapshotsCmd.Flags().IntVar(&snapSortEnd, "sort-end", -1, "Slice end index after sorting")
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	provider, err := awsprovider.New(ctx, cfg.Region)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	query := snapshots.Query{
		SnapshotID: snapSnapshotID,
		ClusterID:  snapClusterID,
		Type:       snapType,
		Status:     snapStatus,
		IDPattern:  snapPattern,
		MaxRecords: snapMaxRecords,
		SortBy:     snapSortBy,
		SortOrder:  snapSortOrder,
	}
	if query.SnapshotID == "" && query.ClusterID == "" && cfg.Cluster != nil {
		query.ClusterID = cfg.Cluster.ClusterID
	}
	if cmd.Flags().Changed("sort-start") {
		query.SortStart = &snapSortStart
	}
	if cmd.Flags().Changed("sort-end") {
		query.SortEnd = &snapSortEnd
	}

	records, err := snapshots.Run(ctx, provider, query)
	if err != nil {
		return err
	}

	printJSON(records)
	return nil
}
