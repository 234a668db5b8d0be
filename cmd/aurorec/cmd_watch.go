package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/aurorec/aurorec/internal/daemon"
	"github.com/aurorec/aurorec/reconciler"
)

var (
	watchInterval    time.Duration
	watchMetricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously reconcile on an interval",
	Long: `Run in daemon mode: reconcile immediately, then on every interval.

Prometheus metrics are served on /metrics and a health summary on
/health. Failed passes are logged and retried on the next tick.`,
	Example: `  aurorec watch --interval 5m
  aurorec watch --interval 1m --metrics-addr :9100`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Minute, "Reconcile interval")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", ":2112", "Metrics and health listen address")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, cleanup, err := buildRuntime(ctx, reconciler.Options{}, true)
	if err != nil {
		return err
	}
	defer cleanup()

	rt.logger.Info().
		Str("region", rt.cfg.Region).
		Dur("interval", watchInterval).
		Msg("aurorec watch starting")

	d := daemon.New(rt.rec, rt.cfg, rt.setup.Registry, rt.logger.Logger, daemon.Options{
		Interval:    watchInterval,
		MetricsAddr: watchMetricsAddr,
	})
	return d.Run(ctx)
}
