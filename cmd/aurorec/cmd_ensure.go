package main

import (
	"github.com/spf13/cobra"

	"github.com/aurorec/aurorec/reconciler"
)

var allowReplace bool

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Converge the cluster toward the configured desired state",
	Long: `Converge the configured cluster and its instances toward the
desired state. The cluster settles before any instance is touched.

Fields that cannot be changed in place fail with a conflict unless
--allow-replace opts into destroy-then-create convergence.

A fully converged configuration issues zero mutating calls and reports
"changed": false.`,
	Example: `  aurorec ensure --config aurorec.yaml
  aurorec ensure --allow-replace`,
	RunE: runEnsure,
}

func init() {
	rootCmd.AddCommand(ensureCmd)
	ensureCmd.Flags().BoolVar(&allowReplace, "allow-replace", false,
		"Permit destroy-then-create for fields that cannot be updated in place")
}

func runEnsure(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, cleanup, err := buildRuntime(ctx, reconciler.Options{AllowReplace: allowReplace}, false)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := rt.rec.Ensure(ctx, rt.cfg)
	printJSON(result)
	return err
}
