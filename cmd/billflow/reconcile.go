package main

import (
	"github.com/spf13/cobra"
)

func newReconcileCmd(e *env) *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute customer balances and check stored invoices",
		Long: `reconcile replays every pending invoice and payment of the workspace and
reports customers whose stored balance has drifted, along with invoices that
fail their arithmetic checks. With --fix the drifted balances are rewritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := e.app.Reports.Reconcile(cmd.Context(), e.namespace(), fix)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "persist the recomputed balances")
	return cmd
}
