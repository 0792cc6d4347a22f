package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"billflow/internal/logger"
)

func newExportCmd(e *env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the workspace as a JSON snapshot",
		Example: `  billflow export > backup.json
  billflow export --out backup.json --user 3f1c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := e.app.Data.Export(cmd.Context(), e.namespace())
			if err != nil {
				return err
			}
			if out == "" {
				return printJSON(cmd.OutOrStdout(), snap)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()
			if err := printJSON(f, snap); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			log := logger.WithComponent("export")
			log.Info().
				Str("file", out).
				Int("invoices", len(snap.Invoices)).
				Msg("snapshot written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func newRestoreCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <key>",
		Short: "Replace the workspace with a backup from object storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.app.Data.Restore(cmd.Context(), e.namespace(), args[0]); err != nil {
				return err
			}
			log := logger.WithComponent("restore")
			log.Info().
				Str("key", args[0]).
				Str("namespace", string(e.namespace())).
				Msg("backup restored")
			return nil
		},
	}
}
