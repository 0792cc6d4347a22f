package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"billflow/internal/app"
	"billflow/internal/config"
	"billflow/internal/domain"
	"billflow/internal/logger"
)

var version = "1.0.0"

// env is shared by every subcommand once the root pre-run has opened the store.
type env struct {
	cfg  *config.Config
	app  *app.App
	user string
}

func (e *env) namespace() domain.Namespace {
	if e.user == "" {
		return domain.GuestNamespace
	}
	return domain.UserNamespace(e.user)
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "billflow",
		Short: "Operate on BillFlow workspaces from the command line",
		Long: `billflow opens the document store configured through BILLFLOW_* variables
and runs maintenance tasks against one workspace: spreadsheet and Tally imports,
JSON export, restoring object storage backups and balance reconciliation.

Without --user the shared guest workspace is used.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.Setup(cfg.Log); err != nil {
				return fmt.Errorf("failed to set up logging: %w", err)
			}
			a, err := app.New(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			e.cfg, e.app = cfg, a
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if e.app == nil {
				return nil
			}
			return e.app.Close()
		},
	}
	root.PersistentFlags().StringVar(&e.user, "user", "", "account id whose workspace to use (default: guest)")

	root.AddCommand(
		newImportCmd(e),
		newExportCmd(e),
		newRestoreCmd(e),
		newReconcileCmd(e),
		newTokenCmd(e),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
