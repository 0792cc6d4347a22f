package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"billflow/internal/domain"
	"billflow/internal/logger"
	"billflow/internal/service"
)

func newImportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import products and customers from a file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "xlsx <file>",
			Short:   "Import an Excel workbook with Products and Customers sheets",
			Example: "  billflow import xlsx stock.xlsx --user 3f1c...",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runImport(cmd, e, args[0], e.app.Data.ImportWorkbook)
			},
		},
		&cobra.Command{
			Use:     "tally <file>",
			Short:   "Import stock items and ledgers from a Tally XML export",
			Example: "  billflow import tally Master.xml",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runImport(cmd, e, args[0], e.app.Data.ImportTally)
			},
		},
	)
	return cmd
}

type importFunc func(ctx context.Context, ns domain.Namespace, r io.Reader) (*service.ImportResult, error)

func runImport(cmd *cobra.Command, e *env, path string, fn importFunc) error {
	log := logger.WithComponent("import")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := fn(cmd.Context(), e.namespace(), f)
	if err != nil {
		return err
	}
	log.Info().
		Str("file", path).
		Str("namespace", string(e.namespace())).
		Int("products", res.ProductsCreated).
		Int("customers", res.CustomersCreated).
		Int("skipped", len(res.Skipped)).
		Msg("import finished")
	return printJSON(cmd.OutOrStdout(), res)
}
