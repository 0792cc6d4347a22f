package main

import (
	"github.com/spf13/cobra"
)

func newTokenCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "token <email>",
		Short: "Issue an access token for an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := e.app.Auth.IssueToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), pair)
		},
	}
}
