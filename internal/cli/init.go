package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"egunkari/internal/sheets"
	transport "egunkari/internal/transport/http"
)

// NewInitSheetsCommand creates the init-sheets command.
func NewInitSheetsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init-sheets",
		Short: "Create the users and posts sheets with header rows",
		Long: `Create the users and posts sheets if they do not exist yet.

Existing sheets are left untouched, so the command is safe to re-run.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			store, closeStore, err := sheets.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := transport.EnsureSheets(cmd.Context(), cfg, store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sheets ready: %s, %s\n", cfg.UsersSheet, cfg.PostsSheet)
			return nil
		},
	}
}
