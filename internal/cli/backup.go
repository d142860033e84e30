package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"egunkari/internal/backup"
	"egunkari/internal/sheets"
)

// NewBackupCommand creates the backup command.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the users and posts sheets to R2",
		Long: `Read every row of the users and posts sheets and upload each as JSON to
backups/<UTC timestamp>/<sheet>.json in the configured R2 bucket.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config
			ctx := cmd.Context()

			uploader, err := backup.NewR2Uploader(ctx, cfg)
			if err != nil {
				return err
			}

			store, closeStore, err := sheets.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			keys, err := backup.NewSnapshotter(store, uploader).Run(ctx, cfg.UsersSheet, cfg.PostsSheet)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}
