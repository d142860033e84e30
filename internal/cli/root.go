package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"egunkari/internal/config"
)

// RootOptions holds state shared by all commands.
type RootOptions struct {
	Config *config.Config
}

// NewRootCommand creates the root command. Running it without a subcommand
// starts the server.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "egunkari",
		Short: "Egunkari - a small blogging backend on a spreadsheet",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			opts.Config = cfg
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewInitSheetsCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))

	return cmd
}
