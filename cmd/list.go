package cmd

import (
	"github.com/spf13/cobra"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed tool connectors",
		Long: `List every installed connector with its transport, status and target.

Examples:
  toolhub list
  toolhub list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := opts.formatter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			application, err := opts.application()
			if err != nil {
				return err
			}

			tools, err := application.Services().Manager.ListInstalled(cmd.Context())
			if err != nil {
				return err
			}
			return f.FormatInstalled(tools)
		},
	}
}
