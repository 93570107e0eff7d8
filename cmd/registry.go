package cmd

import (
	"github.com/spf13/cobra"
)

func newRegistryCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "registry",
		Short: "List the connector templates of the registry catalog",
		Long: `List the read-only registry catalog. Install an entry with
"toolhub install --from-registry NAME".`,
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
			return f.FormatRegistry(application.Services().Manager.ListRegistry())
		},
	}
}
