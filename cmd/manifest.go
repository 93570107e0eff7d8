package cmd

import (
	"toolhub/internal/aggregator"
	"toolhub/pkg/logging"

	"github.com/spf13/cobra"
)

func newManifestCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Show the tool manifest a conversational turn would receive",
		Long: `Build the per-turn manifest exactly as a conversational turn does:
built-in tools plus the tools of every enabled connector, discovered
concurrently under the runtime deadline (3s by default). Connectors that
do not answer in time are left out.`,
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

			manifest := application.Services().Aggregator.BuildManifest(cmd.Context())
			instructions, err := aggregator.RenderInstructions(manifest)
			if err != nil {
				logging.Warn("CLI", "Could not render instructions: %v", err)
				instructions = manifest.Summary()
			}
			return f.FormatManifest(manifest, instructions)
		},
	}
}
