package cmd

import (
	"os"
	"time"

	"toolhub/internal/api"
	"toolhub/internal/connector"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

func newTestCmd(opts *globalOptions) *cobra.Command {
	var flags connectorFlags

	cmd := &cobra.Command{
		Use:   "test NAME",
		Short: "Test the connection to a tool connector",
		Long: `Connect to a connector and list its tools under the install-time
deadline (10s by default, probe.installTimeout in config.yaml).

Without --type and --config the installed connector NAME is tested.

Examples:
  toolhub test maps
  toolhub test maps --type sse --config '{"url":"https://maps.example.com/sse"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := opts.formatter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			application, err := opts.application()
			if err != nil {
				return err
			}
			services := application.Services()

			var req api.InstallRequest
			if flags.transport == "" && flags.config == "" {
				cfg, err := services.Store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				req = connector.RequestFor(cfg)
			} else {
				req, err = flags.request(args[0])
				if err != nil {
					return err
				}
			}

			var s *spinner.Spinner
			if opts.interactive() {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
				s.Suffix = " Testing connection to " + args[0] + "..."
				s.Start()
			}

			res := services.Manager.TestConnection(cmd.Context(), req)

			if s != nil {
				s.Stop()
			}

			if err := f.FormatTestResult(res); err != nil {
				return err
			}
			if !res.Success {
				return errTestFailed
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
