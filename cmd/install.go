package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"toolhub/internal/api"
	"toolhub/internal/formatting"

	"github.com/spf13/cobra"
)

// connectorFlags carry a connector definition given on the command line.
type connectorFlags struct {
	transport   string
	config      string
	description string
}

func (f *connectorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.transport, "type", "", "Transport type (stdio or sse)")
	cmd.Flags().StringVar(&f.config, "config", "", `Transport payload as JSON, e.g. '{"url":"https://host/sse"}'`)
	cmd.Flags().StringVar(&f.description, "description", "", "Human readable description")
}

func (f *connectorFlags) request(name string) (api.InstallRequest, error) {
	payload := map[string]any{}
	if strings.TrimSpace(f.config) != "" {
		if err := json.Unmarshal([]byte(f.config), &payload); err != nil {
			return api.InstallRequest{}, api.NewValidationError("config", "--config is not a JSON object: %v", err)
		}
	}
	return api.InstallRequest{
		Name:        name,
		Description: f.description,
		Type:        f.transport,
		Config:      payload,
	}, nil
}

func newInstallCmd(opts *globalOptions) *cobra.Command {
	var (
		flags        connectorFlags
		fromRegistry bool
		verify       bool
	)

	cmd := &cobra.Command{
		Use:   "install NAME",
		Short: "Install or update a tool connector",
		Long: `Install a connector, replacing any connector with the same name.

The --config payload may be flat or a whole pasted template; nested
{"type", "config"} envelopes are unwrapped. Bare python interpreters are
pinned to the host interpreter.

Examples:
  toolhub install maps --type sse --config '{"url":"https://maps.example.com/sse"}'
  toolhub install sqlite --type stdio --config '{"command":"python","args":["-m","mcp_server_sqlite"]}'
  toolhub install --from-registry amap --verify`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.application()
			if err != nil {
				return err
			}
			mgr := application.Services().Manager

			var cfg api.ConnectorConfig
			if fromRegistry {
				cfg, err = mgr.InstallFromRegistry(cmd.Context(), args[0], verify)
			} else {
				req, reqErr := flags.request(args[0])
				if reqErr != nil {
					return reqErr
				}
				cfg, err = mgr.Install(cmd.Context(), req, verify)
			}
			if err != nil {
				return err
			}

			printf(cmd, "Installed %s\n", cfg)
			if !opts.quiet {
				printf(cmd, "%s\n", formatting.PrettyJSON(cfg.Transport.Payload()))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&fromRegistry, "from-registry", false, "Install NAME from the registry catalog")
	cmd.Flags().BoolVar(&verify, "verify", false, "Test the connection before saving")
	cmd.MarkFlagsMutuallyExclusive("from-registry", "type")
	cmd.MarkFlagsMutuallyExclusive("from-registry", "config")
	return cmd
}

func newUninstallCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall NAME",
		Aliases: []string{"rm"},
		Short:   "Remove an installed tool connector",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.application()
			if err != nil {
				return err
			}
			if err := application.Services().Manager.Uninstall(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd, "Uninstalled %s\n", args[0])
			return nil
		},
	}
}

func newSetActiveCmd(opts *globalOptions, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME",
		Short: fmt.Sprintf("%s a tool connector for future turns", strings.ToUpper(use[:1])+use[1:]),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.application()
			if err != nil {
				return err
			}
			if err := application.Services().Manager.SetActive(cmd.Context(), args[0], active); err != nil {
				return err
			}
			printf(cmd, "%sd %s\n", strings.ToUpper(use[:1])+use[1:], args[0])
			return nil
		},
	}
}
