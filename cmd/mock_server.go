package cmd

import (
	"toolhub/internal/testing/mock"

	"github.com/spf13/cobra"
)

// newMockServerCmd serves a scripted MCP server over stdio. It backs stdio
// connector tests and local experiments.
func newMockServerCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:    "mock-server",
		Short:  "Run a mock MCP server over stdio",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := mock.NewServerFromFile(configPath)
			if err != nil {
				return err
			}
			return srv.ServeStdio()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML file with the mock tool definitions")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
