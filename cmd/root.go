package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"toolhub/internal/api"
	"toolhub/internal/app"
	"toolhub/internal/formatting"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, I/O problems).
	ExitCodeError = 1
	// ExitCodeValidation indicates input the operator can correct.
	ExitCodeValidation = 2
	// ExitCodeNotFound indicates an unknown tool or registry entry.
	ExitCodeNotFound = 3
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	debug      bool
	output     string
	quiet      bool
}

// application bootstraps toolhub for one command invocation.
func (o *globalOptions) application() (*app.Application, error) {
	return app.NewApplication(app.NewConfig(o.debug, false, o.configPath))
}

// formatter returns the output formatter selected by --output.
func (o *globalOptions) formatter(w io.Writer) (formatting.Formatter, error) {
	format, err := formatting.ParseOutputFormat(o.output)
	if err != nil {
		return nil, err
	}
	return formatting.NewFormatter(w, formatting.Options{Format: format, Quiet: o.quiet}), nil
}

// interactive reports whether decorative output such as spinners is wanted.
func (o *globalOptions) interactive() bool {
	return !o.quiet && (o.output == "" || o.output == string(formatting.FormatTable))
}

// rootCmd represents the base command for the toolhub application.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "toolhub",
		Short: "Manage the tool connectors available to the assistant",
		Long: `toolhub manages the MCP tool servers ("connectors") that extend the
assistant's built-in capabilities. Connectors are reached over stdio or SSE,
stored in a local JSON document and aggregated into a fresh tool manifest
for every conversational turn.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config-path", "", "Configuration directory (default is $HOME/.config/toolhub)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress decorative output")

	cmd.AddCommand(
		newVersionCmd(),
		newListCmd(opts),
		newInstallCmd(opts),
		newUninstallCmd(opts),
		newSetActiveCmd(opts, "enable", true),
		newSetActiveCmd(opts, "disable", false),
		newTestCmd(opts),
		newRegistryCmd(opts),
		newManifestCmd(opts),
		newMockServerCmd(),
	)
	return cmd
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "toolhub version %s\n" .Version}}`)

	ctx, cancel := app.WithSignals(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case api.IsValidation(err):
		return ExitCodeValidation
	case api.IsNotFound(err):
		return ExitCodeNotFound
	default:
		return ExitCodeError
	}
}

// errTestFailed is returned by the test command after the failure was printed.
var errTestFailed = errors.New("connection test failed")

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
