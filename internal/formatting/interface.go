// Package formatting renders toolhub command output as tables, JSON or YAML.
package formatting

import (
	"fmt"
	"io"

	"toolhub/internal/aggregator"
	"toolhub/internal/api"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", api.NewValidationError("output", "unsupported output format %q (supported: table, json, yaml)", s)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements
}

// Formatter renders the results of management commands.
type Formatter interface {
	FormatInstalled(tools []api.InstalledTool) error
	FormatRegistry(entries []api.RegistryEntry) error
	FormatManifest(m aggregator.Manifest, instructions string) error
	FormatTestResult(res api.TestResult) error
}

// NewFormatter creates the formatter for options.Format writing to w.
func NewFormatter(w io.Writer, options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{out: w}
	case FormatYAML:
		return &YAMLFormatter{out: w}
	default:
		return &TableFormatter{out: w, options: options}
	}
}

// capabilityView is the serializable form of a manifest entry.
type capabilityView struct {
	Name        string         `json:"name"`
	Source      string         `json:"source"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// manifestView is the serializable form of a manifest.
type manifestView struct {
	Capabilities []capabilityView `json:"capabilities"`
	Degraded     bool             `json:"degraded"`
	Instructions string           `json:"instructions,omitempty"`
}

func newManifestView(m aggregator.Manifest, instructions string) manifestView {
	view := manifestView{
		Capabilities: make([]capabilityView, 0, len(m.Capabilities)),
		Degraded:     m.Degraded,
		Instructions: instructions,
	}
	for _, c := range m.Capabilities {
		view.Capabilities = append(view.Capabilities, capabilityView{
			Name:        c.Name,
			Source:      c.Source,
			Description: c.Description,
			Parameters:  c.Parameters,
		})
	}
	return view
}

func writeString(w io.Writer, s string) error {
	_, err := fmt.Fprint(w, s)
	return err
}
