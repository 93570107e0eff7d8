package formatting

import (
	"encoding/json"
	"io"

	"toolhub/internal/aggregator"
	"toolhub/internal/api"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	out io.Writer
}

// FormatInstalled writes the installed tools as a JSON array.
func (f *JSONFormatter) FormatInstalled(tools []api.InstalledTool) error {
	if tools == nil {
		tools = []api.InstalledTool{}
	}
	return f.encode(tools)
}

// FormatRegistry writes the catalog as a JSON array.
func (f *JSONFormatter) FormatRegistry(entries []api.RegistryEntry) error {
	if entries == nil {
		entries = []api.RegistryEntry{}
	}
	return f.encode(entries)
}

// FormatManifest writes the manifest and the rendered instructions.
func (f *JSONFormatter) FormatManifest(m aggregator.Manifest, instructions string) error {
	return f.encode(newManifestView(m, instructions))
}

// FormatTestResult writes {success, message, tools}.
func (f *JSONFormatter) FormatTestResult(res api.TestResult) error {
	return f.encode(res)
}

func (f *JSONFormatter) encode(v any) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
