package formatting

import (
	"io"

	"toolhub/internal/aggregator"
	"toolhub/internal/api"

	"sigs.k8s.io/yaml"
)

// YAMLFormatter provides YAML output formatting. It goes through the JSON
// field names so YAML and JSON output share one schema.
type YAMLFormatter struct {
	out io.Writer
}

// FormatInstalled writes the installed tools as a YAML list.
func (f *YAMLFormatter) FormatInstalled(tools []api.InstalledTool) error {
	if tools == nil {
		tools = []api.InstalledTool{}
	}
	return f.encode(tools)
}

// FormatRegistry writes the catalog as a YAML list.
func (f *YAMLFormatter) FormatRegistry(entries []api.RegistryEntry) error {
	if entries == nil {
		entries = []api.RegistryEntry{}
	}
	return f.encode(entries)
}

// FormatManifest writes the manifest and the rendered instructions.
func (f *YAMLFormatter) FormatManifest(m aggregator.Manifest, instructions string) error {
	return f.encode(newManifestView(m, instructions))
}

// FormatTestResult writes {success, message, tools}.
func (f *YAMLFormatter) FormatTestResult(res api.TestResult) error {
	return f.encode(res)
}

func (f *YAMLFormatter) encode(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = f.out.Write(data)
	return err
}
