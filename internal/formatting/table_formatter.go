package formatting

import (
	"fmt"
	"io"

	"toolhub/internal/aggregator"
	"toolhub/internal/api"
	pkgstrings "toolhub/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const maxDescriptionWidth = 60

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	out     io.Writer
	options Options
}

// FormatInstalled renders one row per installed tool.
func (f *TableFormatter) FormatInstalled(tools []api.InstalledTool) error {
	if len(tools) == 0 {
		return writeString(f.out, f.formatEmptyMessage("📋", "No tools installed"))
	}

	t := f.createTable()
	t.AppendHeader(table.Row{header("NAME"), header("TYPE"), header("STATUS"), header("TARGET"), header("DESCRIPTION")})
	for _, tool := range tools {
		t.AppendRow(table.Row{
			text.FgHiCyan.Sprint(tool.Name),
			string(tool.Type),
			status(tool.Active),
			target(tool),
			pkgstrings.TruncateDescription(tool.Description, maxDescriptionWidth),
		})
	}
	t.Render()
	return f.formatTotal(len(tools), "tools")
}

// FormatRegistry renders the catalog.
func (f *TableFormatter) FormatRegistry(entries []api.RegistryEntry) error {
	if len(entries) == 0 {
		return writeString(f.out, f.formatEmptyMessage("📋", "Registry is empty"))
	}

	t := f.createTable()
	t.AppendHeader(table.Row{header("NAME"), header("TYPE"), header("DESCRIPTION")})
	for _, e := range entries {
		t.AppendRow(table.Row{
			text.FgHiCyan.Sprint(e.Name),
			e.Type,
			pkgstrings.TruncateDescription(e.Description, maxDescriptionWidth),
		})
	}
	t.Render()
	return f.formatTotal(len(entries), "entries")
}

// FormatManifest renders the capability list followed by the instructions.
func (f *TableFormatter) FormatManifest(m aggregator.Manifest, instructions string) error {
	t := f.createTable()
	t.AppendHeader(table.Row{header("CAPABILITY"), header("SOURCE"), header("DESCRIPTION")})
	for _, c := range m.Capabilities {
		t.AppendRow(table.Row{
			text.FgHiCyan.Sprint(c.Name),
			c.Source,
			pkgstrings.TruncateDescription(c.Description, maxDescriptionWidth),
		})
	}
	t.Render()

	if m.Degraded {
		if err := writeString(f.out, f.formatEmptyMessage("⚠️", "Connector tools unavailable, showing built-ins only")); err != nil {
			return err
		}
	}
	if instructions != "" && !f.options.Quiet {
		if _, err := fmt.Fprintf(f.out, "\n%s\n%s", text.FgHiBlue.Sprint("Instructions:"), instructions); err != nil {
			return err
		}
	}
	return nil
}

// FormatTestResult prints a one-line verdict.
func (f *TableFormatter) FormatTestResult(res api.TestResult) error {
	if res.Success {
		_, err := fmt.Fprintf(f.out, "%s %s\n", text.FgGreen.Sprint("✓"), res.Message)
		return err
	}
	_, err := fmt.Fprintf(f.out, "%s %s\n", text.FgRed.Sprint("✗"), res.Message)
	return err
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetStyle(table.StyleRounded)
	return t
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(icon, message string) string {
	return fmt.Sprintf("%s %s\n", text.FgYellow.Sprint(icon), text.FgYellow.Sprint(message))
}

func (f *TableFormatter) formatTotal(n int, noun string) error {
	if f.options.Quiet {
		return nil
	}
	_, err := fmt.Fprintf(f.out, "\n%s %s %s\n",
		text.FgHiBlue.Sprint("Total:"),
		text.FgHiWhite.Sprint(n),
		text.FgHiBlue.Sprint(noun))
	return err
}

func header(s string) string {
	return text.FgHiCyan.Sprint(s)
}

func status(active bool) string {
	if active {
		return text.FgGreen.Sprint("enabled")
	}
	return text.FgYellow.Sprint("disabled")
}

// target is the command line or URL a tool connects to.
func target(tool api.InstalledTool) string {
	switch tool.Type {
	case api.TransportSSE:
		if u, ok := tool.Config["url"].(string); ok {
			return u
		}
	case api.TransportStdio:
		if c, ok := tool.Config["command"].(string); ok {
			line := c
			if args, ok := tool.Config["args"].([]any); ok {
				for _, a := range args {
					line += fmt.Sprintf(" %v", a)
				}
			}
			return pkgstrings.TruncateWithEllipsis(line, maxDescriptionWidth)
		}
	}
	return ""
}
