package aggregator

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const instructionsTemplate = `You are a capable general-purpose assistant.

### Tools available in this turn
{{ .Summary }}

### How to work
1. Prefer tools: if a request can be answered with one of the tools above, call it.
{{- if has "get_weather" .Names }}
2. Weather questions must use ` + "`get_weather`" + `.
{{- end }}
{{- if has "search_tool" .Names }}
3. News and real-time information must use ` + "`search_tool`" + `.
{{- end }}
4. For databases, files, maps or other services, read the tool list carefully and call the matching connector tool.
{{- if .Degraded }}

Some connector tools are unavailable right now; answer with the tools listed above.
{{- end }}
`

var instructions = template.Must(template.New("instructions").Funcs(sprig.TxtFuncMap()).Parse(instructionsTemplate))

// RenderInstructions renders the system prompt for a turn, listing every
// capability with the first line of its description.
func RenderInstructions(m Manifest) (string, error) {
	data := struct {
		Summary  string
		Names    []string
		Degraded bool
	}{
		Summary:  m.Summary(),
		Names:    m.Names(),
		Degraded: m.Degraded,
	}

	var buf bytes.Buffer
	if err := instructions.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render instructions: %w", err)
	}
	return buf.String(), nil
}
