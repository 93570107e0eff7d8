package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pkgstrings "toolhub/pkg/strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// SourceBuiltin marks capabilities that need no connector.
const SourceBuiltin = "builtin"

// noDescription stands in for an empty capability description.
const noDescription = "no description"

// InvokeFunc runs a capability. The result is handed to the event stream
// as-is and rendered there.
type InvokeFunc func(ctx context.Context, args map[string]any) (any, error)

// Capability is one invocable tool offered to the model for a turn.
type Capability struct {
	Name        string
	Description string
	// Source is SourceBuiltin or the name of the connector that provides it.
	Source string
	// Parameters is the JSON schema of the arguments.
	Parameters map[string]any
	Invoke     InvokeFunc
}

// Manifest is the ordered capability list of one turn: built-ins first,
// then connector tools in connector name order.
type Manifest struct {
	Capabilities []Capability
	// Degraded is set when connector tools were dropped because discovery
	// failed or timed out.
	Degraded bool
}

// Names returns the capability names in manifest order.
func (m Manifest) Names() []string {
	names := make([]string, 0, len(m.Capabilities))
	for _, c := range m.Capabilities {
		names = append(names, c.Name)
	}
	return names
}

// Lookup resolves a capability by name. When names collide the later entry
// wins, which is how the model's tool calls are resolved as well.
func (m Manifest) Lookup(name string) (Capability, bool) {
	for i := len(m.Capabilities) - 1; i >= 0; i-- {
		if m.Capabilities[i].Name == name {
			return m.Capabilities[i], true
		}
	}
	return Capability{}, false
}

// Invoke runs the named capability.
func (m Manifest) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	c, ok := m.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("capability %s is not available in this turn", name)
	}
	return c.Invoke(ctx, args)
}

// Summary renders one "- **name**: first description line" row per capability.
func (m Manifest) Summary() string {
	var b strings.Builder
	for i, c := range m.Capabilities {
		if i > 0 {
			b.WriteByte('\n')
		}
		desc := pkgstrings.FirstLine(c.Description)
		if desc == "" {
			desc = noDescription
		}
		fmt.Fprintf(&b, "- **%s**: %s", c.Name, desc)
	}
	return b.String()
}

// duplicateNames reports names that occur more than once.
func (m Manifest) duplicateNames() []string {
	seen := make(map[string]int, len(m.Capabilities))
	var dups []string
	for _, c := range m.Capabilities {
		seen[c.Name]++
		if seen[c.Name] == 2 {
			dups = append(dups, c.Name)
		}
	}
	return dups
}

// schemaMap converts an MCP input schema into a plain JSON-schema map.
func schemaMap(schema mcp.ToolInputSchema) map[string]any {
	raw, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{"type": "object"}
	}
	return out
}
