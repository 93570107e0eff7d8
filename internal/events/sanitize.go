package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	pkgstrings "toolhub/pkg/strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultMaxArgLength caps each tool_start argument value, in characters.
const DefaultMaxArgLength = 200

// internalArgKeys are injected by the execution layer and never forwarded.
var internalArgKeys = map[string]struct{}{
	"runtime":     {},
	"callbacks":   {},
	"run_manager": {},
}

// isInternalArg reports whether key is execution-layer state.
func isInternalArg(key string) bool {
	if strings.HasPrefix(key, "__") {
		return true
	}
	_, ok := internalArgKeys[key]
	return ok
}

// SanitizeArgs drops internal keys and values that cannot be serialized,
// and truncates every remaining value longer than maxLen characters.
// Short non-string values are kept as they are.
func SanitizeArgs(args map[string]any, maxLen int) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if isInternalArg(k) {
			continue
		}
		if sanitized, ok := truncateValue(v, maxLen); ok {
			out[k] = sanitized
		}
	}
	return out
}

// truncateValue reports false for values with no JSON form, including
// containers that hold one.
func truncateValue(v any, maxLen int) (any, bool) {
	if s, ok := v.(string); ok {
		if maxLen <= 0 {
			return s, true
		}
		return pkgstrings.TruncateWithEllipsis(s, maxLen), true
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	if maxLen > 0 && utf8.RuneCount(raw) > maxLen {
		return pkgstrings.TruncateWithEllipsis(string(raw), maxLen), true
	}
	return v, true
}

// RenderResult turns a tool result into display text. A value with a
// natural textual form uses it; anything else is serialized as JSON.
func RenderResult(result any) string {
	switch r := result.(type) {
	case nil:
		return ""
	case *mcp.CallToolResult:
		return renderToolResult(r)
	case string:
		return r
	case fmt.Stringer:
		return r.String()
	case error:
		return r.Error()
	case []byte:
		return string(r)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprint(result)
	}
	return string(raw)
}

func renderToolResult(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	var parts []string
	for _, c := range r.Content {
		if text, ok := mcp.AsTextContent(c); ok {
			parts = append(parts, text.Text)
		}
	}
	if len(parts) == 0 {
		if r.StructuredContent != nil {
			if raw, err := json.Marshal(r.StructuredContent); err == nil {
				return string(raw)
			}
		}
		raw, err := json.Marshal(r.Content)
		if err != nil {
			return ""
		}
		return string(raw)
	}
	return strings.Join(parts, "\n")
}
