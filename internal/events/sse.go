package events

import (
	"bytes"
	"encoding/json"
	"fmt"

	"toolhub/internal/api"
)

// FormatSSE encodes one event as a Server-Sent Events frame:
//
//	data: {"type":"token","data":{"content":"hi"}}
//
// followed by a blank line. Non-ASCII text is written as is.
func FormatSSE(ev api.Event) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("data: ")

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ev); err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", ev.Type, err)
	}
	// Encode already wrote one newline.
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
