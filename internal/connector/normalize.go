package connector

import (
	"encoding/json"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"toolhub/internal/api"
	"toolhub/pkg/logging"
)

// interpreterNames are executables treated as "run the host interpreter".
var interpreterNames = []string{"python", "python3", "py"}

// Normalizer turns raw operator input into a ConnectorConfig that satisfies
// the store invariants.
type Normalizer struct {
	configured string

	once     sync.Once
	resolved string
}

// NewNormalizer returns a Normalizer that pins interpreters to interpreter.
// An empty interpreter resolves python3, then python, from PATH on first use.
func NewNormalizer(interpreter string) *Normalizer {
	return &Normalizer{configured: strings.TrimSpace(interpreter)}
}

// HostInterpreter returns the absolute interpreter path used for pinning, or
// "" if none could be resolved.
func (n *Normalizer) HostInterpreter() string {
	n.once.Do(func() {
		candidates := []string{n.configured}
		if n.configured == "" {
			candidates = []string{"python3", "python"}
		}
		for _, c := range candidates {
			path := c
			if !filepath.IsAbs(path) {
				found, err := exec.LookPath(c)
				if err != nil {
					continue
				}
				path = found
			}
			if abs, err := filepath.Abs(path); err == nil {
				n.resolved = abs
				return
			}
		}
	})
	return n.resolved
}

// Normalize unwraps nested envelopes, decodes the payload into the declared
// transport variant and applies interpreter pinning. Normalizing an already
// normalized config yields the same config.
func (n *Normalizer) Normalize(req api.InstallRequest) (api.ConnectorConfig, error) {
	name := strings.TrimSpace(req.Name)
	kindName := req.Type
	description := req.Description
	payload := req.Config

	// Operators sometimes paste a whole {name, type, config} template as the config.
	for {
		inner, ok := payload["config"].(map[string]any)
		if !ok {
			break
		}
		if s, ok := payload["type"].(string); ok && strings.TrimSpace(s) != "" {
			kindName = s
		}
		if s, ok := payload["name"].(string); ok && strings.TrimSpace(s) != "" {
			name = strings.TrimSpace(s)
		}
		if s, ok := payload["description"].(string); ok && description == "" {
			description = s
		}
		payload = inner
	}

	if name == "" {
		return api.ConnectorConfig{}, api.NewValidationError("name", "tool name is required")
	}

	kind, err := api.ParseTransportKind(kindName)
	if err != nil {
		return api.ConnectorConfig{}, err
	}

	transport, err := decodeTransport(kind, payload)
	if err != nil {
		return api.ConnectorConfig{}, err
	}
	if err := transport.Validate(); err != nil {
		return api.ConnectorConfig{}, err
	}

	return api.ConnectorConfig{
		Name:        name,
		Description: strings.TrimSpace(description),
		Active:      true,
		Transport:   n.pin(transport),
	}, nil
}

// Repin re-applies interpreter pinning to a stored config. Stores written on
// another host are corrected at use time this way.
func (n *Normalizer) Repin(cfg api.ConnectorConfig) api.ConnectorConfig {
	out := cfg.Clone()
	out.Transport = n.pin(out.Transport)
	return out
}

func (n *Normalizer) pin(t api.Transport) api.Transport {
	if t.Pipe == nil {
		return t
	}
	if !isBareInterpreter(t.Pipe.Command) && !slices.Contains(t.Pipe.Args, "-m") {
		return t
	}
	host := n.HostInterpreter()
	if host == "" {
		logging.Warn("Normalizer", "No host interpreter found, leaving command %q unpinned", t.Pipe.Command)
		return t
	}
	if t.Pipe.Command == host {
		return t
	}
	out := t.Clone()
	out.Pipe.Command = host
	return out
}

func isBareInterpreter(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" || strings.ContainsAny(command, `/\`) {
		return false
	}
	base := strings.TrimSuffix(strings.ToLower(command), ".exe")
	return slices.Contains(interpreterNames, base)
}

// decodeTransport keeps only the fields of the declared variant. Unknown and
// cross-transport fields are dropped without error.
func decodeTransport(kind api.TransportKind, payload map[string]any) (api.Transport, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return api.Transport{}, api.NewValidationError("config", "config is not serializable: %v", err)
	}

	switch kind {
	case api.TransportStdio:
		var p api.PipeParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return api.Transport{}, api.NewValidationError("config", "invalid %s config: %v", kind, err)
		}
		p.Command = strings.TrimSpace(p.Command)
		return api.PipeTransport(p), nil
	case api.TransportSSE:
		var p api.StreamParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return api.Transport{}, api.NewValidationError("config", "invalid %s config: %v", kind, err)
		}
		p.URL = strings.TrimSpace(p.URL)
		return api.StreamTransport(p), nil
	default:
		return api.Transport{}, api.NewValidationError("type", "unsupported transport type %q", kind)
	}
}

// RequestFor renders cfg back into the raw request form accepted by Normalize.
func RequestFor(cfg api.ConnectorConfig) api.InstallRequest {
	return api.InstallRequest{
		Name:        cfg.Name,
		Description: cfg.Description,
		Type:        string(cfg.Kind()),
		Config:      payloadMap(cfg.Transport),
	}
}

func payloadMap(t api.Transport) map[string]any {
	raw, err := json.Marshal(t.Payload())
	if err != nil {
		return map[string]any{}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
