package connector

import (
	"errors"
	"os"
	"slices"
	"strings"

	"toolhub/internal/api"
	"toolhub/pkg/logging"

	"sigs.k8s.io/yaml"
)

// Registry is the read-only catalog of connector templates. It is loaded
// once and never mutated.
type Registry struct {
	entries []api.RegistryEntry
}

// NewRegistry builds a registry from in-memory entries.
func NewRegistry(entries []api.RegistryEntry) *Registry {
	return &Registry{entries: slices.Clone(entries)}
}

// LoadRegistry reads a JSON or YAML catalog. A missing or malformed file
// yields an empty registry.
func LoadRegistry(path string) *Registry {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Registry", "No registry catalog at %s", path)
		} else {
			logging.Warn("Registry", "Cannot read registry catalog %s: %v", path, err)
		}
		return &Registry{}
	}

	var entries []api.RegistryEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		logging.Warn("Registry", "Malformed registry catalog %s: %v", path, err)
		return &Registry{}
	}

	entries = slices.DeleteFunc(entries, func(e api.RegistryEntry) bool {
		return strings.TrimSpace(e.Name) == ""
	})
	logging.Debug("Registry", "Loaded %d registry entries from %s", len(entries), path)
	return &Registry{entries: entries}
}

// Entries returns a copy of the catalog in file order.
func (r *Registry) Entries() []api.RegistryEntry {
	return slices.Clone(r.entries)
}

// Len reports the catalog size.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Get looks up a template by name.
func (r *Registry) Get(name string) (api.RegistryEntry, error) {
	for _, e := range r.entries {
		if e.Name == name {
			return e, nil
		}
	}
	return api.RegistryEntry{}, api.NewRegistryEntryNotFoundError(name)
}

// InstallRequestFor converts a registry template into an install request.
func InstallRequestFor(e api.RegistryEntry) api.InstallRequest {
	return api.InstallRequest{
		Name:        e.Name,
		Description: e.Description,
		Type:        e.Type,
		Config:      e.DefaultConfig,
	}
}
