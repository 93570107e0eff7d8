package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"toolhub/internal/api"
	"toolhub/pkg/logging"
)

// Suggestion is one pick returned by a Recommender.
type Suggestion struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Recommender picks catalog entries for a natural-language need. catalog is
// the registry rendered as a JSON array of {name, desc} objects.
type Recommender interface {
	Recommend(ctx context.Context, query, catalog string) ([]Suggestion, error)
}

// RecommenderFunc adapts a function to the Recommender interface.
type RecommenderFunc func(ctx context.Context, query, catalog string) ([]Suggestion, error)

// Recommend calls f.
func (f RecommenderFunc) Recommend(ctx context.Context, query, catalog string) ([]Suggestion, error) {
	return f(ctx, query, catalog)
}

type catalogItem struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Recommend suggests registry entries for query and marks the ones that are
// already installed. Suggestions naming unknown entries are dropped.
func (s *Service) Recommend(ctx context.Context, query string) ([]api.Recommendation, error) {
	if strings.TrimSpace(query) == "" {
		return nil, api.NewValidationError("query", "query is required")
	}
	entries := s.registry.Entries()
	if len(entries) == 0 {
		return nil, &api.ValidationError{Field: "registry", Reason: api.ErrRegistryEmpty.Error(), Err: api.ErrRegistryEmpty}
	}
	if s.recommender == nil {
		return nil, &api.ValidationError{Reason: api.ErrRecommenderUnavailable.Error(), Err: api.ErrRecommenderUnavailable}
	}

	items := make([]catalogItem, 0, len(entries))
	byName := make(map[string]api.RegistryEntry, len(entries))
	for _, e := range entries {
		items = append(items, catalogItem{Name: e.Name, Desc: e.Description})
		byName[e.Name] = e
	}
	catalog, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode registry catalog: %w", err)
	}

	picks, err := s.recommender.Recommend(ctx, query, string(catalog))
	if err != nil {
		return nil, fmt.Errorf("recommendation failed: %w", err)
	}

	installed, err := s.installedNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]api.Recommendation, 0, len(picks))
	for _, p := range picks {
		entry, ok := byName[p.Name]
		if !ok {
			logging.Debug("Manager", "Dropping recommendation for unknown tool %s", p.Name)
			continue
		}
		out = append(out, api.Recommendation{
			RegistryEntry: entry,
			Reason:        p.Reason,
			Installed:     installed[p.Name],
		})
	}
	return out, nil
}

func (s *Service) installedNames(ctx context.Context) (map[string]bool, error) {
	configs, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(configs))
	for _, c := range configs {
		names[c.Name] = true
	}
	return names, nil
}
