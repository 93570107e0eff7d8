package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	tavilygo "github.com/diverged/tavily-go"
	tavilyModels "github.com/diverged/tavily-go/models"
)

const (
	// WeatherToolName is the built-in current-weather capability.
	WeatherToolName = "get_weather"
	// SearchToolName is the built-in web search capability.
	SearchToolName = "search_tool"

	defaultBuiltinTimeout = 5 * time.Second
	maxErrorBodyLen       = 512
)

// BuiltinOptions configures the built-in capabilities.
type BuiltinOptions struct {
	Weather WeatherOptions
	Search  SearchOptions
	// HTTPClient is shared by both built-ins. Defaults to a client with a
	// 5s timeout.
	HTTPClient *http.Client
}

// WeatherOptions configures get_weather.
type WeatherOptions struct {
	Enabled bool
	BaseURL string
	APIKey  string
	// APIKeyEnv names the variable APIKey came from, for error messages.
	APIKeyEnv string
}

// SearchOptions configures search_tool.
type SearchOptions struct {
	Enabled   bool
	BaseURL   string
	APIKey    string
	APIKeyEnv string
}

// Builtins returns the enabled built-in capabilities: search first, then
// weather. Failures are returned as descriptive text results rather than
// errors so the model can read and relay them.
func Builtins(opts BuiltinOptions) []Capability {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultBuiltinTimeout}
	}

	var caps []Capability
	if opts.Search.Enabled {
		s := &searchTool{opts: opts.Search, httpClient: httpClient}
		caps = append(caps, Capability{
			Name:        SearchToolName,
			Description: "Search the web for news and real-time information.\nReturns ranked results and a short aggregated answer.",
			Source:      SourceBuiltin,
			Parameters:  objectSchema("query", "The search query."),
			Invoke:      s.invoke,
		})
	}
	if opts.Weather.Enabled {
		w := &weatherTool{opts: opts.Weather, httpClient: httpClient}
		caps = append(caps, Capability{
			Name:        WeatherToolName,
			Description: "Look up the current weather for a city.\nCity names must be given in English, e.g. 'Beijing'.",
			Source:      SourceBuiltin,
			Parameters:  objectSchema("loc", "The city name in English."),
			Invoke:      w.invoke,
		})
	}
	return caps
}

func objectSchema(field, description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			field: map[string]any{"type": "string", "description": description},
		},
		"required": []any{field},
	}
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

type weatherTool struct {
	opts       WeatherOptions
	httpClient *http.Client
}

func (w *weatherTool) invoke(ctx context.Context, args map[string]any) (any, error) {
	loc := stringArg(args, "loc")
	if loc == "" {
		return "weather lookup needs a 'loc' argument with the city name", nil
	}
	if w.opts.APIKey == "" {
		return fmt.Sprintf("weather lookup is unavailable: %s is not set", w.opts.APIKeyEnv), nil
	}

	q := url.Values{}
	q.Set("q", loc)
	q.Set("appid", w.opts.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.opts.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Sprintf("weather request could not be built: %v", err), nil
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("weather request failed: %v", err), nil
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("weather response could not be read: %v", err), nil
	}
	if resp.StatusCode != http.StatusOK {
		text := string(body)
		if len(text) > maxErrorBodyLen {
			text = text[:maxErrorBodyLen]
		}
		return fmt.Sprintf("weather lookup failed with status %d: %s", resp.StatusCode, text), nil
	}
	return string(body), nil
}

type searchTool struct {
	opts       SearchOptions
	httpClient *http.Client
}

type searchResult struct {
	Results []tavilyModels.SearchResult `json:"results"`
	Answer  string                      `json:"answer,omitempty"`
}

func (s *searchTool) invoke(ctx context.Context, args map[string]any) (any, error) {
	query := stringArg(args, "query")
	if query == "" {
		return "web search needs a non-empty 'query' argument", nil
	}
	if s.opts.APIKey == "" {
		return fmt.Sprintf("web search is unavailable: %s is not set", s.opts.APIKeyEnv), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := tavilygo.NewClient(s.opts.APIKey)
	if s.opts.BaseURL != "" {
		client.BaseURL = s.opts.BaseURL
	}
	client.HTTPClient = s.httpClient

	resp, err := tavilygo.Search(client, tavilyModels.SearchRequest{
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	})
	if err != nil {
		return fmt.Sprintf("web search failed: %v", err), nil
	}

	data, err := json.Marshal(searchResult{Results: resp.Results, Answer: resp.Answer})
	if err != nil {
		return fmt.Sprintf("web search result could not be encoded: %v", err), nil
	}
	return string(data), nil
}
