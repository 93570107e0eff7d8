package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"toolhub/internal/api"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "mcp_config.json"), NewNormalizer(testInterpreter))
}

func rawConfigs(t *testing.T, path string) map[string]json.RawMessage {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Tools map[string]struct {
			Config json.RawMessage `json:"config"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	out := make(map[string]json.RawMessage, len(doc.Tools))
	for name, rec := range doc.Tools {
		out[name] = rec.Config
	}
	return out
}

func TestStore_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Upsert(ctx, api.InstallRequest{Name: "maps", Type: "sse", Config: map[string]any{"url": "https://x/mcp"}})
	require.NoError(t, err)

	installed, err := s.Installed(ctx)
	require.NoError(t, err)
	require.Len(t, installed, 1)
	assert.Equal(t, "maps", installed[0].Name)
	assert.True(t, installed[0].Active)
	assert.Equal(t, api.TransportSSE, installed[0].Type)
	assert.Equal(t, "https://x/mcp", installed[0].Config["url"])
	assert.Equal(t, "{\n  \"url\": \"https://x/mcp\"\n}", installed[0].ConfigJSON)
}

func TestStore_NestedInstallStoresInnermostPayload(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Upsert(ctx, api.InstallRequest{
		Name: "srv",
		Type: "stdio",
		Config: map[string]any{
			"type": "stdio",
			"config": map[string]any{
				"type":   "stdio",
				"config": map[string]any{"command": "python", "args": []any{"-m", "srv"}},
			},
		},
	})
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rawConfigs(t, s.Path())["srv"], &payload))
	assert.Equal(t, map[string]any{"command": testInterpreter, "args": []any{"-m", "srv"}}, payload)
}

func TestStore_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	req := api.InstallRequest{Name: "py", Type: "stdio", Config: map[string]any{"command": "python", "args": []any{"-m", "srv"}}}

	first, err := s.Upsert(ctx, req)
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	second, err := s.Upsert(ctx, RequestFor(first))
	require.NoError(t, err)
	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, string(before), string(after))
}

func TestStore_UpsertReactivates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	req := api.InstallRequest{Name: "maps", Type: "sse", Config: map[string]any{"url": "https://x/mcp"}}

	_, err := s.Upsert(ctx, req)
	require.NoError(t, err)
	require.NoError(t, s.SetActive(ctx, "maps", false))
	_, err = s.Upsert(ctx, req)
	require.NoError(t, err)

	cfg, err := s.Get(ctx, "maps")
	require.NoError(t, err)
	assert.True(t, cfg.Active)
}

func TestStore_SetActiveIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Upsert(ctx, api.InstallRequest{Name: "a", Type: "sse", Config: map[string]any{"url": "https://a"}})
	require.NoError(t, err)
	_, err = s.Upsert(ctx, api.InstallRequest{
		Name: "b", Type: "stdio",
		Config: map[string]any{"command": "node", "args": []any{"b.js"}, "env": map[string]any{"Z": "1", "A": "2"}},
	})
	require.NoError(t, err)

	before := rawConfigs(t, s.Path())["b"]
	require.NoError(t, s.SetActive(ctx, "a", false))
	after := rawConfigs(t, s.Path())["b"]
	assert.Equal(t, string(before), string(after))

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].Name)
}

func TestStore_UnknownNames(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.Remove(ctx, "ghost")
	assert.True(t, api.IsNotFound(err))

	err = s.SetActive(ctx, "ghost", true)
	assert.True(t, api.IsNotFound(err))

	_, err = s.Get(ctx, "ghost")
	assert.True(t, api.IsNotFound(err))
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Upsert(ctx, api.InstallRequest{Name: "a", Type: "sse", Config: map[string]any{"url": "https://a"}})
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, "a"))

	all, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_MissingAndCorruptFile(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		s := newTestStore(t)
		all, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("corrupt", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o600))

		all, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		_, err = s.Upsert(ctx, api.InstallRequest{Name: "a", Type: "sse", Config: map[string]any{"url": "https://a"}})
		require.NoError(t, err)
		all, err = s.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestStore_ReadsHandWrittenFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	content := `{"tools": {
  "zeta": {"type": "sse", "description": "z", "config": {"url": "https://z"}},
  "alpha": {"type": "stdio", "description": "a", "active": false, "config": {"command": "node"}},
  "broken": {"type": "carrier-pigeon", "config": {}}
}}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o600))

	all, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name)
	assert.False(t, all[0].Active)
	assert.Equal(t, "zeta", all[1].Name)
	assert.True(t, all[1].Active, "missing active defaults to true")

	installed, err := s.Installed(ctx)
	require.NoError(t, err)
	assert.Len(t, installed, 3)

	// Toggling one entry keeps the undecodable one.
	require.NoError(t, s.SetActive(ctx, "alpha", true))
	assert.Contains(t, rawConfigs(t, s.Path()), "broken")
}

func TestStore_Save(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	configs := []api.ConnectorConfig{
		{Name: "b", Active: false, Transport: api.StreamTransport(api.StreamParams{URL: "https://b"})},
		{Name: "a", Active: true, Transport: api.PipeTransport(api.PipeParams{Command: "node"})},
	}
	require.NoError(t, s.Save(ctx, configs))

	all, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "b", all[1].Name)
	assert.False(t, all[1].Active)

	require.NoError(t, s.Save(ctx, nil))
	all, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStore_ConcurrentUpsertsKeepEveryEntry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Upsert(ctx, api.InstallRequest{
				Name:   fmt.Sprintf("tool-%02d", i),
				Type:   "sse",
				Config: map[string]any{"url": fmt.Sprintf("https://t/%d", i)},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
}

func TestStore_SeparateStoresOnOneFileKeepEveryEntry(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mcp_config.json")

	// Each Store stands in for a separate toolhub process; only the file
	// lock serializes them.
	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := NewStore(path, NewNormalizer(testInterpreter))
			_, err := s.Upsert(ctx, api.InstallRequest{
				Name:   fmt.Sprintf("tool-%02d", i),
				Type:   "sse",
				Config: map[string]any{"url": fmt.Sprintf("https://t/%d", i)},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := NewStore(path, nil).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)

	leftovers, err := filepath.Glob(path + ".*.tmp")
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStore_LockHeldElsewhere(t *testing.T) {
	s := newTestStore(t)

	other := flock.New(s.Path() + ".lock")
	require.NoError(t, other.Lock())
	defer other.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := s.Upsert(ctx, api.InstallRequest{Name: "a", Type: "sse", Config: map[string]any{"url": "https://a"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrConfigConflict)
	assert.True(t, api.IsInfrastructure(err))

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestStore(t)
	_, err := s.Upsert(ctx, api.InstallRequest{Name: "a", Type: "sse", Config: map[string]any{"url": "https://a"}})
	assert.ErrorIs(t, err, context.Canceled)
}
