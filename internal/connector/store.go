package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"toolhub/internal/api"
	"toolhub/pkg/logging"

	"github.com/gofrs/flock"
)

// lockRetryDelay is the polling interval while another process holds the
// store lock.
const lockRetryDelay = 25 * time.Millisecond

// storeDocument is the on-disk layout of the tools file.
type storeDocument struct {
	Tools map[string]*storeRecord `json:"tools"`
}

// storeRecord keeps config as raw JSON so entries an operation does not touch
// are written back unchanged.
type storeRecord struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Active      *bool           `json:"active,omitempty"`
	Config      json.RawMessage `json:"config"`
}

func (r *storeRecord) isActive() bool {
	return r.Active == nil || *r.Active
}

// Store is the durable name -> ConnectorConfig mapping. Writes are
// serialized within the process by mu and across processes by an advisory
// lock on <path>.lock.
type Store struct {
	path       string
	normalizer *Normalizer

	mu sync.Mutex
}

// NewStore creates a store backed by the JSON file at path.
func NewStore(path string, normalizer *Normalizer) *Store {
	if normalizer == nil {
		normalizer = NewNormalizer("")
	}
	return &Store{path: path, normalizer: normalizer}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Normalizer returns the normalizer applied by Upsert.
func (s *Store) Normalizer() *Normalizer {
	return s.normalizer
}

// Load returns every decodable entry in name order. A missing or corrupt
// file yields an empty result.
func (s *Store) Load(ctx context.Context) ([]api.ConnectorConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	doc := s.read()
	s.mu.Unlock()

	out := make([]api.ConnectorConfig, 0, len(doc.Tools))
	for _, name := range sortedNames(doc.Tools) {
		cfg, err := decodeRecord(name, doc.Tools[name])
		if err != nil {
			logging.Warn("ConfigStore", "Skipping unreadable entry %s: %v", name, err)
			continue
		}
		out = append(out, cfg)
	}
	return out, nil
}

// Active returns the entries with active == true, in name order.
func (s *Store) Active(ctx context.Context) ([]api.ConnectorConfig, error) {
	all, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(c api.ConnectorConfig) bool { return !c.Active }), nil
}

// Get returns one entry by name.
func (s *Store) Get(ctx context.Context, name string) (api.ConnectorConfig, error) {
	if err := ctx.Err(); err != nil {
		return api.ConnectorConfig{}, err
	}

	s.mu.Lock()
	doc := s.read()
	s.mu.Unlock()

	rec, ok := doc.Tools[name]
	if !ok {
		return api.ConnectorConfig{}, api.NewToolNotFoundError(name)
	}
	return decodeRecord(name, rec)
}

// Installed returns the operator view of every entry, including entries whose
// payload no longer decodes.
func (s *Store) Installed(ctx context.Context) ([]api.InstalledTool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	doc := s.read()
	s.mu.Unlock()

	out := make([]api.InstalledTool, 0, len(doc.Tools))
	for _, name := range sortedNames(doc.Tools) {
		rec := doc.Tools[name]
		tool := api.InstalledTool{
			Name:        name,
			Description: rec.Description,
			Active:      rec.isActive(),
			Type:        api.TransportKind(rec.Type),
			Config:      map[string]any{},
		}
		if len(rec.Config) > 0 {
			if err := json.Unmarshal(rec.Config, &tool.Config); err != nil {
				logging.Warn("ConfigStore", "Entry %s has an unreadable config payload: %v", name, err)
			}
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, orEmptyObject(rec.Config), "", "  "); err == nil {
			tool.ConfigJSON = pretty.String()
		} else {
			tool.ConfigJSON = "{}"
		}
		out = append(out, tool)
	}
	return out, nil
}

// Save replaces the whole mapping.
func (s *Store) Save(ctx context.Context, configs []api.ConnectorConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := storeDocument{Tools: make(map[string]*storeRecord, len(configs))}
	for _, cfg := range configs {
		rec, err := encodeRecord(cfg)
		if err != nil {
			return err
		}
		doc.Tools[cfg.Name] = rec
	}

	return s.update(ctx, func(storeDocument) (storeDocument, error) {
		return doc, nil
	})
}

// Upsert normalizes raw operator input and stores it as an active entry,
// replacing any entry with the same name.
func (s *Store) Upsert(ctx context.Context, req api.InstallRequest) (api.ConnectorConfig, error) {
	if err := ctx.Err(); err != nil {
		return api.ConnectorConfig{}, err
	}

	cfg, err := s.normalizer.Normalize(req)
	if err != nil {
		return api.ConnectorConfig{}, err
	}
	rec, err := encodeRecord(cfg)
	if err != nil {
		return api.ConnectorConfig{}, err
	}

	err = s.update(ctx, func(doc storeDocument) (storeDocument, error) {
		doc.Tools[cfg.Name] = rec
		return doc, nil
	})
	if err != nil {
		return api.ConnectorConfig{}, err
	}

	logging.Info("ConfigStore", "Saved tool %s", cfg)
	return cfg, nil
}

// Remove deletes an entry.
func (s *Store) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.update(ctx, func(doc storeDocument) (storeDocument, error) {
		if _, ok := doc.Tools[name]; !ok {
			return doc, api.NewToolNotFoundError(name)
		}
		delete(doc.Tools, name)
		return doc, nil
	})
	if err != nil {
		return err
	}

	logging.Info("ConfigStore", "Removed tool %s", name)
	return nil
}

// SetActive toggles whether an entry takes part in aggregation.
func (s *Store) SetActive(ctx context.Context, name string, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.update(ctx, func(doc storeDocument) (storeDocument, error) {
		rec, ok := doc.Tools[name]
		if !ok {
			return doc, api.NewToolNotFoundError(name)
		}
		rec.Active = &active
		return doc, nil
	})
	if err != nil {
		return err
	}

	logging.Info("ConfigStore", "Set tool %s active=%t", name, active)
	return nil
}

// update runs one read-modify-write cycle while holding both locks. If fn
// fails nothing is written.
func (s *Store) update(ctx context.Context, fn func(storeDocument) (storeDocument, error)) error {
	if strings.TrimSpace(s.path) == "" {
		return api.NewInfrastructureError("write tools file", errors.New("store path is empty"))
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return api.NewInfrastructureError("create store dir", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fileLock := flock.New(s.path + ".lock")
	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		if err == nil {
			err = ctx.Err()
		}
		return api.NewInfrastructureError("lock tools file", fmt.Errorf("%w: %w", api.ErrConfigConflict, err))
	}
	defer func() {
		if err := fileLock.Unlock(); err != nil {
			logging.Warn("ConfigStore", "Releasing lock on %s: %v", s.path, err)
		}
	}()

	doc, err := fn(s.read())
	if err != nil {
		return err
	}
	return s.write(doc)
}

// read must be called with s.mu held.
func (s *Store) read() storeDocument {
	empty := storeDocument{Tools: map[string]*storeRecord{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("ConfigStore", "Cannot read %s, treating as empty: %v", s.path, err)
		}
		return empty
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return empty
	}

	var doc storeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		logging.Warn("ConfigStore", "Corrupt tools file %s, treating as empty: %v", s.path, err)
		return empty
	}
	if doc.Tools == nil {
		doc.Tools = map[string]*storeRecord{}
	}
	for name, rec := range doc.Tools {
		if rec == nil {
			delete(doc.Tools, name)
		}
	}
	return doc
}

// write must be called from update. The file is replaced atomically.
func (s *Store) write(doc storeDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return api.NewInfrastructureError("encode tools file", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return api.NewInfrastructureError("create temp tools file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return api.NewInfrastructureError("write temp tools file", err)
	}
	if err := tmp.Close(); err != nil {
		return api.NewInfrastructureError("write temp tools file", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return api.NewInfrastructureError("replace tools file", err)
	}
	return nil
}

func encodeRecord(cfg api.ConnectorConfig) (*storeRecord, error) {
	if err := cfg.Transport.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(cfg.Transport.Payload())
	if err != nil {
		return nil, api.NewInfrastructureError("encode config", err)
	}
	active := cfg.Active
	return &storeRecord{
		Type:        string(cfg.Kind()),
		Description: cfg.Description,
		Active:      &active,
		Config:      raw,
	}, nil
}

func decodeRecord(name string, rec *storeRecord) (api.ConnectorConfig, error) {
	kind, err := api.ParseTransportKind(rec.Type)
	if err != nil {
		return api.ConnectorConfig{}, err
	}

	var payload map[string]any
	if len(rec.Config) > 0 {
		if err := json.Unmarshal(rec.Config, &payload); err != nil {
			return api.ConnectorConfig{}, fmt.Errorf("decode config: %w", err)
		}
	}
	transport, err := decodeTransport(kind, payload)
	if err != nil {
		return api.ConnectorConfig{}, err
	}

	return api.ConnectorConfig{
		Name:        name,
		Description: rec.Description,
		Active:      rec.isActive(),
		Transport:   transport,
	}, nil
}

func sortedNames(tools map[string]*storeRecord) []string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func orEmptyObject(raw json.RawMessage) []byte {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return []byte("{}")
	}
	return raw
}
