package manager

import (
	"context"
	"time"

	"toolhub/internal/api"
	"toolhub/internal/connector"
	"toolhub/pkg/logging"
)

// DefaultTestTimeout bounds an operator-initiated connection test.
const DefaultTestTimeout = 10 * time.Second

// ConnectionTester probes a candidate connector configuration.
type ConnectionTester interface {
	Test(ctx context.Context, req api.InstallRequest, timeout time.Duration) api.TestResult
}

// Service groups the management operations.
type Service struct {
	store       *connector.Store
	registry    *connector.Registry
	tester      ConnectionTester
	recommender Recommender
	testTimeout time.Duration
}

// Option customizes a Service.
type Option func(*Service)

// WithTestTimeout sets the deadline of TestConnection and verified installs.
func WithTestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.testTimeout = d
		}
	}
}

// WithRecommender enables Recommend. Recommendation needs a language model,
// which toolhub does not ship; embedders inject one here and the CLI leaves
// it unset, so Recommend returns api.ErrRecommenderUnavailable there.
func WithRecommender(r Recommender) Option {
	return func(s *Service) { s.recommender = r }
}

// NewService creates a Service. registry may be nil, meaning an empty catalog.
func NewService(store *connector.Store, registry *connector.Registry, tester ConnectionTester, opts ...Option) *Service {
	if registry == nil {
		registry = connector.NewRegistry(nil)
	}
	s := &Service{
		store:       store,
		registry:    registry,
		tester:      tester,
		testTimeout: DefaultTestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListInstalled returns every stored connector, sorted by name.
func (s *Service) ListInstalled(ctx context.Context) ([]api.InstalledTool, error) {
	return s.store.Installed(ctx)
}

// Install creates or replaces a connector. With verify set the candidate is
// probed first and a failed probe rejects the install with the probe message.
func (s *Service) Install(ctx context.Context, req api.InstallRequest, verify bool) (api.ConnectorConfig, error) {
	if verify {
		res := s.TestConnection(ctx, req)
		if !res.Success {
			logging.Warn("Manager", "Refusing to install %s: %s", req.Name, res.Message)
			return api.ConnectorConfig{}, &api.ValidationError{Field: "config", Reason: res.Message}
		}
	}
	return s.store.Upsert(ctx, req)
}

// InstallFromRegistry installs a catalog template under its own name.
func (s *Service) InstallFromRegistry(ctx context.Context, name string, verify bool) (api.ConnectorConfig, error) {
	entry, err := s.registry.Get(name)
	if err != nil {
		return api.ConnectorConfig{}, err
	}
	return s.Install(ctx, connector.InstallRequestFor(entry), verify)
}

// Uninstall removes a connector.
func (s *Service) Uninstall(ctx context.Context, name string) error {
	return s.store.Remove(ctx, name)
}

// SetActive enables or disables a connector for future turns.
func (s *Service) SetActive(ctx context.Context, name string, active bool) error {
	return s.store.SetActive(ctx, name, active)
}

// TestConnection probes raw operator input under the install-time deadline.
// It never fails; problems are described in the result.
func (s *Service) TestConnection(ctx context.Context, req api.InstallRequest) api.TestResult {
	return s.tester.Test(ctx, req, s.testTimeout)
}

// ListRegistry returns the catalog.
func (s *Service) ListRegistry() []api.RegistryEntry {
	return s.registry.Entries()
}
