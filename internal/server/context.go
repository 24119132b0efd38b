package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/pulumi/events-mcp/internal/auth"
	"github.com/pulumi/events-mcp/internal/config"
	"github.com/pulumi/events-mcp/internal/instrumentation"
	"github.com/pulumi/events-mcp/internal/luma"
	"github.com/pulumi/events-mcp/internal/meetup"
	"github.com/pulumi/events-mcp/internal/provider"
)

// DefaultHTTPTimeout bounds every outbound platform API call.
const DefaultHTTPTimeout = 30 * time.Second

// ServerContext holds the shared dependencies for the MCP server.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	settings   *config.Settings
	logger     *slog.Logger
	httpClient *http.Client

	tokenStore *auth.TokenStore
	registry   *provider.Registry
	meetup     *meetup.Provider
	luma       *luma.Provider

	metrics *instrumentation.Metrics

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a server context with both platform providers
// registered. Missing credentials do not fail construction; they surface
// on first use of the affected platform.
func NewServerContext(ctx context.Context, settings *config.Settings, logger *slog.Logger) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	httpClient := &http.Client{Timeout: DefaultHTTPTimeout}
	tokenStore := auth.NewTokenStore(settings, httpClient, logger)

	meetupClient := meetup.NewClient(httpClient, tokenStore, settings, logger)
	meetupProvider := meetup.NewProvider(meetupClient, settings, logger)

	lumaClient := luma.NewClient(httpClient, settings)
	lumaProvider := luma.NewProvider(lumaClient)

	registry := provider.NewRegistry()
	registry.Register(meetupProvider)
	registry.Register(lumaProvider)

	return &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		settings:   settings,
		logger:     logger,
		httpClient: httpClient,
		tokenStore: tokenStore,
		registry:   registry,
		meetup:     meetupProvider,
		luma:       lumaProvider,
	}, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Settings returns the runtime configuration.
func (sc *ServerContext) Settings() *config.Settings {
	return sc.settings
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// HTTPClient returns the shared HTTP client used for platform API calls.
func (sc *ServerContext) HTTPClient() *http.Client {
	return sc.httpClient
}

// TokenStore returns the Meetup OAuth token store.
func (sc *ServerContext) TokenStore() *auth.TokenStore {
	return sc.tokenStore
}

// Registry returns the platform provider registry.
func (sc *ServerContext) Registry() *provider.Registry {
	return sc.registry
}

// Meetup returns the Meetup provider.
func (sc *ServerContext) Meetup() *meetup.Provider {
	return sc.meetup
}

// Luma returns the Luma provider.
func (sc *ServerContext) Luma() *luma.Provider {
	return sc.luma
}

// SetMetrics attaches a metrics recorder. May be left unset when
// instrumentation is disabled.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
