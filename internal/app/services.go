package app

import (
	"context"
	"errors"
	"fmt"

	"swit-mcp/internal/metrics"
	"swit-mcp/internal/oauth"
	"swit-mcp/internal/swit"
	"swit-mcp/internal/tools"
	"swit-mcp/pkg/logging"
)

// Services holds the long-lived components of a running server.
//
// Coordinator, CallbackServer and TokenWatcher are nil when OAuth is not
// configured or could not be started; Client then authenticates with the
// static API token.
type Services struct {
	Metrics        *metrics.Recorder
	Coordinator    *oauth.Coordinator
	CallbackServer *oauth.CallbackServer
	TokenWatcher   *oauth.TokenWatcher
	Client         *swit.Client
	Tools          *tools.Server

	baseURL string
	version string
}

// InitializeServices builds the services described by cfg. OAuth setup
// problems are logged and result in the static token fallback.
func InitializeServices(cfg *Config) (*Services, error) {
	recorder, err := metrics.New()
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	s := &Services{
		Metrics: recorder,
		baseURL: cfg.SwitConfig.APIBaseURL,
		version: cfg.Version,
	}

	settings, err := cfg.SwitConfig.OAuthSettings()
	if err != nil {
		logging.Warn("Bootstrap", "OAuth is not configured: %v", err)
		s.useStaticToken()
		return s, nil
	}

	s.Coordinator = oauth.NewCoordinator(settings, cfg.SwitConfig.TokenStore(), oauth.WithMetrics(recorder))
	s.CallbackServer = oauth.NewCallbackServer(settings, s.Coordinator, oauth.WithMetricsHandler(recorder.Handler()))
	s.TokenWatcher = oauth.NewTokenWatcher(s.Coordinator)
	s.Client = s.newClient(swit.WithTokenProvider(s.Coordinator))
	return s, nil
}

// Start binds the OAuth callback server and builds the tool server. A port
// conflict switches to the static token fallback instead of failing.
func (s *Services) Start(ctx context.Context) error {
	if s.CallbackServer != nil {
		if err := s.CallbackServer.Start(ctx); err != nil {
			var portErr *oauth.PortInUseError
			if !errors.As(err, &portErr) {
				return err
			}
			logging.Error("Bootstrap", err, "OAuth initialization failed")
			s.useStaticToken()
		} else if !s.Coordinator.IsTokenValid() {
			logging.Info("Bootstrap", "OAuth authentication required, open %s in a browser to sign in", s.CallbackServer.URL())
		}
	}

	var ctl tools.OAuthController
	if s.CallbackServer != nil {
		ctl = s.CallbackServer
	}
	s.Tools = tools.NewServer(s.Client, ctl, s.version)
	return nil
}

// Stop shuts down the callback server if it is running.
func (s *Services) Stop(ctx context.Context) error {
	if s.CallbackServer == nil {
		return nil
	}
	return s.CallbackServer.Shutdown(ctx)
}

func (s *Services) useStaticToken() {
	logging.Info("Bootstrap", "Falling back to SWIT_API_TOKEN environment variable")
	s.Coordinator = nil
	s.CallbackServer = nil
	s.TokenWatcher = nil
	s.Client = s.newClient()
}

func (s *Services) newClient(opts ...swit.Option) *swit.Client {
	base := []swit.Option{swit.WithBaseURL(s.baseURL), swit.WithMetrics(s.Metrics)}
	return swit.NewClient(append(base, opts...)...)
}
