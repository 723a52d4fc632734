package oauth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"swit-mcp/internal/metrics"
	"swit-mcp/pkg/logging"
)

// RefreshSkew is how long before expiry AccessToken refreshes proactively.
const RefreshSkew = 5 * time.Minute

// DefaultHTTPTimeout bounds token endpoint requests.
const DefaultHTTPTimeout = 30 * time.Second

// Clock supplies the current time. Tests substitute a controllable clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithHTTPClient overrides the client used for token endpoint requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Coordinator) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics records token operations on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Coordinator) {
		c.metrics = r
	}
}

// Coordinator owns the process's single OAuth credential.
//
// State moves between no token, valid, and refreshing. ExchangeCode and
// Refresh install a new credential and persist it; Logout removes both the
// in-memory and the persisted copy.
type Coordinator struct {
	settings   Settings
	config     *oauth2.Config
	store      *TokenStore
	clock      Clock
	httpClient *http.Client
	metrics    *metrics.Recorder

	mu   sync.RWMutex
	cred *Credential

	refreshGroup singleflight.Group
}

// NewCoordinator creates a Coordinator and adopts any credential already
// saved in store. A missing or unreadable file leaves it unauthenticated.
func NewCoordinator(settings Settings, store *TokenStore, opts ...Option) *Coordinator {
	if store == nil {
		store = NewTokenStore("")
	}

	c := &Coordinator{
		settings:   settings,
		config:     settings.oauth2Config(),
		store:      store,
		clock:      systemClock{},
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if cred, ok := store.Load(); ok {
		c.cred = cred
		logging.Info("OAuth", "Loaded saved OAuth token from %s", store.Path())
	}

	return c
}

// Settings returns the OAuth client configuration.
func (c *Coordinator) Settings() Settings {
	return c.settings
}

// Store returns the token store backing this coordinator.
func (c *Coordinator) Store() *TokenStore {
	return c.store
}

// AuthorizationURL builds the provider authorization URL. It has no side effects.
func (c *Coordinator) AuthorizationURL() string {
	return c.config.AuthCodeURL("")
}

// ExchangeCode trades an authorization code for a credential, installs it and
// persists it. On failure the current credential is left unchanged.
func (c *Coordinator) ExchangeCode(ctx context.Context, code string) (*Credential, error) {
	tok, err := c.config.Exchange(c.oauthContext(ctx), code)
	c.metrics.ObserveTokenOperation(metrics.OperationExchange, err)
	if err != nil {
		exErr := &ExchangeError{ProviderError: newProviderError(err)}
		logging.Error("OAuth", exErr, "Authorization code exchange failed")
		logging.Audit(logging.AuditEvent{Action: "token_exchange", Outcome: "failure", Details: exErr.detail()})
		return nil, exErr
	}

	cred := credentialFromToken(tok, "", c.clock.Now())
	c.install(cred)

	logging.Info("OAuth", "OAuth token exchange successful")
	logging.Audit(logging.AuditEvent{Action: "token_exchange", Outcome: "success"})
	return cred.Clone(), nil
}

// AccessToken returns an access token valid for at least RefreshSkew,
// refreshing first when the held token is closer to expiry.
func (c *Coordinator) AccessToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	cred := c.cred
	c.mu.RUnlock()

	if cred == nil {
		return "", ErrNotAuthenticated
	}
	if !cred.NeedsRefresh(c.clock.Now(), RefreshSkew) {
		return cred.AccessToken, nil
	}

	logging.Debug("OAuth", "Access token expires at %s, refreshing", cred.ExpiresAt.Format(time.RFC3339))
	if err := c.Refresh(ctx); err != nil {
		return "", err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cred == nil {
		return "", ErrNotAuthenticated
	}
	return c.cred.AccessToken, nil
}

// Refresh obtains a new access token with the held refresh token. Concurrent
// callers share one token request. On failure the previous credential stays
// in place.
func (c *Coordinator) Refresh(ctx context.Context) error {
	_, err, shared := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		return nil, c.refresh(ctx)
	})
	if shared {
		logging.Debug("OAuth", "Joined in-flight token refresh")
	}
	return err
}

func (c *Coordinator) refresh(ctx context.Context) error {
	c.mu.RLock()
	cred := c.cred
	c.mu.RUnlock()

	if cred == nil || cred.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	src := c.config.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: cred.RefreshToken})
	tok, err := src.Token()
	c.metrics.ObserveTokenOperation(metrics.OperationRefresh, err)
	if err != nil {
		refErr := &RefreshError{ProviderError: newProviderError(err)}
		logging.Error("OAuth", refErr, "Token refresh failed")
		logging.Audit(logging.AuditEvent{Action: "token_refresh", Outcome: "failure", Details: refErr.detail()})
		return refErr
	}

	c.install(credentialFromToken(tok, cred.RefreshToken, c.clock.Now()))

	logging.Info("OAuth", "OAuth token refresh successful")
	logging.Audit(logging.AuditEvent{Action: "token_refresh", Outcome: "success"})
	return nil
}

// install replaces the in-memory credential and persists it. A persist
// failure is logged; the credential remains usable for this process.
func (c *Coordinator) install(cred *Credential) {
	c.mu.Lock()
	c.cred = cred
	c.mu.Unlock()

	if err := c.store.Save(cred); err != nil {
		logging.Error("OAuth", err, "Failed to persist OAuth token")
	}
}

// IsTokenValid reports whether a credential is held and has not expired.
// Unlike AccessToken it applies no safety margin.
func (c *Coordinator) IsTokenValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cred.ValidAt(c.clock.Now())
}

// HasCredential reports whether any credential is held, expired or not.
func (c *Coordinator) HasCredential() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cred != nil
}

// Credential returns a copy of the held credential, or nil.
func (c *Coordinator) Credential() *Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cred.Clone()
}

// Reload re-reads the token file and adopts its contents. A missing file
// clears the in-memory credential.
func (c *Coordinator) Reload() {
	cred, ok := c.store.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !ok {
		if c.cred != nil {
			logging.Info("OAuth", "Token file removed, clearing in-memory credential")
		}
		c.cred = nil
		return
	}
	if !cred.Equal(c.cred) {
		logging.Info("OAuth", "Adopted OAuth token from %s", c.store.Path())
	}
	c.cred = cred
}

// Logout forgets the credential and deletes the token file. Calling it
// repeatedly is harmless.
func (c *Coordinator) Logout() {
	c.mu.Lock()
	c.cred = nil
	c.mu.Unlock()

	c.store.Clear()
	c.metrics.ObserveTokenOperation(metrics.OperationLogout, nil)

	logging.Info("OAuth", "OAuth logout completed")
	logging.Audit(logging.AuditEvent{Action: "logout", Outcome: "success"})
}

func (c *Coordinator) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
