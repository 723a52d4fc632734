package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"swit-mcp/pkg/logging"
)

// CallbackTimeout is how long interactive logins wait for the OAuth callback.
const CallbackTimeout = 10 * time.Minute

// exchangeTimeout bounds the code exchange triggered by a callback.
const exchangeTimeout = 30 * time.Second

// CallbackOption configures a CallbackServer.
type CallbackOption func(*CallbackServer)

// WithListenAddr overrides the bind address (default 127.0.0.1:<port>).
// Tests use "127.0.0.1:0".
func WithListenAddr(addr string) CallbackOption {
	return func(s *CallbackServer) {
		s.addr = addr
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) CallbackOption {
	return func(s *CallbackServer) {
		s.metricsHandler = h
	}
}

// StatusResponse is the JSON body served at /status.
type StatusResponse struct {
	Authenticated bool     `json:"authenticated"`
	Message       string   `json:"message"`
	Port          int      `json:"port"`
	RedirectURI   string   `json:"redirectUri"`
	Scopes        []string `json:"scopes"`
}

// CallbackServer is the local HTTP listener that terminates the provider
// redirect and completes the code exchange through the Coordinator.
//
// At most one authorization is pending at a time: concurrent
// WaitForAuthentication calls share it, and the /callback handler settles it.
type CallbackServer struct {
	settings       Settings
	coordinator    *Coordinator
	addr           string
	metricsHandler http.Handler

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	pending  *pendingAuth
}

// NewCallbackServer creates a server for settings. It does not bind until Start.
func NewCallbackServer(settings Settings, coordinator *Coordinator, opts ...CallbackOption) *CallbackServer {
	s := &CallbackServer{
		settings:    settings,
		coordinator: coordinator,
		addr:        fmt.Sprintf("127.0.0.1:%d", settings.Port()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the listener and serves in the background. A port already in
// use is reported as *PortInUseError.
func (s *CallbackServer) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return nil
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return &PortInUseError{Port: s.settings.Port(), Err: err}
		}
		return fmt.Errorf("failed to start callback server on %s: %w", s.addr, err)
	}

	server := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.listener = listener
	s.server = server

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("CallbackServer", err, "OAuth callback server stopped unexpectedly")
		}
	}()

	logging.Info("CallbackServer", "OAuth web server started at %s", s.URL())
	return nil
}

// Routes returns the HTTP handler; exposed for tests.
func (s *CallbackServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(securityHeaders)

	r.Get("/callback", s.handleCallback)
	r.Get("/status", s.handleStatus)
	r.Get("/", s.handleHome)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}
	return r
}

// Shutdown stops the listener and fails any pending authorization. It is safe
// to call before Start and more than once.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	pending := s.pending
	s.server = nil
	s.listener = nil
	s.pending = nil
	s.mu.Unlock()

	if pending != nil {
		pending.settle(nil, ErrCallbackServerStopped)
	}
	if server == nil {
		return nil
	}

	logging.Info("CallbackServer", "OAuth web server stopped")
	return server.Shutdown(ctx)
}

// URL returns the server base URL using the bound port.
func (s *CallbackServer) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	port := s.settings.Port()
	if s.listener != nil {
		port = s.listener.Addr().(*net.TCPAddr).Port
	}
	return fmt.Sprintf("http://localhost:%d", port)
}

// AuthorizationURL returns the provider URL the user should open.
func (s *CallbackServer) AuthorizationURL() string {
	return s.coordinator.AuthorizationURL()
}

// IsAuthenticated reports whether the coordinator holds an unexpired token.
func (s *CallbackServer) IsAuthenticated() bool {
	return s.coordinator.IsTokenValid()
}

// Logout discards the stored credential.
func (s *CallbackServer) Logout() {
	s.coordinator.Logout()
}

// Coordinator returns the coordinator driven by this server.
func (s *CallbackServer) Coordinator() *Coordinator {
	return s.coordinator
}

// WaitForAuthentication blocks until the pending authorization is settled by
// the callback handler or ctx is done. Concurrent callers share the same
// pending authorization.
func (s *CallbackServer) WaitForAuthentication(ctx context.Context) (*Credential, error) {
	s.mu.Lock()
	if s.pending == nil {
		s.pending = newPendingAuth()
	}
	pending := s.pending
	s.mu.Unlock()

	return pending.wait(ctx)
}

// settle resolves and clears the pending authorization, if any.
func (s *CallbackServer) settle(cred *Credential, err error) {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending != nil {
		pending.settle(cred, err)
	}
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if code := query.Get("error"); code != "" {
		err := &AuthorizationError{Code: code, Description: query.Get("error_description")}
		logging.Warn("CallbackServer", "Provider returned an authorization error: %s", code)
		s.settle(nil, err)
		s.renderError(w, err)
		return
	}

	code := query.Get("code")
	if code == "" {
		logging.Warn("CallbackServer", "OAuth callback without authorization code")
		s.settle(nil, ErrMissingCode)
		s.renderError(w, ErrMissingCode)
		return
	}

	logging.Info("CallbackServer", "OAuth authorization code received, exchanging for token")

	// The exchange outlives a client that disconnects early.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), exchangeTimeout)
	defer cancel()

	cred, err := s.coordinator.ExchangeCode(ctx, code)
	if err != nil {
		s.settle(nil, err)
		s.renderError(w, err)
		return
	}

	s.settle(cred, nil)
	s.render(w, http.StatusOK, "success.html", nil)
}

func (s *CallbackServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	authenticated := s.coordinator.IsTokenValid()
	message := "Authentication required"
	if authenticated {
		message = "Authenticated"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(StatusResponse{
		Authenticated: authenticated,
		Message:       message,
		Port:          s.settings.Port(),
		RedirectURI:   s.settings.RedirectURI(),
		Scopes:        s.settings.Scopes(),
	})
}

func (s *CallbackServer) handleHome(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "home.html", homePage{
		Authenticated: s.coordinator.IsTokenValid(),
		AuthURL:       s.coordinator.AuthorizationURL(),
		Port:          s.settings.Port(),
		RedirectURI:   s.settings.RedirectURI(),
		Scopes:        s.settings.Scopes(),
	})
}

func (s *CallbackServer) renderError(w http.ResponseWriter, err error) {
	page := errorPage{Message: "OAuth authentication failed"}
	var authErr *AuthorizationError
	var exErr *ExchangeError
	switch {
	case errors.As(err, &authErr):
		page.Detail = authErr.Error()
	case errors.As(err, &exErr):
		page.Message = "Token exchange failed"
		page.Detail = exErr.Error()
	default:
		page.Detail = err.Error()
	}
	s.render(w, http.StatusBadRequest, "error.html", page)
}

func (s *CallbackServer) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		logging.Error("CallbackServer", err, "Failed to render %s", name)
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
