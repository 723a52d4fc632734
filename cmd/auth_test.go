package cmd

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swit-mcp/internal/cli"
	"swit-mcp/internal/config"
	"swit-mcp/internal/oauth"
	"swit-mcp/internal/testing/mock"
)

var statusNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testAuthConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.ClientID = "client-id"
	cfg.ClientSecret = "client-secret"
	cfg.TokenFile = filepath.Join(t.TempDir(), "token.json")
	return &cfg
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	c.SetErr(io.Discard)
	return c, &buf
}

func withStatusFlags(t *testing.T, check bool) {
	t.Helper()
	prevCheck, prevNow, prevQuiet := statusCheck, now, authQuiet
	statusCheck = check
	now = func() time.Time { return statusNow }
	authQuiet = false
	t.Cleanup(func() {
		statusCheck, now, authQuiet = prevCheck, prevNow, prevQuiet
	})
}

func TestShowStatus_NoToken(t *testing.T) {
	withStatusFlags(t, false)
	cfg := testAuthConfig(t)

	c, out := newTestCommand()
	require.NoError(t, showStatus(c, cfg))

	assert.Contains(t, out.String(), "Not authenticated")
	assert.Contains(t, out.String(), cfg.TokenFile)
	assert.Contains(t, out.String(), "http://localhost:3000/callback")
}

func TestShowStatus_Check(t *testing.T) {
	tests := []struct {
		name     string
		cred     *oauth.Credential
		wantErr  error
		wantText string
	}{
		{
			name:     "missing token",
			wantErr:  &cli.AuthRequiredError{},
			wantText: "Not authenticated",
		},
		{
			name:     "expired token",
			cred:     &oauth.Credential{AccessToken: "a", ExpiresAt: statusNow.Add(-time.Hour)},
			wantErr:  &cli.AuthExpiredError{},
			wantText: "Expired",
		},
		{
			name:     "valid token",
			cred:     &oauth.Credential{AccessToken: "a", RefreshToken: "r", ExpiresAt: statusNow.Add(time.Hour)},
			wantText: "Authenticated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withStatusFlags(t, true)
			cfg := testAuthConfig(t)
			if tt.cred != nil {
				require.NoError(t, cfg.TokenStore().Save(tt.cred))
			}

			c, out := newTestCommand()
			err := showStatus(c, cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), tt.wantText)
			assert.NotContains(t, out.String(), "Bearer")
		})
	}
}

func TestShowStatus_NeverPrintsTokens(t *testing.T) {
	withStatusFlags(t, false)
	cfg := testAuthConfig(t)
	require.NoError(t, cfg.TokenStore().Save(&oauth.Credential{
		AccessToken:  "secret-access-token",
		RefreshToken: "secret-refresh-token",
		ExpiresAt:    statusNow.Add(time.Hour),
	}))

	c, out := newTestCommand()
	require.NoError(t, showStatus(c, cfg))

	assert.NotContains(t, out.String(), "secret-access-token")
	assert.NotContains(t, out.String(), "secret-refresh-token")
	assert.Contains(t, out.String(), "in 1h")
}

func TestNewCoordinator_RequiresOAuth(t *testing.T) {
	cfg := testAuthConfig(t)
	cfg.ClientSecret = ""

	_, err := newCoordinator(cfg)
	assert.ErrorContains(t, err, "OAuth is not configured")

	cfg.ClientSecret = "client-secret"
	coordinator, err := newCoordinator(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.TokenFile, coordinator.Store().Path())
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

type loginFixture struct {
	srv         *mock.SwitServer
	cfg         *config.Config
	coordinator *oauth.Coordinator
	server      *oauth.CallbackServer
}

func newLoginFixture(t *testing.T) *loginFixture {
	t.Helper()

	srv := mock.NewSwitServer(mock.SwitServerConfig{ClientID: "client-id", ClientSecret: "client-secret"})
	t.Cleanup(srv.Close)

	cfg := testAuthConfig(t)
	cfg.OAuthPort = freePort(t)

	settings, err := cfg.OAuthSettings()
	require.NoError(t, err)
	settings = settings.WithEndpoints(srv.AuthURL(), srv.TokenURL())

	coordinator := oauth.NewCoordinator(settings, cfg.TokenStore())
	return &loginFixture{
		srv:         srv,
		cfg:         cfg,
		coordinator: coordinator,
		server:      oauth.NewCallbackServer(settings, coordinator),
	}
}

// followInBackground stands in for the browser: it opens the authorization
// URL, follows the redirect and lands on the local callback.
func followInBackground(t *testing.T) {
	t.Helper()
	prev := openBrowser
	openBrowser = func(authURL string) error {
		go func() {
			time.Sleep(100 * time.Millisecond)
			resp, err := http.Get(authURL)
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
	t.Cleanup(func() { openBrowser = prev })
}

func TestLogin_CompletesThroughCallback(t *testing.T) {
	f := newLoginFixture(t)
	followInBackground(t)

	c, out := newTestCommand()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, login(ctx, c, f.cfg, f.coordinator, f.server))

	assert.True(t, f.coordinator.IsTokenValid())
	assert.True(t, f.cfg.TokenStore().Exists())
	assert.Equal(t, 1, f.srv.ExchangeCalls())
	assert.Contains(t, out.String(), "Token stored in "+f.cfg.TokenFile)
}

func TestLogin_SkipsWhenAlreadyAuthenticated(t *testing.T) {
	f := newLoginFixture(t)
	require.NoError(t, f.cfg.TokenStore().Save(&oauth.Credential{AccessToken: "a", ExpiresAt: time.Now().Add(time.Hour)}))
	f.coordinator.Reload()

	browserOpened := false
	prev := openBrowser
	openBrowser = func(string) error { browserOpened = true; return nil }
	t.Cleanup(func() { openBrowser = prev })

	c, out := newTestCommand()
	require.NoError(t, login(context.Background(), c, f.cfg, f.coordinator, f.server))

	assert.False(t, browserOpened)
	assert.Contains(t, out.String(), "Already authenticated")
	assert.Zero(t, f.srv.ExchangeCalls())
}

func TestLogin_PortInUse(t *testing.T) {
	f := newLoginFixture(t)

	l, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(f.cfg.OAuthPort)))
	require.NoError(t, err)
	defer l.Close()

	c, _ := newTestCommand()
	err = login(context.Background(), c, f.cfg, f.coordinator, f.server)

	var portErr *oauth.PortInUseError
	require.ErrorAs(t, err, &portErr)
	assert.Contains(t, err.Error(), "swit-oauth-start")
}

func TestLogin_ProviderDenied(t *testing.T) {
	f := newLoginFixture(t)

	prev := openBrowser
	openBrowser = func(string) error {
		go func() {
			time.Sleep(100 * time.Millisecond)
			resp, err := http.Get(f.server.URL() + "/callback?error=access_denied")
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
	t.Cleanup(func() { openBrowser = prev })

	c, _ := newTestCommand()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := login(ctx, c, f.cfg, f.coordinator, f.server)
	assert.ErrorIs(t, err, &cli.AuthFailedError{})
	assert.Equal(t, ExitCodeAuthFailed, getExitCode(err))
	assert.False(t, f.cfg.TokenStore().Exists())
}
