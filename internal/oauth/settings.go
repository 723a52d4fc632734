package oauth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

const (
	// DefaultPort is the default port for the local OAuth callback server.
	DefaultPort = 3000

	// DefaultAuthURL is the Swit authorization endpoint.
	DefaultAuthURL = "https://openapi.swit.io/oauth/authorize"

	// DefaultTokenURL is the Swit token endpoint.
	DefaultTokenURL = "https://openapi.swit.io/oauth/token"
)

// DefaultScopes returns the scopes requested when none are configured.
func DefaultScopes() []string {
	return []string{
		"workspace:read",
		"channel:read",
		"message:write",
		"message:read",
		"project:read",
	}
}

// Settings is the static OAuth client configuration. Values are validated by
// NewSettings and never mutated afterwards; the With* methods return copies.
type Settings struct {
	clientID     string
	clientSecret string
	port         int
	scopes       []string
	authURL      string
	tokenURL     string
}

// NewSettings validates and builds Settings. A nil scopes slice selects DefaultScopes.
func NewSettings(clientID, clientSecret string, port int, scopes []string) (Settings, error) {
	if len(scopes) == 0 {
		scopes = DefaultScopes()
	}
	s := Settings{
		clientID:     clientID,
		clientSecret: clientSecret,
		port:         port,
		scopes:       append([]string(nil), scopes...),
		authURL:      DefaultAuthURL,
		tokenURL:     DefaultTokenURL,
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the client credentials and port range.
func (s Settings) Validate() error {
	if s.clientID == "" {
		return errors.New("OAuth client ID is required")
	}
	if s.clientSecret == "" {
		return errors.New("OAuth client secret is required")
	}
	if s.port <= 0 || s.port > 65535 {
		return fmt.Errorf("OAuth port must be between 1 and 65535, got %d", s.port)
	}
	return nil
}

// ClientID returns the OAuth client identifier.
func (s Settings) ClientID() string { return s.clientID }

// Port returns the callback port.
func (s Settings) Port() int { return s.port }

// Scopes returns a copy of the requested scopes.
func (s Settings) Scopes() []string { return append([]string(nil), s.scopes...) }

// AuthURL returns the provider authorization endpoint.
func (s Settings) AuthURL() string { return s.authURL }

// TokenURL returns the provider token endpoint.
func (s Settings) TokenURL() string { return s.tokenURL }

// RedirectURI is the callback URL registered with the provider.
func (s Settings) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.port)
}

// ScopeString joins the scopes with a single space.
func (s Settings) ScopeString() string {
	return strings.Join(s.scopes, " ")
}

// WithPort returns a copy using a different callback port.
func (s Settings) WithPort(port int) (Settings, error) {
	out := s.clone()
	out.port = port
	if err := out.Validate(); err != nil {
		return Settings{}, err
	}
	return out, nil
}

// WithScopes returns a copy requesting different scopes.
func (s Settings) WithScopes(scopes []string) (Settings, error) {
	if len(scopes) == 0 {
		return Settings{}, errors.New("at least one OAuth scope is required")
	}
	out := s.clone()
	out.scopes = append([]string(nil), scopes...)
	return out, nil
}

// WithEndpoints returns a copy pointing at different provider endpoints.
// Empty values keep the current endpoint.
func (s Settings) WithEndpoints(authURL, tokenURL string) Settings {
	out := s.clone()
	if authURL != "" {
		out.authURL = authURL
	}
	if tokenURL != "" {
		out.tokenURL = tokenURL
	}
	return out
}

func (s Settings) clone() Settings {
	out := s
	out.scopes = append([]string(nil), s.scopes...)
	return out
}

// oauth2Config builds the x/oauth2 client configuration. Client credentials
// are sent in the request body.
func (s Settings) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		RedirectURL:  s.RedirectURI(),
		Scopes:       s.Scopes(),
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.authURL,
			TokenURL:  s.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}
