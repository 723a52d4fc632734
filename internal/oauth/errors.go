package oauth

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

var (
	// ErrNotAuthenticated is returned when no credential is held.
	ErrNotAuthenticated = errors.New("no OAuth token available, please authenticate first")

	// ErrNoRefreshToken is returned when a refresh is needed but no refresh token is held.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrMissingCode is returned when the provider redirect carries neither code nor error.
	ErrMissingCode = errors.New("no authorization code received in OAuth callback")

	// ErrCallbackServerStopped settles a pending authorization when the server shuts down.
	ErrCallbackServerStopped = errors.New("OAuth callback server stopped")
)

// ProviderError carries the error detail reported by the Swit token endpoint.
type ProviderError struct {
	StatusCode  int
	Code        string
	Description string
	Err         error
}

func (e *ProviderError) detail() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	case e.Code != "":
		return e.Code
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

func newProviderError(err error) ProviderError {
	pe := ProviderError{Err: err}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		pe.Code = re.ErrorCode
		pe.Description = re.ErrorDescription
		if re.Response != nil {
			pe.StatusCode = re.Response.StatusCode
		}
	}
	return pe
}

// ExchangeError reports a failed authorization-code exchange.
type ExchangeError struct {
	ProviderError
}

func (e *ExchangeError) Error() string {
	return "OAuth token exchange failed: " + e.detail()
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// RefreshError reports a failed refresh. The previous credential is kept.
type RefreshError struct {
	ProviderError
}

func (e *RefreshError) Error() string {
	return "token refresh failed: " + e.detail()
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// AuthorizationError is the error indication sent back by the provider redirect.
type AuthorizationError struct {
	Code        string
	Description string
}

func (e *AuthorizationError) Error() string {
	if e.Description != "" {
		return "OAuth authorization failed: " + e.Description
	}
	return "OAuth authorization failed: " + e.Code
}

// PortInUseError is returned by CallbackServer.Start when the port is taken.
type PortInUseError struct {
	Port int
	Err  error
}

func (e *PortInUseError) Error() string {
	return fmt.Sprintf("port %d is already in use, please use a different port", e.Port)
}

func (e *PortInUseError) Unwrap() error {
	return e.Err
}
