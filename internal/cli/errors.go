package cli

import (
	"fmt"
	"time"
)

// AuthRequiredError indicates no stored credential is available.
// Implements error with actionable guidance.
type AuthRequiredError struct {
	// TokenFile is where the credential was looked up.
	TokenFile string
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf(`Authentication required (no token in %s)

To authenticate, run:
  swit-mcp auth login`, e.TokenFile)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthRequiredError) Is(target error) bool {
	_, ok := target.(*AuthRequiredError)
	return ok
}

// AuthExpiredError indicates the stored access token has expired.
type AuthExpiredError struct {
	ExpiredAt time.Time
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf(`Authentication expired at %s

The server refreshes expired tokens automatically when a refresh token is
stored. To sign in again, run:
  swit-mcp auth login`, e.ExpiredAt.Format(time.RFC3339))
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthExpiredError) Is(target error) bool {
	_, ok := target.(*AuthExpiredError)
	return ok
}

// AuthFailedError indicates the OAuth flow failed.
type AuthFailedError struct {
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthFailedError) Error() string {
	return fmt.Sprintf(`Authentication failed: %v

To retry authentication, run:
  swit-mcp auth login`, e.Reason)
}

// Unwrap returns the underlying error.
func (e *AuthFailedError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthFailedError) Is(target error) bool {
	_, ok := target.(*AuthFailedError)
	return ok
}
