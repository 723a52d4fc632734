package oauth

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTokenLifetime is assumed when the provider omits expires_in.
const DefaultTokenLifetime = time.Hour

// Credential is the single OAuth token record held by the Coordinator.
// ExpiresAt is absolute and kept at millisecond precision, matching the
// on-disk format.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// credentialFile is the JSON layout of the token file.
type credentialFile struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"` // epoch milliseconds
}

// MarshalJSON writes the token file layout.
func (c Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(credentialFile{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		ExpiresAt:    c.ExpiresAt.UnixMilli(),
	})
}

// UnmarshalJSON reads the token file layout.
func (c *Credential) UnmarshalJSON(data []byte) error {
	var f credentialFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	c.AccessToken = f.AccessToken
	c.RefreshToken = f.RefreshToken
	c.ExpiresAt = time.UnixMilli(f.ExpiresAt)
	return nil
}

// Equal reports whether both credentials carry the same tokens and expiry instant.
func (c *Credential) Equal(other *Credential) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.AccessToken == other.AccessToken &&
		c.RefreshToken == other.RefreshToken &&
		c.ExpiresAt.Equal(other.ExpiresAt)
}

// Clone returns a copy safe to hand out to callers.
func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// ValidAt reports whether the access token has not yet expired at now.
func (c *Credential) ValidAt(now time.Time) bool {
	return c != nil && c.ExpiresAt.After(now)
}

// NeedsRefresh reports whether the token expires within skew of now.
func (c *Credential) NeedsRefresh(now time.Time, skew time.Duration) bool {
	return c.ExpiresAt.Sub(now) <= skew
}

// Token converts the credential for use with x/oauth2.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.ExpiresAt,
	}
}

// String keeps token values out of fmt output.
func (c *Credential) String() string {
	if c == nil {
		return "<nil>"
	}
	return "Credential{[REDACTED], expiresAt=" + c.ExpiresAt.Format(time.RFC3339) + "}"
}

// LogValue keeps token values out of slog output.
func (c *Credential) LogValue() slog.Value {
	if c == nil {
		return slog.StringValue("<nil>")
	}
	return slog.GroupValue(
		slog.Time("expires_at", c.ExpiresAt),
		slog.Bool("has_refresh_token", c.RefreshToken != ""),
	)
}

// credentialFromToken builds a Credential from a token endpoint response
// received at now. previousRefresh is kept when the response has no refresh token.
func credentialFromToken(tok *oauth2.Token, previousRefresh string, now time.Time) *Credential {
	var expiresAt time.Time
	switch lifetime := expiresIn(tok); {
	case lifetime > 0:
		expiresAt = now.Add(time.Duration(lifetime) * time.Second)
	case !tok.Expiry.IsZero():
		expiresAt = tok.Expiry
	default:
		expiresAt = now.Add(DefaultTokenLifetime)
	}

	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}

	return &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt.Truncate(time.Millisecond),
	}
}

// expiresIn returns the provider-declared lifetime in seconds, or 0.
func expiresIn(tok *oauth2.Token) int64 {
	if tok.ExpiresIn > 0 {
		return tok.ExpiresIn
	}
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}
