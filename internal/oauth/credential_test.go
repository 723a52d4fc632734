package oauth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestCredential_JSONLayout(t *testing.T) {
	cred := Credential{
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    time.UnixMilli(1700000000123),
	}

	data, err := json.Marshal(cred)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accessToken":"at","refreshToken":"rt","expiresAt":1700000000123}`, string(data))

	var decoded Credential
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, cred.Equal(&decoded))
}

func TestCredential_NeedsRefresh(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		remaining time.Duration
		want      bool
	}{
		{name: "an hour left", remaining: time.Hour, want: false},
		{name: "just over skew", remaining: RefreshSkew + time.Millisecond, want: false},
		{name: "exactly skew", remaining: RefreshSkew, want: true},
		{name: "one minute left", remaining: time.Minute, want: true},
		{name: "expired", remaining: -time.Hour, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred := &Credential{AccessToken: "at", ExpiresAt: now.Add(tt.remaining)}
			assert.Equal(t, tt.want, cred.NeedsRefresh(now, RefreshSkew))
		})
	}
}

func TestCredential_ValidAt(t *testing.T) {
	now := time.Now()
	var nilCred *Credential

	assert.False(t, nilCred.ValidAt(now))
	assert.True(t, (&Credential{ExpiresAt: now.Add(time.Second)}).ValidAt(now))
	assert.False(t, (&Credential{ExpiresAt: now}).ValidAt(now))
}

func TestCredentialFromToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 500, time.UTC)

	tok := (&oauth2.Token{AccessToken: "new"}).WithExtra(map[string]interface{}{"expires_in": float64(3600)})
	cred := credentialFromToken(tok, "previous", now)

	assert.Equal(t, "new", cred.AccessToken)
	assert.Equal(t, "previous", cred.RefreshToken)
	assert.True(t, cred.ExpiresAt.Equal(now.Add(time.Hour).Truncate(time.Millisecond)))

	tok = &oauth2.Token{AccessToken: "new", RefreshToken: "rotated"}
	cred = credentialFromToken(tok, "previous", now)
	assert.Equal(t, "rotated", cred.RefreshToken)
	assert.True(t, cred.ExpiresAt.Equal(now.Add(DefaultTokenLifetime).Truncate(time.Millisecond)))
}

func TestCredential_Redaction(t *testing.T) {
	cred := &Credential{AccessToken: "secret-access", RefreshToken: "secret-refresh", ExpiresAt: time.Now()}

	assert.NotContains(t, fmt.Sprint(cred), "secret")

	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("token", "credential", cred)
	assert.NotContains(t, buf.String(), "secret")
	assert.Contains(t, buf.String(), "has_refresh_token=true")
}

func TestCredential_Equal(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	a := &Credential{AccessToken: "a", RefreshToken: "r", ExpiresAt: at}
	b := &Credential{AccessToken: "a", RefreshToken: "r", ExpiresAt: at.UTC()}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.False(t, a.Equal(&Credential{AccessToken: "b", RefreshToken: "r", ExpiresAt: at}))
}
