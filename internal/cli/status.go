package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"swit-mcp/internal/oauth"
)

// AuthStatus summarizes the stored credential for display.
type AuthStatus struct {
	TokenFile    string
	Credential   *oauth.Credential
	Scopes       []string
	RedirectURI  string
	OAuthEnabled bool
}

// State returns a short coloured description of the credential state at now.
func (s AuthStatus) State(now time.Time) string {
	switch {
	case !s.OAuthEnabled:
		return text.FgYellow.Sprint("OAuth not configured")
	case s.Credential == nil:
		return text.FgRed.Sprint("Not authenticated")
	case s.Credential.ValidAt(now):
		return text.FgGreen.Sprint("Authenticated")
	case s.Credential.RefreshToken != "":
		return text.FgYellow.Sprint("Expired (refreshable)")
	default:
		return text.FgRed.Sprint("Expired")
	}
}

// RenderStatus writes a two-column status table to w.
func RenderStatus(w io.Writer, status AuthStatus, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false

	t.AppendRow(table.Row{text.Bold.Sprint("Status"), status.State(now)})
	t.AppendRow(table.Row{text.Bold.Sprint("Token file"), status.TokenFile})

	if status.Credential != nil {
		t.AppendRow(table.Row{text.Bold.Sprint("Expires"), FormatExpiry(status.Credential.ExpiresAt, now)})
		refresh := text.FgRed.Sprint("no")
		if status.Credential.RefreshToken != "" {
			refresh = text.FgGreen.Sprint("yes")
		}
		t.AppendRow(table.Row{text.Bold.Sprint("Refresh token"), refresh})
	}
	if status.OAuthEnabled {
		t.AppendRow(table.Row{text.Bold.Sprint("Redirect URI"), status.RedirectURI})
		t.AppendRow(table.Row{text.Bold.Sprint("Scopes"), strings.Join(status.Scopes, " ")})
	}

	t.Render()
}

// FormatExpiry renders expiresAt relative to now, e.g. "in 42m" or "expired 3h ago".
func FormatExpiry(expiresAt, now time.Time) string {
	if expiresAt.After(now) {
		return fmt.Sprintf("in %s (%s)", FormatDuration(expiresAt.Sub(now)), expiresAt.Local().Format(time.RFC3339))
	}
	return text.FgYellow.Sprintf("expired %s ago", FormatDuration(now.Sub(expiresAt)))
}

// FormatDuration renders d with at most two units.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	default:
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		if h == 0 {
			return fmt.Sprintf("%dd", days)
		}
		return fmt.Sprintf("%dd%dh", days, h)
	}
}
