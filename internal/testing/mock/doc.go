// Package mock provides test doubles for swit-mcp components.
//
// SwitServer is an in-process stand-in for the Swit platform: it serves the
// OAuth token endpoint (authorization_code and refresh_token grants) and the
// six REST endpoints used by the API client, records every request, and lets
// tests inject upstream failures.
//
//	srv := mock.NewSwitServer(mock.SwitServerConfig{})
//	defer srv.Close()
//	srv.AddAuthCode("abc123")
//
// MockClock lets tests move time forward to exercise token expiry without
// sleeping.
package mock
