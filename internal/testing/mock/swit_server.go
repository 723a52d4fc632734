package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"
)

// API paths served under APIBaseURL.
const (
	PathWorkspaceList        = "/api/workspace.list"
	PathChannelList          = "/api/channel.list"
	PathMessageCreate        = "/api/message.create"
	PathMessageCommentList   = "/api/message.comment.list"
	PathMessageCommentCreate = "/api/message.comment.create"
	PathProjectList          = "/api/project.list"
)

// SwitServerConfig configures the fake Swit provider.
type SwitServerConfig struct {
	// ClientID and ClientSecret are checked on the token endpoint when set.
	ClientID     string
	ClientSecret string

	// TokenLifetime is reported as expires_in (defaults to one hour).
	TokenLifetime time.Duration

	// OmitRefreshToken makes refresh responses leave out refresh_token.
	OmitRefreshToken bool

	// AcceptAnyToken disables the bearer token check on API endpoints.
	AcceptAnyToken bool
}

// RecordedRequest captures an API call received by the fake provider.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	Body          []byte
	Authorization string
	RequestID     string
}

type apiOverride struct {
	status int
	body   string
}

// SwitServer is an httptest-backed stand-in for the Swit OAuth and REST API.
type SwitServer struct {
	config SwitServerConfig
	server *httptest.Server

	mu            sync.Mutex
	authCodes     map[string]bool
	accessTokens  map[string]bool
	refreshTokens map[string]bool
	tokenCounter  int
	exchangeCalls int
	refreshCalls  int
	failRefresh   bool
	requests      []RecordedRequest
	overrides     map[string]apiOverride
	refreshDelay  time.Duration
}

// NewSwitServer starts a fake provider on a random local port.
func NewSwitServer(config SwitServerConfig) *SwitServer {
	if config.TokenLifetime == 0 {
		config.TokenLifetime = time.Hour
	}

	s := &SwitServer{
		config:        config,
		authCodes:     make(map[string]bool),
		accessTokens:  make(map[string]bool),
		refreshTokens: make(map[string]bool),
		overrides:     make(map[string]apiOverride),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/authorize", s.handleAuthorize)
	mux.HandleFunc("/oauth/token", s.handleToken)
	mux.HandleFunc("/v1/api/", s.handleAPI)

	s.server = httptest.NewServer(mux)
	return s
}

// Close shuts the server down.
func (s *SwitServer) Close() {
	s.server.Close()
}

// URL returns the server root.
func (s *SwitServer) URL() string {
	return s.server.URL
}

// AuthURL returns the authorization endpoint.
func (s *SwitServer) AuthURL() string {
	return s.server.URL + "/oauth/authorize"
}

// TokenURL returns the token endpoint.
func (s *SwitServer) TokenURL() string {
	return s.server.URL + "/oauth/token"
}

// APIBaseURL returns the REST base URL, equivalent to https://openapi.swit.io/v1.
func (s *SwitServer) APIBaseURL() string {
	return s.server.URL + "/v1"
}

// AddAuthCode registers a one-time authorization code.
func (s *SwitServer) AddAuthCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authCodes[code] = true
}

// AddAccessToken registers a bearer token the API endpoints accept.
func (s *SwitServer) AddAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTokens[token] = true
}

// AddRefreshToken registers a refresh token the token endpoint accepts.
func (s *SwitServer) AddRefreshToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens[token] = true
}

// SetFailRefresh makes every refresh_token grant fail with invalid_grant.
func (s *SwitServer) SetFailRefresh(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRefresh = fail
}

// SetRefreshDelay delays refresh responses, widening the window for concurrent callers.
func (s *SwitServer) SetRefreshDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

// SetAPIResponse overrides the status and raw body returned for an API path.
func (s *SwitServer) SetAPIResponse(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = apiOverride{status: status, body: body}
}

// ExchangeCalls reports how many authorization_code grants were received.
func (s *SwitServer) ExchangeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchangeCalls
}

// RefreshCalls reports how many refresh_token grants were received.
func (s *SwitServer) RefreshCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshCalls
}

// Requests returns a copy of the API calls received so far.
func (s *SwitServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent API call, or nil.
func (s *SwitServer) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	r := s.requests[len(s.requests)-1]
	return &r
}

func (s *SwitServer) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	redirectURI := r.URL.Query().Get("redirect_uri")
	if redirectURI == "" {
		http.Error(w, "missing redirect_uri", http.StatusBadRequest)
		return
	}

	code := generateCode("code")
	s.AddAuthCode(code)

	target, err := url.Parse(redirectURI)
	if err != nil {
		http.Error(w, "invalid redirect_uri", http.StatusBadRequest)
		return
	}
	q := target.Query()
	q.Set("code", code)
	target.RawQuery = q.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func (s *SwitServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if s.config.ClientID != "" && r.FormValue("client_id") != s.config.ClientID {
		tokenError(w, http.StatusUnauthorized, "invalid_client", "unknown client_id")
		return
	}
	if s.config.ClientSecret != "" && r.FormValue("client_secret") != s.config.ClientSecret {
		tokenError(w, http.StatusUnauthorized, "invalid_client", "client authentication failed")
		return
	}

	switch grantType := r.FormValue("grant_type"); grantType {
	case "authorization_code":
		s.handleAuthCodeExchange(w, r)
	case "refresh_token":
		s.handleRefreshToken(w, r)
	default:
		tokenError(w, http.StatusBadRequest, "unsupported_grant_type", fmt.Sprintf("grant_type %s not supported", grantType))
	}
}

func (s *SwitServer) handleAuthCodeExchange(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")

	s.mu.Lock()
	s.exchangeCalls++
	valid := s.authCodes[code]
	delete(s.authCodes, code)
	s.mu.Unlock()

	if !valid {
		tokenError(w, http.StatusBadRequest, "invalid_grant", "authorization code is invalid or expired")
		return
	}

	writeJSON(w, http.StatusOK, s.issueToken(true))
}

func (s *SwitServer) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.FormValue("refresh_token")

	s.mu.Lock()
	s.refreshCalls++
	fail := s.failRefresh
	valid := s.refreshTokens[refreshToken]
	delay := s.refreshDelay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if fail || !valid {
		tokenError(w, http.StatusBadRequest, "invalid_grant", "refresh token is invalid or expired")
		return
	}

	writeJSON(w, http.StatusOK, s.issueToken(!s.config.OmitRefreshToken))
}

func (s *SwitServer) issueToken(withRefresh bool) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokenCounter++
	access := fmt.Sprintf("access-%d-%s", s.tokenCounter, generateCode("at"))
	s.accessTokens[access] = true

	resp := map[string]any{
		"access_token": access,
		"token_type":   "Bearer",
		"expires_in":   int(s.config.TokenLifetime.Seconds()),
	}
	if withRefresh {
		refresh := fmt.Sprintf("refresh-%d-%s", s.tokenCounter, generateCode("rt"))
		s.refreshTokens[refresh] = true
		resp["refresh_token"] = refresh
	}
	return resp
}

func (s *SwitServer) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1")
	body, _ := io.ReadAll(r.Body)
	auth := r.Header.Get("Authorization")

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:        r.Method,
		Path:          path,
		Query:         r.URL.Query(),
		Body:          body,
		Authorization: auth,
		RequestID:     r.Header.Get("X-Request-ID"),
	})
	override, hasOverride := s.overrides[path]
	known := s.accessTokens[ExtractBearerToken(auth)]
	s.mu.Unlock()

	if !s.config.AcceptAnyToken && !known {
		writeJSON(w, http.StatusUnauthorized, apiErrorBody("UNAUTHORIZED", "invalid access token"))
		return
	}

	if hasOverride {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(override.status)
		_, _ = io.WriteString(w, override.body)
		return
	}

	switch path {
	case PathWorkspaceList:
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"workspaces": []map[string]any{{
				"id": "ws-1", "name": "Engineering", "domain": "eng", "color": "blue",
				"created": "2024-01-01T00:00:00Z", "admin_ids": []string{"u-1"}, "master_id": "u-1",
			}},
		}})
	case PathChannelList:
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"channels": []map[string]any{{
				"id": "ch-1", "name": "general", "type": "public", "created": "2024-01-01T00:00:00Z",
				"is_archived": false, "is_member": true, "is_private": false, "is_starred": false,
				"is_prev_chat_visible": true, "host_id": "u-1",
			}},
			"offset": "next-page",
		}})
	case PathMessageCreate:
		var in map[string]any
		_ = json.Unmarshal(body, &in)
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"message": map[string]any{
				"message_id": "msg-1", "channel_id": in["channel_id"], "user_id": "u-1",
				"user_name": "Tester", "content": in["content"], "created": "2024-01-01T00:00:00Z",
				"comment_count": 0,
			},
		}})
	case PathMessageCommentList:
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"comments": []map[string]any{{
				"comment_id": "cm-1", "user_id": "u-1", "user_name": "Tester",
				"content": "first", "created": "2024-01-01T00:00:00Z",
			}},
		}})
	case PathMessageCommentCreate:
		var in map[string]any
		_ = json.Unmarshal(body, &in)
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"comment": map[string]any{
				"comment_id": "cm-2", "user_id": "u-1", "user_name": "Tester",
				"content": in["content"], "created": "2024-01-01T00:00:00Z",
			},
		}})
	case PathProjectList:
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"projects": []map[string]any{{
				"id": "pj-1", "name": "Roadmap", "created": "2024-01-01T00:00:00Z", "color": "green",
				"is_archived": false, "is_private": false, "is_starred": true, "host_id": "u-1",
			}},
		}})
	default:
		writeJSON(w, http.StatusNotFound, apiErrorBody("NOT_FOUND", "unknown endpoint "+path))
	}
}

func apiErrorBody(code, message string) map[string]any {
	return map[string]any{"error": map[string]string{"code": code, "message": message}}
}

func tokenError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, map[string]string{
		"error":             code,
		"error_description": description,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
