package swit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"swit-mcp/internal/metrics"
	"swit-mcp/pkg/logging"
	pkgstrings "swit-mcp/pkg/strings"
)

const (
	// DefaultBaseURL is the Swit Open API root.
	DefaultBaseURL = "https://openapi.swit.io/v1"

	// BaseURLEnv overrides DefaultBaseURL.
	BaseURLEnv = "SWIT_API_BASE_URL"

	// StaticTokenEnv holds the fallback bearer token.
	StaticTokenEnv = "SWIT_API_TOKEN"

	// DefaultHTTPTimeout bounds each API request.
	DefaultHTTPTimeout = 30 * time.Second
)

// API endpoint paths relative to the base URL.
const (
	EndpointWorkspaceList        = "/api/workspace.list"
	EndpointChannelList          = "/api/channel.list"
	EndpointMessageCreate        = "/api/message.create"
	EndpointMessageCommentList   = "/api/message.comment.list"
	EndpointMessageCommentCreate = "/api/message.comment.create"
	EndpointProjectList          = "/api/project.list"
)

// TokenProvider supplies a valid OAuth access token for each call.
// *oauth.Coordinator implements it.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// Option configures a Client.
type Option func(*Client)

// WithTokenProvider authenticates calls with OAuth tokens from p.
func WithTokenProvider(p TokenProvider) Option {
	return func(c *Client) {
		c.tokens = p
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithStaticTokenEnv changes the environment variable read for the fallback token.
func WithStaticTokenEnv(name string) Option {
	return func(c *Client) {
		c.staticTokenEnv = name
	}
}

// WithMetrics records per-endpoint request metrics on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = r
	}
}

// Client calls the Swit Open API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenProvider
	staticTokenEnv string
	metrics        *metrics.Recorder
}

// NewClient creates a client. Without WithTokenProvider every call reads the
// static token from the environment.
func NewClient(opts ...Option) *Client {
	baseURL := DefaultBaseURL
	if env := os.Getenv(BaseURLEnv); env != "" {
		baseURL = strings.TrimSuffix(env, "/")
	}

	c := &Client{
		baseURL:        baseURL,
		httpClient:     &http.Client{Timeout: DefaultHTTPTimeout},
		staticTokenEnv: StaticTokenEnv,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root in use.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UsesOAuth reports whether calls are authenticated through a TokenProvider.
func (c *Client) UsesOAuth() bool {
	return c.tokens != nil
}

// resolveToken returns the bearer token for the next call without any network
// I/O other than a possible OAuth refresh.
func (c *Client) resolveToken(ctx context.Context) (string, error) {
	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return "", fmt.Errorf("OAuth authentication failed: %w", err)
		}
		return token, nil
	}

	if token := os.Getenv(c.staticTokenEnv); token != "" {
		return token, nil
	}
	return "", ErrNoCredentialSource
}

// do performs one API call. query is used for GET, body is JSON-encoded for
// POST, and a 2xx response is decoded into out.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body any, out any) error {
	token, err := c.resolveToken(ctx)
	if err != nil {
		return err
	}

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	name := strings.TrimPrefix(endpoint, "/api/")
	logging.Debug("SwitClient", "%s %s (request_id=%s)", method, name, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveAPIRequest(name, 0, time.Since(start))
		logging.Warn("SwitClient", "%s %s failed without response (request_id=%s): %v", method, name, requestID, err)
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.metrics.ObserveAPIRequest(name, resp.StatusCode, time.Since(start))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, data)
		logging.Warn("SwitClient", "%s %s returned %d %s (request_id=%s)", method, name, resp.StatusCode, apiErr.Code, requestID)
		logging.Debug("SwitClient", "Response body: %s", pkgstrings.Excerpt(string(data), pkgstrings.DefaultExcerptLen))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", name, err)
	}
	return nil
}
