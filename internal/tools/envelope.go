package tools

import (
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"swit-mcp/internal/oauth"
	"swit-mcp/internal/swit"
)

// Error codes carried in failure envelopes.
const (
	CodeInvalidArguments          = "INVALID_ARGUMENTS"
	CodeNotAuthenticated          = "NOT_AUTHENTICATED"
	CodeNoRefreshToken            = "NO_REFRESH_TOKEN"
	CodeOAuthExchangeFailed       = "OAUTH_EXCHANGE_FAILED"
	CodeOAuthRefreshFailed        = "OAUTH_REFRESH_FAILED"
	CodeNoCredentialSource        = "NO_CREDENTIAL_SOURCE"
	CodeUpstreamAPIError          = "UPSTREAM_API_ERROR"
	CodeTransportError            = "TRANSPORT_ERROR"
	CodeOAuthServerNotInitialized = "OAUTH_SERVER_NOT_INITIALIZED"
	CodeOAuthServerNotAvailable   = "OAUTH_SERVER_NOT_AVAILABLE"
	CodeToolExecutionError        = "TOOL_EXECUTION_ERROR"
)

// timestampLayout matches the millisecond UTC timestamps clients already parse.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Meta describes the call that produced a success envelope.
type Meta struct {
	Tool          string         `json:"tool"`
	RequestParams map[string]any `json:"requestParams"`
}

// SuccessEnvelope is the body of a successful tool result.
type SuccessEnvelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Meta      *Meta  `json:"meta,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ErrorDetail is the machine-readable part of a failure envelope.
type ErrorDetail struct {
	Code        string          `json:"code"`
	Message     string          `json:"message"`
	Tool        string          `json:"tool,omitempty"`
	APIResponse json.RawMessage `json:"apiResponse,omitempty"`
}

// ErrorEnvelope is the body of a failed tool result.
type ErrorEnvelope struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	Timestamp string      `json:"timestamp"`
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func (s *Server) success(data any, meta *Meta) *mcp.CallToolResult {
	return jsonResult(SuccessEnvelope{
		Success:   true,
		Data:      data,
		Meta:      meta,
		Timestamp: s.timestamp(),
	}, false)
}

func (s *Server) failure(detail ErrorDetail) *mcp.CallToolResult {
	return jsonResult(ErrorEnvelope{
		Success:   false,
		Error:     detail,
		Timestamp: s.timestamp(),
	}, true)
}

func (s *Server) failureFromError(tool string, err error) *mcp.CallToolResult {
	detail := classify(err)
	detail.Tool = tool
	return s.failure(detail)
}

func jsonResult(v any, isError bool) *mcp.CallToolResult {
	text, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode tool result: " + err.Error())
	}
	result := mcp.NewToolResultText(string(text))
	result.IsError = isError
	return result
}

// classify maps an error from the client or the OAuth layer to a failure code.
func classify(err error) ErrorDetail {
	detail := ErrorDetail{Code: CodeToolExecutionError, Message: err.Error()}

	var (
		argErr     *swit.InvalidArgumentsError
		apiErr     *swit.APIError
		exchErr    *oauth.ExchangeError
		refreshErr *oauth.RefreshError
		urlErr     *url.Error
		netErr     net.Error
	)

	switch {
	case errors.As(err, &argErr):
		detail.Code = CodeInvalidArguments
	case errors.Is(err, oauth.ErrNotAuthenticated):
		detail.Code = CodeNotAuthenticated
	case errors.Is(err, oauth.ErrNoRefreshToken):
		detail.Code = CodeNoRefreshToken
	case errors.As(err, &refreshErr):
		detail.Code = CodeOAuthRefreshFailed
	case errors.As(err, &exchErr):
		detail.Code = CodeOAuthExchangeFailed
	case errors.Is(err, swit.ErrNoCredentialSource):
		detail.Code = CodeNoCredentialSource
	case errors.As(err, &apiErr):
		detail.Code = CodeUpstreamAPIError
		detail.APIResponse = apiErr.Payload
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		detail.Code = CodeTransportError
	}
	return detail
}
