package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"swit-mcp/pkg/logging"
)

// Names of the OAuth control tools.
const (
	ToolOAuthStatus = "swit-oauth-status"
	ToolOAuthStart  = "swit-oauth-start"
	ToolOAuthLogout = "swit-oauth-logout"
)

// OAuthStatus is the data returned by swit-oauth-status.
type OAuthStatus struct {
	Authenticated bool    `json:"authenticated"`
	Status        string  `json:"status"`
	WebServerURL  *string `json:"webServerUrl"`
	Message       string  `json:"message"`
}

// OAuthStart is the data returned by swit-oauth-start when a login is needed.
type OAuthStart struct {
	AuthorizationURL string   `json:"authorizationUrl"`
	WebServerURL     string   `json:"webServerUrl"`
	Instructions     []string `json:"instructions"`
}

// OAuthNotice is a message plus a follow-up hint.
type OAuthNotice struct {
	Message string `json:"message"`
	Note    string `json:"note"`
}

var startInstructions = []string{
	"1. Open the authorizationUrl above in your browser.",
	"2. Login with your Swit account and authorize the application.",
	"3. The token will be automatically saved upon completion.",
	"4. Use swit-oauth-status to check authentication status.",
}

func (s *Server) registerOAuthTools() {
	s.addTool(mcp.NewTool(ToolOAuthStatus,
		mcp.WithDescription("Check OAuth authentication status"),
	), s.handleOAuthStatus)

	s.addTool(mcp.NewTool(ToolOAuthStart,
		mcp.WithDescription("Start OAuth authentication. Returns authentication URL that can be opened in browser."),
	), s.handleOAuthStart)

	s.addTool(mcp.NewTool(ToolOAuthLogout,
		mcp.WithDescription("Logout from OAuth authentication and delete stored tokens. Use when re-authentication is required."),
	), s.handleOAuthLogout)
}

func (s *Server) handleOAuthStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := OAuthStatus{
		Status:  "Authentication required",
		Message: "OAuth authentication required. Use swit-oauth-start tool to begin authentication.",
	}

	if s.oauth != nil {
		u := s.oauth.URL()
		status.WebServerURL = &u
		if s.oauth.IsAuthenticated() {
			status.Authenticated = true
			status.Status = "Authenticated"
			status.Message = "OAuth authentication completed. Swit API is ready to use."
		}
	}

	logging.Debug("MCPServer", "OAuth status checked: authenticated=%t", status.Authenticated)
	return s.success(status, nil), nil
}

func (s *Server) handleOAuthStart(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.oauth == nil {
		logging.Warn("MCPServer", "OAuth start requested but OAuth is not configured")
		return s.failure(ErrorDetail{
			Code:    CodeOAuthServerNotInitialized,
			Message: "OAuth web server is not initialized. Please check SWIT_CLIENT_ID and SWIT_CLIENT_SECRET environment variables.",
			Tool:    ToolOAuthStart,
		}), nil
	}

	if s.oauth.IsAuthenticated() {
		return s.success(OAuthNotice{
			Message: "OAuth authentication already completed.",
			Note:    "To re-authenticate, please logout first.",
		}, nil), nil
	}

	logging.Info("MCPServer", "OAuth authorization URL generated")
	return s.success(OAuthStart{
		AuthorizationURL: s.oauth.AuthorizationURL(),
		WebServerURL:     s.oauth.URL(),
		Instructions:     startInstructions,
	}, nil), nil
}

func (s *Server) handleOAuthLogout(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.oauth == nil {
		return s.failure(ErrorDetail{
			Code:    CodeOAuthServerNotAvailable,
			Message: "OAuth web server is not available. Cannot perform logout.",
			Tool:    ToolOAuthLogout,
		}), nil
	}

	s.oauth.Logout()
	return s.success(OAuthNotice{
		Message: "OAuth logout completed successfully.",
		Note:    "Cached tokens have been cleared. Use swit-oauth-start to re-authenticate.",
	}, nil), nil
}
