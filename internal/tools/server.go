package tools

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"swit-mcp/internal/swit"
	"swit-mcp/pkg/logging"
)

// ServerName is announced to MCP clients during initialization.
const ServerName = "swit-mcp"

// OAuthController is the part of the OAuth callback server the control tools
// need. *oauth.CallbackServer implements it.
type OAuthController interface {
	URL() string
	AuthorizationURL() string
	IsAuthenticated() bool
	Logout()
}

// Server registers the Swit tools on an mcp-go server.
type Server struct {
	client    *swit.Client
	oauth     OAuthController
	mcpServer *server.MCPServer
	handlers  map[string]server.ToolHandlerFunc
	now       func() time.Time
}

// NewServer builds the tool server. oauthCtl may be nil when OAuth is not
// configured; the OAuth tools then report that the web server is unavailable.
func NewServer(client *swit.Client, oauthCtl OAuthController, version string) *Server {
	s := &Server{
		client:   client,
		oauth:    oauthCtl,
		handlers: make(map[string]server.ToolHandlerFunc),
		now:      time.Now,
		mcpServer: server.NewMCPServer(
			ServerName,
			version,
			server.WithToolCapabilities(false),
		),
	}

	s.registerOAuthTools()
	s.registerSwitTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ToolNames lists the registered tools in alphabetical order.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Serve speaks MCP over in/out until ctx is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logging.Info("MCPServer", "Serving %d tools over stdio", len(s.handlers))
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}

// Call invokes a registered tool directly with the given arguments.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return s.failure(ErrorDetail{
			Code:    CodeToolExecutionError,
			Message: "Unknown tool: " + name,
			Tool:    name,
		}), nil
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return handler(ctx, req)
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.handlers[tool.Name] = handler
	s.mcpServer.AddTool(tool, handler)
}
