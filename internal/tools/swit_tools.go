package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"swit-mcp/internal/swit"
	"swit-mcp/pkg/logging"
)

// Names of the Swit API tools.
const (
	ToolWorkspaceList        = "swit-workspace-list"
	ToolChannelList          = "swit-channel-list"
	ToolMessageCreate        = "swit-message-create"
	ToolMessageCommentCreate = "swit-message-comment-create"
	ToolMessageCommentList   = "swit-message-comment-list"
	ToolProjectList          = "swit-project-list"
)

func paginationOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("offset",
			mcp.Description("Continuation token returned by the previous page"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of items to return (default 20)"),
			mcp.Min(1),
			mcp.Max(100),
		),
	}
}

func bodyTypeOption() mcp.ToolOption {
	return mcp.WithString("body_type",
		mcp.Description("Content format"),
		mcp.Enum("plain", "markdown"),
		mcp.DefaultString("plain"),
	)
}

func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{mcp.WithDescription(description)}, opts...)...)
}

func (s *Server) registerSwitTools() {
	s.addTool(newTool(ToolWorkspaceList, "Retrieve list of workspaces",
		append(paginationOptions(),
			mcp.WithString("name", mcp.Description("Filter by workspace name")),
		)...,
	), apiHandler(s, ToolWorkspaceList, s.client.ListWorkspaces))

	s.addTool(newTool(ToolChannelList, "Retrieve list of channels",
		append([]mcp.ToolOption{
			mcp.WithString("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
			mcp.WithString("type", mcp.Description("Channel type filter")),
			mcp.WithString("activity", mcp.Description("Activity filter")),
			mcp.WithString("disclosure", mcp.Description("Disclosure filter")),
			mcp.WithString("name", mcp.Description("Filter by channel name")),
		}, paginationOptions()...)...,
	), apiHandler(s, ToolChannelList, s.client.ListChannels))

	s.addTool(newTool(ToolMessageCreate, "Send message to channel",
		mcp.WithString("channel_id", mcp.Required(), mcp.Description("Channel ID")),
		mcp.WithString("content", mcp.Description("Message content")),
		bodyTypeOption(),
		mcp.WithArray("assets", mcp.Description("Asset references to attach")),
		mcp.WithObject("attachments", mcp.Description("Attachment payload")),
		mcp.WithString("external_asset_type", mcp.Description("External asset type")),
	), apiHandler(s, ToolMessageCreate, s.client.CreateMessage))

	s.addTool(newTool(ToolMessageCommentCreate, "Create comment on message",
		mcp.WithString("message_id", mcp.Required(), mcp.Description("Message ID")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Comment content")),
		bodyTypeOption(),
		mcp.WithObject("assets", mcp.Description("Asset payload")),
		mcp.WithString("external_asset_type", mcp.Description("External asset type")),
	), apiHandler(s, ToolMessageCommentCreate, s.client.CreateMessageComment))

	s.addTool(newTool(ToolMessageCommentList, "Retrieve list of comments on message",
		append([]mcp.ToolOption{
			mcp.WithString("message_id", mcp.Required(), mcp.Description("Message ID")),
		}, paginationOptions()...)...,
	), apiHandler(s, ToolMessageCommentList, s.client.ListMessageComments))

	s.addTool(newTool(ToolProjectList, "Retrieve list of projects",
		append([]mcp.ToolOption{
			mcp.WithString("workspace_id", mcp.Required(), mcp.Description("Workspace ID")),
			mcp.WithString("activity", mcp.Description("Activity filter")),
			mcp.WithString("disclosure", mcp.Description("Disclosure filter")),
			mcp.WithString("name", mcp.Description("Filter by project name")),
		}, paginationOptions()...)...,
	), apiHandler(s, ToolProjectList, s.client.ListProjects))
}

// apiHandler binds the argument bag into Req, runs call and wraps the outcome
// in an envelope. Errors never escape as protocol errors.
func apiHandler[Req, Resp any](s *Server, tool string, call func(context.Context, Req) (*Resp, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if args == nil {
			args = map[string]any{}
		}
		logging.Debug("MCPServer", "Tool %s called", tool)

		var req Req
		if err := swit.Decode(args, &req); err != nil {
			return s.failureFromError(tool, err), nil
		}

		resp, err := call(ctx, req)
		if err != nil {
			logging.Warn("MCPServer", "Tool %s failed: %v", tool, err)
			return s.failureFromError(tool, err), nil
		}

		return s.success(resp, &Meta{Tool: tool, RequestParams: args}), nil
	}
}
