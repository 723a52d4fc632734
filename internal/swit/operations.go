package swit

import (
	"context"
	"net/http"
)

// ListWorkspaces calls workspace.list.
func (c *Client) ListWorkspaces(ctx context.Context, req WorkspaceListRequest) (*WorkspaceListResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	var out WorkspaceListResponse
	if err := c.do(ctx, http.MethodGet, EndpointWorkspaceList, req.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListChannels calls channel.list.
func (c *Client) ListChannels(ctx context.Context, req ChannelListRequest) (*ChannelListResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	var out ChannelListResponse
	if err := c.do(ctx, http.MethodGet, EndpointChannelList, req.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMessage calls message.create.
func (c *Client) CreateMessage(ctx context.Context, req MessageCreateRequest) (*MessageCreateResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	var out MessageCreateResponse
	if err := c.do(ctx, http.MethodPost, EndpointMessageCreate, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessageComments calls message.comment.list.
func (c *Client) ListMessageComments(ctx context.Context, req MessageCommentListRequest) (*MessageCommentListResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	var out MessageCommentListResponse
	if err := c.do(ctx, http.MethodGet, EndpointMessageCommentList, req.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMessageComment calls message.comment.create.
func (c *Client) CreateMessageComment(ctx context.Context, req MessageCommentCreateRequest) (*MessageCommentCreateResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	var out MessageCommentCreateResponse
	if err := c.do(ctx, http.MethodPost, EndpointMessageCommentCreate, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProjects calls project.list.
func (c *Client) ListProjects(ctx context.Context, req ProjectListRequest) (*ProjectListResponse, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	var out ProjectListResponse
	if err := c.do(ctx, http.MethodGet, EndpointProjectList, req.query(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
