package swit

import (
	"net/url"
	"strconv"
)

// DefaultLimit is the page size sent when a list request omits limit.
const DefaultLimit = 20

// WorkspaceListRequest lists the workspaces visible to the user.
type WorkspaceListRequest struct {
	Offset string `json:"offset,omitempty"`
	Limit  *int   `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Name   string `json:"name,omitempty"`
}

// ChannelListRequest lists channels in a workspace.
type ChannelListRequest struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	Offset      string `json:"offset,omitempty"`
	Limit       *int   `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Type        string `json:"type,omitempty"`
	Activity    string `json:"activity,omitempty"`
	Disclosure  string `json:"disclosure,omitempty"`
	Name        string `json:"name,omitempty"`
}

// MessageCreateRequest posts a message to a channel.
type MessageCreateRequest struct {
	ChannelID         string         `json:"channel_id" validate:"required"`
	Content           string         `json:"content,omitempty"`
	BodyType          string         `json:"body_type,omitempty" validate:"omitempty,oneof=plain markdown"`
	Assets            []any          `json:"assets,omitempty"`
	Attachments       map[string]any `json:"attachments,omitempty"`
	ExternalAssetType string         `json:"external_asset_type,omitempty"`
}

// MessageCommentListRequest lists the comments on a message.
type MessageCommentListRequest struct {
	MessageID string `json:"message_id" validate:"required"`
	Offset    string `json:"offset,omitempty"`
	Limit     *int   `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// MessageCommentCreateRequest adds a comment to a message.
type MessageCommentCreateRequest struct {
	MessageID         string         `json:"message_id" validate:"required"`
	Content           string         `json:"content" validate:"required"`
	BodyType          string         `json:"body_type,omitempty" validate:"omitempty,oneof=plain markdown"`
	Assets            map[string]any `json:"assets,omitempty"`
	ExternalAssetType string         `json:"external_asset_type,omitempty"`
}

// ProjectListRequest lists projects in a workspace.
type ProjectListRequest struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	Offset      string `json:"offset,omitempty"`
	Limit       *int   `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Activity    string `json:"activity,omitempty"`
	Disclosure  string `json:"disclosure,omitempty"`
	Name        string `json:"name,omitempty"`
}

// queryBuilder collects only the parameters that were set.
type queryBuilder struct {
	values url.Values
}

func newQuery() *queryBuilder {
	return &queryBuilder{values: url.Values{}}
}

func (q *queryBuilder) set(key, value string) *queryBuilder {
	if value != "" {
		q.values.Set(key, value)
	}
	return q
}

func (q *queryBuilder) limit(limit *int) *queryBuilder {
	n := DefaultLimit
	if limit != nil {
		n = *limit
	}
	q.values.Set("limit", strconv.Itoa(n))
	return q
}

func (r WorkspaceListRequest) query() url.Values {
	return newQuery().
		set("offset", r.Offset).
		limit(r.Limit).
		set("name", r.Name).
		values
}

func (r ChannelListRequest) query() url.Values {
	return newQuery().
		set("workspace_id", r.WorkspaceID).
		set("offset", r.Offset).
		limit(r.Limit).
		set("type", r.Type).
		set("activity", r.Activity).
		set("disclosure", r.Disclosure).
		set("name", r.Name).
		values
}

func (r MessageCommentListRequest) query() url.Values {
	return newQuery().
		set("message_id", r.MessageID).
		set("offset", r.Offset).
		limit(r.Limit).
		values
}

func (r ProjectListRequest) query() url.Values {
	return newQuery().
		set("workspace_id", r.WorkspaceID).
		set("offset", r.Offset).
		limit(r.Limit).
		set("activity", r.Activity).
		set("disclosure", r.Disclosure).
		set("name", r.Name).
		values
}
