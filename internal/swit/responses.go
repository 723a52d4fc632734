package swit

// Workspace is a Swit workspace.
type Workspace struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Domain   string   `json:"domain"`
	Color    string   `json:"color"`
	Photo    string   `json:"photo,omitempty"`
	Created  string   `json:"created"`
	AdminIDs []string `json:"admin_ids"`
	MasterID string   `json:"master_id"`
}

// WorkspaceListResponse is returned by workspace.list.
type WorkspaceListResponse struct {
	Data struct {
		Workspaces []Workspace `json:"workspaces"`
		Offset     string      `json:"offset,omitempty"`
	} `json:"data"`
}

// Channel is a Swit channel.
type Channel struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	Description       string `json:"description,omitempty"`
	Created           string `json:"created"`
	IsArchived        bool   `json:"is_archived"`
	IsMember          bool   `json:"is_member"`
	IsPrivate         bool   `json:"is_private"`
	IsStarred         bool   `json:"is_starred"`
	IsPrevChatVisible bool   `json:"is_prev_chat_visible"`
	HostID            string `json:"host_id"`
}

// ChannelListResponse is returned by channel.list.
type ChannelListResponse struct {
	Data struct {
		Channels []Channel `json:"channels"`
		Offset   string    `json:"offset,omitempty"`
	} `json:"data"`
}

// Message is a channel message.
type Message struct {
	MessageID    string         `json:"message_id"`
	ChannelID    string         `json:"channel_id"`
	UserID       string         `json:"user_id"`
	UserName     string         `json:"user_name"`
	Content      string         `json:"content"`
	Created      string         `json:"created"`
	CommentCount int            `json:"comment_count"`
	Assets       []any          `json:"assets,omitempty"`
	Attachments  map[string]any `json:"attachments,omitempty"`
}

// MessageCreateResponse is returned by message.create.
type MessageCreateResponse struct {
	Data struct {
		Message Message `json:"message"`
	} `json:"data"`
}

// Comment is a comment on a message.
type Comment struct {
	CommentID string `json:"comment_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Content   string `json:"content"`
	Created   string `json:"created"`
	Assets    []any  `json:"assets,omitempty"`
}

// MessageCommentListResponse is returned by message.comment.list.
type MessageCommentListResponse struct {
	Data struct {
		Comments []Comment `json:"comments"`
		Offset   string    `json:"offset,omitempty"`
	} `json:"data"`
}

// MessageCommentCreateResponse is returned by message.comment.create.
type MessageCommentCreateResponse struct {
	Data struct {
		Comment Comment `json:"comment"`
	} `json:"data"`
}

// Project is a Swit project.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Created     string `json:"created"`
	Color       string `json:"color"`
	IsArchived  bool   `json:"is_archived"`
	IsPrivate   bool   `json:"is_private"`
	IsStarred   bool   `json:"is_starred"`
	HostID      string `json:"host_id"`
}

// ProjectListResponse is returned by project.list.
type ProjectListResponse struct {
	Data struct {
		Projects []Project `json:"projects"`
		Offset   string    `json:"offset,omitempty"`
	} `json:"data"`
}
