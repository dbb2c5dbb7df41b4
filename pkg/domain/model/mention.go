package model

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Mention is a stored message that mentions a user or broadcasts to the
// whole conversation. (MessageTS, WorkspaceID) identifies it and never
// changes; only Visible is mutable, and only through hiding.
type Mention struct {
	MessageTS   string
	WorkspaceID string
	UserID      string
	ChannelName string
	Content     string
	Visible     bool
	CreatedAt   time.Time
}

// NewMention builds a visible mention for the owner of auth.
func NewMention(auth *Authorization, channelName, ts, text string, now time.Time) *Mention {
	return &Mention{
		MessageTS:   ts,
		WorkspaceID: auth.WorkspaceID,
		UserID:      auth.UserID,
		ChannelName: channelName,
		Content:     text,
		Visible:     true,
		CreatedAt:   now,
	}
}

// Validate checks the identity fields required for storage.
func (m *Mention) Validate() error {
	if m.MessageTS == "" {
		return goerr.Wrap(ErrMissingRequired, "message ts is required")
	}
	if m.WorkspaceID == "" {
		return goerr.Wrap(ErrMissingRequired, "workspace ID is required", goerr.V(MessageTSKey, m.MessageTS))
	}
	if m.UserID == "" {
		return goerr.Wrap(ErrMissingRequired, "user ID is required", goerr.V(MessageTSKey, m.MessageTS))
	}
	return nil
}

func (m Mention) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("ts", m.MessageTS),
		slog.String("workspace_id", m.WorkspaceID),
		slog.String("user_id", m.UserID),
		slog.String("channel", m.ChannelName),
		slog.Int("content.len", len(m.Content)),
	)
}

// MentionView is a visible mention joined with the name of its workspace,
// as served to the overlay.
type MentionView struct {
	MessageTS     string `json:"message_ts"`
	UserID        string `json:"user_slack_id"`
	WorkspaceID   string `json:"slack_workspace_id"`
	WorkspaceName string `json:"slack_workspace_name"`
	ChannelName   string `json:"channel_name"`
	Content       string `json:"message_content"`
}
