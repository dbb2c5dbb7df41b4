package slack

import (
	"context"

	slackmodel "github.com/secmon-lab/mentiondeck/pkg/domain/model/slack"
)

// Client is the subset of the Slack Web API used for scanning. One Client
// is bound to one token.
type Client interface {
	// ListConversations returns one page of conversations and the cursor of
	// the next page ("" when exhausted).
	ListConversations(ctx context.Context, query ConversationQuery) ([]slackmodel.Conversation, string, error)

	// JoinConversation makes the token owner a member of a public channel.
	JoinConversation(ctx context.Context, channelID string) error

	// GetConversationHistory returns messages of a conversation, newest first
	// unless Oldest is set with Inclusive.
	GetConversationHistory(ctx context.Context, query HistoryQuery) ([]slackmodel.Message, error)

	// GetUserInfo returns the profile of a user
	GetUserInfo(ctx context.Context, userID string) (*User, error)
}

// Factory creates a Client for a token.
type Factory func(token string) (Client, error)

// ConversationQuery selects a page of conversations
type ConversationQuery struct {
	Types           []string
	Cursor          string
	Limit           int
	ExcludeArchived bool
}

// HistoryQuery selects messages of one conversation
type HistoryQuery struct {
	ChannelID string
	Limit     int
	Oldest    string
	Inclusive bool
}

// User represents a Slack user
type User struct {
	ID       string
	Name     string
	RealName string
	Email    string
}
