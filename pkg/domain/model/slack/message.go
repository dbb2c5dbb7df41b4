package slack

import (
	libslack "github.com/slack-go/slack"
)

// Message is a history entry read from a conversation. It is transient and
// never stored as-is.
type Message struct {
	ts     string
	userID string
	text   string
}

// NewMessageFromSlack creates a Message from a slack-go message. Missing text
// becomes an empty string.
func NewMessageFromSlack(m libslack.Message) Message {
	return Message{
		ts:     m.Timestamp,
		userID: m.User,
		text:   m.Text,
	}
}

// NewMessageFromData creates a Message from raw values
func NewMessageFromData(ts, userID, text string) Message {
	return Message{ts: ts, userID: userID, text: text}
}

func (m Message) TS() string     { return m.ts }
func (m Message) UserID() string { return m.userID }
func (m Message) Text() string   { return m.text }

// Conversation is a channel, private group, multi-person DM or DM reachable
// with a credential.
type Conversation struct {
	id   string
	name string
}

// NewConversationFromSlack creates a Conversation from a slack-go channel.
// Direct messages have no name in Slack, so the counterpart user ID is used.
func NewConversationFromSlack(ch libslack.Channel) Conversation {
	name := ch.Name
	if ch.IsIM && name == "" {
		name = ch.User
	}
	return Conversation{id: ch.ID, name: name}
}

// NewConversationFromData creates a Conversation from raw values
func NewConversationFromData(id, name string) Conversation {
	return Conversation{id: id, name: name}
}

func (c Conversation) ID() string   { return c.id }
func (c Conversation) Name() string { return c.name }
